package guided

import (
	"fmt"
	"regexp"
)

// SeparatorStyle selects how raw text is split into question blocks.
type SeparatorStyle string

const (
	SeparatorBold      SeparatorStyle = "bold"       // blocks begin with **bold** markup
	SeparatorLabel     SeparatorStyle = "label"      // blocks begin with "Question N:"
	SeparatorBlankLine SeparatorStyle = "blank-line" // blocks separated by blank lines
)

// OptionStyle selects the option-marker pattern.
type OptionStyle string

const (
	OptionUpper    OptionStyle = "A-upper"        // A) ... D)
	OptionLower    OptionStyle = "a-lower"        // a) ... d)
	OptionBulleted OptionStyle = "bulleted-upper" // · A) ... · D)
	OptionNumeric  OptionStyle = "numeric"        // 1) ... 9)
)

// FormatConfig describes one guided-format convention. The style fields are
// closed enumerations backed by the pattern tables below; the two prefixes
// are matched case-insensitively at line start.
type FormatConfig struct {
	Separator         SeparatorStyle
	Options           OptionStyle
	AnswerPrefix      string
	ExplanationPrefix string
}

// blockStarts marks lines that open a new question block for the marker
// based separator styles. Blank-line splitting has no start marker and is
// handled directly by the splitter.
var blockStarts = map[SeparatorStyle]*regexp.Regexp{
	SeparatorBold:  regexp.MustCompile(`^\*\*`),
	SeparatorLabel: regexp.MustCompile(`^Question\s+\d+:`),
}

var optionPatterns = map[OptionStyle]*regexp.Regexp{
	OptionUpper:    regexp.MustCompile(`^[A-D]\)`),
	OptionLower:    regexp.MustCompile(`^[a-d]\)`),
	OptionBulleted: regexp.MustCompile(`^·\s[A-D]\)`),
	OptionNumeric:  regexp.MustCompile(`^\d+\)`),
}

// Validate rejects unknown styles and empty prefixes. An empty prefix would
// make every line an answer (or explanation) line, so it is never allowed.
func (c FormatConfig) Validate() error {
	switch c.Separator {
	case SeparatorBold, SeparatorLabel, SeparatorBlankLine:
	default:
		return fmt.Errorf("unknown separator style %q", c.Separator)
	}
	if _, ok := optionPatterns[c.Options]; !ok {
		return fmt.Errorf("unknown option style %q", c.Options)
	}
	if c.AnswerPrefix == "" {
		return fmt.Errorf("answer prefix must not be empty")
	}
	if c.ExplanationPrefix == "" {
		return fmt.Errorf("explanation prefix must not be empty")
	}
	return nil
}
