package guided

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fuse-lms/qti-converter/internal/quiz"
)

// ErrNoQuestions is returned when splitting produced no question blocks,
// which almost always means the separator setting does not match the text.
var ErrNoQuestions = errors.New("no questions found; check the separator setting")

// ParseError reports the first question that failed validation, identified
// by its 1-based position and best-known question text.
type ParseError struct {
	Index    int
	Question string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s in question #%d: %q", e.Reason, e.Index, e.Question)
}

var (
	boldWrap     = regexp.MustCompile(`^\*\*(.*?)\*\*$`)
	labelPrefix  = regexp.MustCompile(`^Question\s+\d+:`)
	leadingStars = regexp.MustCompile(`^\*+`)
)

// Parse splits text into question blocks per cfg.Separator and parses each
// block into a Question. It is pure and deterministic; the first invalid
// block aborts the whole parse, so either every block converts or none do.
func Parse(text string, cfg FormatConfig) ([]quiz.Question, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	blocks := splitBlocks(strings.TrimSpace(text), cfg.Separator)
	optRe := optionPatterns[cfg.Options]

	var out []quiz.Question
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		q, err := parseBlock(block, len(out)+1, optRe, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// splitBlocks cuts the text into question blocks. For the marker styles a
// matching line opens a new block and stays attached to it. Text before the
// first marker is kept as its own block rather than dropped: a question
// whose marker was mistyped must abort the parse, never vanish from the
// output.
func splitBlocks(text string, sep SeparatorStyle) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var blocks []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}

	if sep == SeparatorBlankLine {
		gap := false
		for _, ln := range lines {
			if strings.TrimSpace(ln) == "" {
				gap = true
				flush()
				continue
			}
			cur = append(cur, ln)
		}
		if !gap {
			return nil
		}
		flush()
		return blocks
	}

	start := blockStarts[sep]
	for _, ln := range lines {
		if start.MatchString(ln) {
			flush()
		}
		cur = append(cur, ln)
	}
	flush()
	return blocks
}

func parseBlock(block string, idx int, optRe *regexp.Regexp, cfg FormatConfig) (quiz.Question, error) {
	lines := strings.Split(block, "\n")

	// First line is the question: unwrap bold markup, drop any
	// "Question N:" label, shed stray asterisks.
	text := strings.TrimSpace(lines[0])
	if m := boldWrap.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = labelPrefix.ReplaceAllString(text, "")
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "*"))

	b := &blockBuilder{index: idx, text: text, optRe: optRe, cfg: cfg}
	for _, ln := range lines[1:] {
		b.addLine(strings.TrimSpace(ln))
	}
	return b.finalize()
}

// blockBuilder accumulates one block's fields while scanning its lines and
// only releases a Question through finalize, so a half-built record can
// never escape.
type blockBuilder struct {
	index int
	text  string
	optRe *regexp.Regexp
	cfg   FormatConfig

	options     []string
	answer      string
	explanation string
}

// lineInfo carries one classified line: the raw line plus the
// asterisk-stripped remainder (a leading asterisk marks the correct option).
type lineInfo struct {
	raw     string
	clean   string
	starred bool
}

// addLine runs the classifiers in priority order; the first one that
// consumes the line wins. Option markers are checked before the answer and
// explanation prefixes, so an option whose text happens to begin with the
// answer prefix is still an option.
func (b *blockBuilder) addLine(line string) {
	if line == "" {
		return
	}
	li := lineInfo{
		raw:     line,
		clean:   strings.TrimSpace(leadingStars.ReplaceAllString(line, "")),
		starred: strings.HasPrefix(line, "*"),
	}
	for _, classify := range []func(lineInfo) bool{
		b.optionLine,
		b.answerLine,
		b.explanationLine,
		b.starredLine,
	} {
		if classify(li) {
			return
		}
	}
}

func (b *blockBuilder) optionLine(li lineInfo) bool {
	if !b.optRe.MatchString(li.clean) {
		return false
	}
	b.options = append(b.options, li.clean)
	if li.starred {
		b.answer = quiz.StripMarker(li.clean)
	}
	return true
}

func (b *blockBuilder) answerLine(li lineInfo) bool {
	if !hasPrefixFold(li.raw, b.cfg.AnswerPrefix) {
		return false
	}
	// An explicit answer line overrides any answer inferred from a star.
	b.answer = quiz.StripMarker(li.raw[len(b.cfg.AnswerPrefix):])
	return true
}

func (b *blockBuilder) explanationLine(li lineInfo) bool {
	if !hasPrefixFold(li.raw, b.cfg.ExplanationPrefix) {
		return false
	}
	b.explanation = strings.TrimSpace(li.raw[len(b.cfg.ExplanationPrefix):])
	return true
}

// starredLine catches a starred line that matched no option marker: it is
// still an option, and the correct one.
func (b *blockBuilder) starredLine(li lineInfo) bool {
	if !li.starred {
		return false
	}
	b.options = append(b.options, li.clean)
	b.answer = li.clean
	return true
}

func (b *blockBuilder) finalize() (quiz.Question, error) {
	switch {
	case len(b.options) < 2:
		return quiz.Question{}, &ParseError{Index: b.index, Question: b.text, Reason: "not enough options"}
	case b.answer == "":
		return quiz.Question{}, &ParseError{Index: b.index, Question: b.text, Reason: "missing answer"}
	case b.explanation == "":
		return quiz.Question{}, &ParseError{Index: b.index, Question: b.text, Reason: "missing explanation"}
	}
	return quiz.Question{
		Text:        b.text,
		Options:     b.options,
		Answer:      b.answer,
		Explanation: b.explanation,
	}, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
