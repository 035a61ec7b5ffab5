package quiz

import (
	"regexp"
	"strings"
)

// Question is one parsed multiple-choice question. Options keep their
// original markers ("a) ...") so the correct option can be matched later;
// Answer and Explanation are already marker-stripped.
type Question struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// markerRe is the single marker rule shared by the parser and the
// serializer: a leading run of A-D / a-d / 1-9 followed by ")" and
// optional whitespace.
var markerRe = regexp.MustCompile(`^[A-Da-d1-9]+\)\s*`)

// StripMarker removes a leading option marker such as "a) " or "3) ".
func StripMarker(s string) string {
	return strings.TrimSpace(markerRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// CorrectOption returns the 1-based index of the option whose
// marker-stripped text equals Answer, case-insensitively. When nothing
// matches it falls back to 1: the exported item still scores, it just
// marks the first option as correct.
func (q Question) CorrectOption() int {
	want := strings.ToLower(strings.TrimSpace(q.Answer))
	for i, opt := range q.Options {
		if strings.ToLower(StripMarker(opt)) == want {
			return i + 1
		}
	}
	return 1
}
