// Package qti renders parsed questions into a QTI 1.2 questestinterop
// document and optionally wraps it in an upload-ready ZIP package.
package qti

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/fuse-lms/qti-converter/internal/quiz"
)

// --- XML document model. Built fully in memory, serialized in one pass. ---

type Interop struct {
	XMLName xml.Name `xml:"questestinterop"`
	Items   []Item   `xml:"item"`
}

type Item struct {
	Ident         string         `xml:"ident,attr"`
	Title         string         `xml:"title,attr"`
	Presentation  Presentation   `xml:"presentation"`
	ResProcessing ResProcessing  `xml:"resprocessing"`
	Feedback      []ItemFeedback `xml:"itemfeedback"`
}

type Presentation struct {
	Flow Flow `xml:"flow"`
}

type Flow struct {
	Material Material    `xml:"material"`
	Response ResponseLid `xml:"response_lid"`
}

type Material struct {
	MatText string `xml:"mattext"`
}

type ResponseLid struct {
	Ident        string       `xml:"ident,attr"`
	RCardinality string       `xml:"rcardinality,attr"`
	RenderChoice RenderChoice `xml:"render_choice"`
}

type RenderChoice struct {
	Labels []ResponseLabel `xml:"response_label"`
}

type ResponseLabel struct {
	Ident    string   `xml:"ident,attr"`
	Material Material `xml:"material"`
}

type ResProcessing struct {
	Outcomes   Outcomes        `xml:"outcomes"`
	Conditions []RespCondition `xml:"respcondition"`
}

type Outcomes struct {
	DecVar DecVar `xml:"decvar"`
}

type DecVar struct {
	VarName string `xml:"varname,attr"`
	VarType string `xml:"vartype,attr"`
	Default string `xml:"default,attr"`
}

type RespCondition struct {
	Title        string           `xml:"title,attr"`
	ConditionVar ConditionVar     `xml:"conditionvar"`
	SetVar       SetVar           `xml:"setvar"`
	Feedback     *DisplayFeedback `xml:"displayfeedback"`
}

// ConditionVar with a nil VarEqual serializes as an empty <conditionvar/>,
// the unconditional catch-all used by the "incorrect" rule.
type ConditionVar struct {
	VarEqual *VarEqual `xml:"varequal,omitempty"`
}

type VarEqual struct {
	RespIdent string `xml:"respident,attr"`
	Value     string `xml:",chardata"`
}

type SetVar struct {
	Action string `xml:"action,attr"`
	Value  string `xml:",chardata"`
}

type DisplayFeedback struct {
	FeedbackType string `xml:"feedbacktype,attr"`
	LinkRefID    string `xml:"linkrefid,attr"`
}

type ItemFeedback struct {
	Ident    string   `xml:"ident,attr"`
	Material Material `xml:"material"`
}

// Serialize renders questions into a UTF-8 questestinterop document. Item i
// (1-based) gets ident "q{i}", its options become response labels
// "option{j}" in parse order, and the "correct" rule points at the option
// matching the answer (first option when nothing matches). Both feedback
// blocks carry the explanation: it is shown regardless of correctness.
// Identical input always yields identical bytes.
func Serialize(questions []quiz.Question, pointsPerQuestion float64) ([]byte, error) {
	points := strconv.FormatFloat(pointsPerQuestion, 'f', -1, 64)

	doc := Interop{Items: make([]Item, 0, len(questions))}
	for i, q := range questions {
		labels := make([]ResponseLabel, len(q.Options))
		for j, opt := range q.Options {
			labels[j] = ResponseLabel{
				Ident:    fmt.Sprintf("option%d", j+1),
				Material: Material{MatText: quiz.StripMarker(opt)},
			}
		}

		doc.Items = append(doc.Items, Item{
			Ident: fmt.Sprintf("q%d", i+1),
			Title: fmt.Sprintf("Question %d", i+1),
			Presentation: Presentation{Flow: Flow{
				Material: Material{MatText: q.Text},
				Response: ResponseLid{
					Ident:        "response1",
					RCardinality: "Single",
					RenderChoice: RenderChoice{Labels: labels},
				},
			}},
			ResProcessing: ResProcessing{
				Outcomes: Outcomes{DecVar: DecVar{
					VarName: "SCORE",
					VarType: "Decimal",
					Default: points,
				}},
				Conditions: []RespCondition{
					{
						Title: "correct",
						ConditionVar: ConditionVar{VarEqual: &VarEqual{
							RespIdent: "response1",
							Value:     fmt.Sprintf("option%d", q.CorrectOption()),
						}},
						SetVar:   SetVar{Action: "Set", Value: points},
						Feedback: &DisplayFeedback{FeedbackType: "Response", LinkRefID: "feedback_correct"},
					},
					{
						Title:    "incorrect",
						SetVar:   SetVar{Action: "Set", Value: "0"},
						Feedback: &DisplayFeedback{FeedbackType: "Response", LinkRefID: "feedback_incorrect"},
					},
				},
			},
			Feedback: []ItemFeedback{
				{Ident: "feedback_correct", Material: Material{MatText: q.Explanation}},
				{Ident: "feedback_incorrect", Material: Material{MatText: q.Explanation}},
			},
		})
	}

	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(b)+1)
	out = append(out, xml.Header...)
	out = append(out, b...)
	out = append(out, '\n')
	return out, nil
}
