package qti

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/fuse-lms/qti-converter/internal/quiz"
)

func sampleQuestions() []quiz.Question {
	return []quiz.Question{
		{
			Text:        "What is 2+2?",
			Options:     []string{"a) 3", "b) 4", "c) 5"},
			Answer:      "4",
			Explanation: "2+2 is 4.",
		},
		{
			Text:        "Capital of France?",
			Options:     []string{"a) London", "b) Paris"},
			Answer:      "Paris",
			Explanation: "It is Paris.",
		},
	}
}

func unmarshalDoc(t *testing.T, b []byte) Interop {
	t.Helper()
	var doc Interop
	if err := xml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	return doc
}

func TestSerializeDocumentShape(t *testing.T) {
	out, err := Serialize(sampleQuestions(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte(xml.Header)) {
		t.Fatalf("missing XML declaration")
	}

	doc := unmarshalDoc(t, out)
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}

	first := doc.Items[0]
	if first.Ident != "q1" || first.Title != "Question 1" {
		t.Fatalf("item identity = %q / %q", first.Ident, first.Title)
	}
	if first.Presentation.Flow.Material.MatText != "What is 2+2?" {
		t.Fatalf("question material = %q", first.Presentation.Flow.Material.MatText)
	}
	if got := first.Presentation.Flow.Response.RCardinality; got != "Single" {
		t.Fatalf("rcardinality = %q", got)
	}

	labels := first.Presentation.Flow.Response.RenderChoice.Labels
	if len(labels) != 3 {
		t.Fatalf("expected 3 response labels, got %d", len(labels))
	}
	// Options keep parse order and lose their markers.
	for i, want := range []string{"3", "4", "5"} {
		if labels[i].Material.MatText != want {
			t.Fatalf("label %d = %q, want %q", i, labels[i].Material.MatText, want)
		}
	}
	if labels[2].Ident != "option3" {
		t.Fatalf("label ident = %q", labels[2].Ident)
	}
}

func TestSerializeScoring(t *testing.T) {
	out, err := Serialize(sampleQuestions(), 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := unmarshalDoc(t, out)

	rp := doc.Items[0].ResProcessing
	if rp.Outcomes.DecVar.VarName != "SCORE" || rp.Outcomes.DecVar.Default != "2.5" {
		t.Fatalf("decvar = %+v", rp.Outcomes.DecVar)
	}
	if len(rp.Conditions) != 2 {
		t.Fatalf("expected 2 respconditions, got %d", len(rp.Conditions))
	}

	correct := rp.Conditions[0]
	if correct.Title != "correct" {
		t.Fatalf("first condition = %q", correct.Title)
	}
	if correct.ConditionVar.VarEqual == nil || correct.ConditionVar.VarEqual.Value != "option2" {
		t.Fatalf("correct condition = %+v, want option2", correct.ConditionVar.VarEqual)
	}
	if correct.SetVar.Value != "2.5" {
		t.Fatalf("correct setvar = %q", correct.SetVar.Value)
	}
	if correct.Feedback == nil || correct.Feedback.LinkRefID != "feedback_correct" {
		t.Fatalf("correct feedback link = %+v", correct.Feedback)
	}

	incorrect := rp.Conditions[1]
	if incorrect.Title != "incorrect" {
		t.Fatalf("second condition = %q", incorrect.Title)
	}
	if incorrect.ConditionVar.VarEqual != nil {
		t.Fatalf("incorrect condition must be the unconditional catch-all")
	}
	if incorrect.SetVar.Value != "0" {
		t.Fatalf("incorrect setvar = %q", incorrect.SetVar.Value)
	}
}

func TestSerializeFeedbackCarriesExplanationTwice(t *testing.T) {
	out, err := Serialize(sampleQuestions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := unmarshalDoc(t, out)

	fb := doc.Items[0].Feedback
	if len(fb) != 2 {
		t.Fatalf("expected 2 feedback blocks, got %d", len(fb))
	}
	if fb[0].Ident != "feedback_correct" || fb[1].Ident != "feedback_incorrect" {
		t.Fatalf("feedback idents = %q, %q", fb[0].Ident, fb[1].Ident)
	}
	// The same explanation shows regardless of correctness.
	if fb[0].Material.MatText != "2+2 is 4." || fb[1].Material.MatText != "2+2 is 4." {
		t.Fatalf("feedback texts = %q, %q", fb[0].Material.MatText, fb[1].Material.MatText)
	}
}

func TestSerializeUnmatchedAnswerFallsBackToOption1(t *testing.T) {
	qs := []quiz.Question{{
		Text:        "Pick one.",
		Options:     []string{"a) first", "b) second"},
		Answer:      "not present",
		Explanation: "fallback case.",
	}}
	out, err := Serialize(qs, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := unmarshalDoc(t, out)
	ve := doc.Items[0].ResProcessing.Conditions[0].ConditionVar.VarEqual
	if ve == nil || ve.Value != "option1" {
		t.Fatalf("fallback correct condition = %+v, want option1", ve)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	a, err := Serialize(sampleQuestions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Serialize(sampleQuestions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("identical input produced different bytes")
	}
}

func TestSerializeEscapesMarkup(t *testing.T) {
	qs := []quiz.Question{{
		Text:        "Is 1 < 2 && 3 > 2?",
		Options:     []string{"a) yes", "b) no"},
		Answer:      "yes",
		Explanation: "comparison & logic.",
	}}
	out, err := Serialize(qs, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "1 < 2") {
		t.Fatalf("question text not XML-escaped")
	}
	doc := unmarshalDoc(t, out)
	if doc.Items[0].Presentation.Flow.Material.MatText != "Is 1 < 2 && 3 > 2?" {
		t.Fatalf("escaped text does not round-trip")
	}
}

func TestSerializeWholePointsRenderWithoutDecimal(t *testing.T) {
	out, err := Serialize(sampleQuestions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := unmarshalDoc(t, out)
	if got := doc.Items[0].ResProcessing.Outcomes.DecVar.Default; got != "1" {
		t.Fatalf("points = %q, want %q", got, "1")
	}
}
