package qti

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestBuildPackage(t *testing.T) {
	doc, err := Serialize(sampleQuestions(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pkg, err := BuildPackage(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "quiz.xml" {
		t.Fatalf("expected single quiz.xml entry, got %v", zr.File)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Fatalf("zip entry does not match serialized document")
	}
}
