// Package convert runs the parse→serialize pipeline and keeps a history of
// the artifacts it produced.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/fuse-lms/qti-converter/internal/formats"
	"github.com/fuse-lms/qti-converter/internal/qti"
	"github.com/fuse-lms/qti-converter/internal/quiz/guided"
	"github.com/fuse-lms/qti-converter/internal/storage"
)

// ErrInvalidRequest marks caller mistakes (unknown preset, bad style names,
// negative points) as opposed to unparseable quiz text.
var ErrInvalidRequest = errors.New("invalid request")

// Request is one conversion job. Either Preset or the four explicit format
// fields select the guided-format convention; PointsPerQuestion falls back
// to the preset's default (or the service default) when nil.
type Request struct {
	Text              string   `json:"text"`
	Preset            string   `json:"preset,omitempty"`
	Separator         string   `json:"separator,omitempty"`
	Options           string   `json:"options,omitempty"`
	AnswerPrefix      string   `json:"answer_prefix,omitempty"`
	ExplanationPrefix string   `json:"explanation_prefix,omitempty"`
	PointsPerQuestion *float64 `json:"points_per_question,omitempty"`
	Zip               bool     `json:"zip,omitempty"`
}

// Conversion is one stored conversion record. The artifact itself lives in
// the blob store under ArtifactKey.
type Conversion struct {
	ID            string  `json:"id"`
	OwnerID       string  `json:"owner_id"`
	QuestionCount int     `json:"question_count"`
	Points        float64 `json:"points_per_question"`
	ArtifactKey   string  `json:"-"`
	ContentType   string  `json:"content_type"`
	CreatedAt     int64   `json:"created_at"`
}

// Filename is the artifact's download name: quiz.xml or quiz.zip.
func (c Conversion) Filename() string {
	if c.ContentType == "application/zip" {
		return "quiz.zip"
	}
	return "quiz.xml"
}

type Service struct {
	store         Store
	blobs         storage.BlobStore
	defaultPoints float64
}

func NewService(store Store, blobs storage.BlobStore, defaultPoints float64) *Service {
	return &Service{store: store, blobs: blobs, defaultPoints: defaultPoints}
}

// Convert parses the text, serializes it to QTI, persists the artifact and
// records the conversion. A parse failure stores nothing: there is never a
// partial document.
func (s *Service) Convert(ctx context.Context, ownerID string, req Request) (Conversion, error) {
	cfg, points, err := s.resolveFormat(req)
	if err != nil {
		return Conversion{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Conversion{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	questions, err := guided.Parse(req.Text, cfg)
	if err != nil {
		return Conversion{}, err
	}

	doc, err := qti.Serialize(questions, points)
	if err != nil {
		return Conversion{}, err
	}

	data, contentType := doc, "application/xml"
	if req.Zip {
		if data, err = qti.BuildPackage(doc); err != nil {
			return Conversion{}, err
		}
		contentType = "application/zip"
	}

	c := Conversion{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		QuestionCount: len(questions),
		Points:        points,
		ContentType:   contentType,
		CreatedAt:     time.Now().Unix(),
	}
	c.ArtifactKey = c.ID + "/" + c.Filename()

	if _, err := s.blobs.Put(c.ArtifactKey, bytes.NewReader(data)); err != nil {
		return Conversion{}, err
	}
	if err := s.store.PutConversion(c); err != nil {
		return Conversion{}, err
	}
	return c, nil
}

// Open returns a stored conversion and a reader over its artifact.
func (s *Service) Open(ctx context.Context, id string) (Conversion, io.ReadCloser, error) {
	c, err := s.store.GetConversion(id)
	if err != nil {
		return Conversion{}, nil, err
	}
	rc, err := s.blobs.Get(c.ArtifactKey)
	if err != nil {
		return Conversion{}, nil, err
	}
	return c, rc, nil
}

func (s *Service) resolveFormat(req Request) (guided.FormatConfig, float64, error) {
	points := s.defaultPoints

	var cfg guided.FormatConfig
	if req.Preset != "" {
		p, ok := formats.Lookup(req.Preset)
		if !ok {
			return cfg, 0, fmt.Errorf("%w: unknown preset %q", ErrInvalidRequest, req.Preset)
		}
		cfg = p.Config()
		if p.PointsPerQuestion > 0 {
			points = p.PointsPerQuestion
		}
	} else {
		cfg = guided.FormatConfig{
			Separator:         guided.SeparatorStyle(req.Separator),
			Options:           guided.OptionStyle(req.Options),
			AnswerPrefix:      req.AnswerPrefix,
			ExplanationPrefix: req.ExplanationPrefix,
		}
	}

	if req.PointsPerQuestion != nil {
		if *req.PointsPerQuestion < 0 {
			return cfg, 0, fmt.Errorf("%w: points_per_question must be >= 0", ErrInvalidRequest)
		}
		points = *req.PointsPerQuestion
	}
	return cfg, points, nil
}
