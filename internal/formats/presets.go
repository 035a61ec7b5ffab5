// Package formats holds named guided-format presets so front ends can offer
// a single picker instead of four separate fields.
package formats

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fuse-lms/qti-converter/internal/quiz/guided"
)

// Preset bundles one guided-format convention with a default points value.
type Preset struct {
	Name              string  `yaml:"name" json:"name"`
	Description       string  `yaml:"description,omitempty" json:"description,omitempty"`
	Separator         string  `yaml:"separator" json:"separator"`
	Options           string  `yaml:"options" json:"options"`
	AnswerPrefix      string  `yaml:"answer_prefix" json:"answer_prefix"`
	ExplanationPrefix string  `yaml:"explanation_prefix" json:"explanation_prefix"`
	PointsPerQuestion float64 `yaml:"points_per_question,omitempty" json:"points_per_question,omitempty"`
}

// Config converts the preset to a parser configuration. Validation happens
// in the parser; a preset with a bad style fails there, not here.
func (p Preset) Config() guided.FormatConfig {
	return guided.FormatConfig{
		Separator:         guided.SeparatorStyle(p.Separator),
		Options:           guided.OptionStyle(p.Options),
		AnswerPrefix:      p.AnswerPrefix,
		ExplanationPrefix: p.ExplanationPrefix,
	}
}

// Registry of presets by name. Built-ins register at init; deployments can
// add or override via a preset directory (see LoadDir).
var registry = map[string]Preset{}

func Register(p Preset) {
	if p.Name == "" {
		return
	}
	registry[p.Name] = p
}

func Lookup(name string) (Preset, bool) { p, ok := registry[name]; return p, ok }

// All returns the registered presets sorted by name.
func All() []Preset {
	out := make([]Preset, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadDir registers one preset per YAML file found under dir. Files that do
// not unmarshal or lack a name are skipped with a log line so a single bad
// file cannot take the service down.
func LoadDir(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var p Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			log.Printf("skipping invalid preset %s: %v", path, err)
			return nil
		}
		if p.Name == "" {
			log.Printf("skipping preset without name: %s", path)
			return nil
		}
		Register(p)
		return nil
	})
}

func init() {
	Register(Preset{
		Name:              "canvas-default",
		Description:       "Blank-line separated questions with a) b) c) options",
		Separator:         string(guided.SeparatorBlankLine),
		Options:           string(guided.OptionLower),
		AnswerPrefix:      "Answer:",
		ExplanationPrefix: "Explanation:",
		PointsPerQuestion: 1,
	})
	Register(Preset{
		Name:              "numbered-questions",
		Description:       "\"Question N:\" headings with a) b) c) options",
		Separator:         string(guided.SeparatorLabel),
		Options:           string(guided.OptionLower),
		AnswerPrefix:      "Answer:",
		ExplanationPrefix: "Explanation:",
		PointsPerQuestion: 1,
	})
	Register(Preset{
		Name:              "bold-headings",
		Description:       "**Bold** question headings with A) B) C) options",
		Separator:         string(guided.SeparatorBold),
		Options:           string(guided.OptionUpper),
		AnswerPrefix:      "Answer:",
		ExplanationPrefix: "Explanation:",
		PointsPerQuestion: 1,
	})
}
