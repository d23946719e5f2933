// Package format detects the rhetorical format of a post request from keyword tables
package format

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Format is a rhetorical post format
type Format string

// Known formats
const (
	Story      Format = "story"
	Contrarian Format = "contrarian-opinion"
	Debate     Format = "debate"
)

// Table is one format's keyword set and structural outline
type Table struct {
	Name     Format   `yaml:"name"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	Outline  []string `yaml:"outline"`
}

// Detector classifies text against an ordered list of tables
// the first table is the fallback for ties and no-match
type Detector struct {
	tables []Table
}

// fold case-folds s; a Caser is stateful so each call builds its own
func fold(s string) string { return cases.Fold().String(s) }

//go:embed formats.yaml
var builtin []byte

var defaultDetector = MustLoad(builtin)

// Load parses a YAML document of the form {formats: [Table...]}
func Load(doc []byte) (*Detector, error) {
	var raw struct {
		Formats []Table `yaml:"formats"`
	}
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("format tables: %w", err)
	}
	if len(raw.Formats) == 0 {
		return nil, fmt.Errorf("format tables: no formats defined")
	}
	d := &Detector{}
	seen := map[Format]bool{}
	for _, t := range raw.Formats {
		if t.Name == "" {
			return nil, fmt.Errorf("format tables: entry without a name")
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("format tables: duplicate format %q", t.Name)
		}
		seen[t.Name] = true
		kws := make([]string, 0, len(t.Keywords))
		for _, k := range t.Keywords {
			if k = fold(k); strings.TrimSpace(k) != "" {
				kws = append(kws, k)
			}
		}
		t.Keywords = kws
		d.tables = append(d.tables, t)
	}
	return d, nil
}

// MustLoad is Load that panics, for embedded tables
func MustLoad(doc []byte) *Detector {
	d, err := Load(doc)
	if err != nil {
		panic(err)
	}
	return d
}

// Default returns the detector built from the embedded tables
func Default() *Detector { return defaultDetector }

// Detect classifies goal and idea with the embedded tables
func Detect(goal, idea string) Format { return defaultDetector.Detect(goal, idea) }

// Outline returns the 4-part outline of f from the embedded tables
func Outline(f Format) []string { return defaultDetector.Outline(f) }

// Parse accepts a known format name, case-insensitively
func Parse(s string) (Format, bool) {
	want := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range defaultDetector.tables {
		if t.Name == want {
			return t.Name, true
		}
	}
	return "", false
}

// Scores counts, per format, how many of its keywords occur in goal+idea
func (d *Detector) Scores(goal, idea string) map[Format]int {
	text := fold(goal + " " + idea)
	out := make(map[Format]int, len(d.tables))
	for _, t := range d.tables {
		n := 0
		for _, k := range t.Keywords {
			if strings.Contains(text, k) {
				n++
			}
		}
		out[t.Name] = n
	}
	return out
}

// Detect returns the format with the most keyword hits; ties and zero hits fall back to the first table
func (d *Detector) Detect(goal, idea string) Format {
	scores := d.Scores(goal, idea)
	fallback := d.tables[0].Name

	best, bestScore, tied := fallback, 0, false
	for _, t := range d.tables {
		s := scores[t.Name]
		switch {
		case s > bestScore:
			best, bestScore, tied = t.Name, s, false
		case s == bestScore && s > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return fallback
	}
	return best
}

// Outline returns the outline for f, or the fallback outline when f is unknown
func (d *Detector) Outline(f Format) []string {
	for _, t := range d.tables {
		if t.Name == f {
			return append([]string(nil), t.Outline...)
		}
	}
	return append([]string(nil), d.tables[0].Outline...)
}

// Label returns the human label for f
func (d *Detector) Label(f Format) string {
	for _, t := range d.tables {
		if t.Name == f {
			return t.Label
		}
	}
	return string(f)
}

// Formats lists the configured formats in table order
func (d *Detector) Formats() []Format {
	out := make([]Format, 0, len(d.tables))
	for _, t := range d.tables {
		out = append(out, t.Name)
	}
	return out
}
