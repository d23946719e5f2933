// Package prompt assembles generation and iteration instructions from authoring context
package prompt

import (
	"fmt"
	"strings"

	"postcraft/internal/core/format"
	"postcraft/internal/core/selector"
	perr "postcraft/internal/platform/errors"
)

// Persona is the author's reusable voice
type Persona struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio,omitempty"`
	ToneTags  []string `json:"tone_tags,omitempty"`
	DoRules   []string `json:"do_rules,omitempty"`
	DontRules []string `json:"dont_rules,omitempty"`
}

// Project is what the post is about
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Audience    string   `json:"audience,omitempty"`
	KeyMessages []string `json:"key_messages,omitempty"`
}

// Platform is the publishing surface
type Platform struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	StyleGuidelines string `json:"style_guidelines,omitempty"`
	MaxLength       int    `json:"max_length,omitempty"`
}

// Context is everything one request knows about the post it wants
// Format is detected from Goal and RawIdea when empty
type Context struct {
	Persona   *Persona
	Project   *Project
	Platform  *Platform
	Goal      string
	RawIdea   string
	Examples  []selector.Scored
	Format    format.Format
	Directive string
}

// default length window in characters when the platform sets no tighter cap
const (
	lengthMin = 800
	lengthMax = 1300
)

// System is the instruction sent as the system message for every call
const System = "You are a ghostwriter for professional social media posts. " +
	"You write in the author's voice, follow the requested structure exactly and " +
	"return only the post text, with no preamble, no quotes and no commentary."

// ResolveFormat returns c.Format, detecting it from goal and idea when unset
func (c Context) ResolveFormat() format.Format {
	if c.Format != "" {
		return c.Format
	}
	return format.Detect(c.Goal, c.RawIdea)
}

// Build renders the generation prompt; the raw idea must be non-blank
func Build(c Context) (string, error) {
	idea := strings.TrimSpace(c.RawIdea)
	if idea == "" {
		return "", perr.WithField(perr.Validationf("raw idea must not be empty"), "raw_idea")
	}

	var b strings.Builder
	writeContext(&b, c, true)

	f := c.ResolveFormat()
	section(&b, "Task")
	fmt.Fprintf(&b, "Write one %s post.\n", platformName(c.Platform))
	if g := strings.TrimSpace(c.Goal); g != "" {
		fmt.Fprintf(&b, "Goal: %s\n", g)
	}
	fmt.Fprintf(&b, "Idea: %s\n", idea)

	fmt.Fprintf(&b, "\nFormat: %s. Structure the post in four parts:\n", format.Default().Label(f))
	for i, step := range format.Outline(f) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if d := strings.TrimSpace(c.Directive); d != "" {
		fmt.Fprintf(&b, "\nApproach: %s\n", d)
	}

	b.WriteString("\nFormatting rules:\n")
	list(&b, formattingRules(c.Platform))
	b.WriteString("\nContent rules:\n")
	list(&b, contentRules)
	return b.String(), nil
}

// BuildIteration renders a revision prompt around the previous text
func BuildIteration(c Context, previous, instruction string) (string, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return "", perr.WithField(perr.Validationf("iteration instruction must not be empty"), "instruction")
	}

	var b strings.Builder
	writeContext(&b, c, false)

	section(&b, "Task")
	fmt.Fprintf(&b, "Revise the %s post below.\n\n", platformName(c.Platform))
	fence := fenceFor(previous)
	b.WriteString("Current version:\n" + fence + "\n")
	b.WriteString(previous)
	if !strings.HasSuffix(previous, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence + "\n\n")
	fmt.Fprintf(&b, "Requested change: %s\n", instruction)

	b.WriteString("\nEditing rules:\n")
	list(&b, surgicalRules)
	b.WriteString("\nFormatting rules:\n")
	list(&b, formattingRules(c.Platform))
	return b.String(), nil
}

// fenceFor returns a backtick fence longer than any backtick run in text, at least three
func fenceFor(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}

// writeContext emits the optional sections in order, skipping empty ones
// iteration prompts leave out examples since the previous text carries the voice
func writeContext(b *strings.Builder, c Context, withExamples bool) {
	if p := c.Persona; p != nil && !p.empty() {
		section(b, "Author")
		field(b, "Name", p.Name)
		field(b, "Bio", p.Bio)
		if len(p.ToneTags) > 0 {
			fmt.Fprintf(b, "Tone: %s\n", strings.Join(p.ToneTags, ", "))
		}
		if len(p.DoRules) > 0 {
			b.WriteString("Always:\n")
			list(b, p.DoRules)
		}
		if len(p.DontRules) > 0 {
			b.WriteString("Never:\n")
			list(b, p.DontRules)
		}
	}

	if withExamples && len(c.Examples) > 0 {
		section(b, "Past posts")
		b.WriteString(selector.Render(c.Examples))
	}

	if p := c.Project; p != nil && !p.empty() {
		section(b, "Project")
		field(b, "Name", p.Name)
		field(b, "Description", p.Description)
		field(b, "Audience", p.Audience)
		if len(p.KeyMessages) > 0 {
			b.WriteString("Key messages:\n")
			list(b, p.KeyMessages)
		}
	}

	if p := c.Platform; p != nil && !p.empty() {
		section(b, "Platform")
		field(b, "Name", p.Name)
		field(b, "Style", p.StyleGuidelines)
		if p.MaxLength > 0 {
			fmt.Fprintf(b, "Hard limit: %d characters including spaces and hashtags\n", p.MaxLength)
		}
	}
}

func (p *Persona) empty() bool {
	return strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Bio) == "" &&
		len(p.ToneTags) == 0 && len(p.DoRules) == 0 && len(p.DontRules) == 0
}

func (p *Project) empty() bool {
	return strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Description) == "" &&
		strings.TrimSpace(p.Audience) == "" && len(p.KeyMessages) == 0
}

func (p *Platform) empty() bool {
	return strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.StyleGuidelines) == "" && p.MaxLength <= 0
}

var contentRules = []string{
	"Write in the first person",
	"Do not include external links",
	"Vary the opening; do not start with \"I'm excited\" or a question about the reader's day",
}

var surgicalRules = []string{
	"Change only what the requested change asks for",
	"Keep every other sentence verbatim, including line breaks",
	"Leave the hook and the call to action untouched unless the request targets them",
	"Return the full revised post, not a diff or a summary",
}

// formattingRules includes the target length window, narrowed by the platform cap
func formattingRules(p *Platform) []string {
	lo, hi := lengthMin, lengthMax
	if p != nil && p.MaxLength > 0 && p.MaxLength < hi {
		hi = p.MaxLength
		lo = hi * 6 / 10
	}
	return []string{
		"One sentence per line",
		"Paragraphs of 1 to 3 lines separated by a blank line",
		"Use between 0 and 3 emojis",
		"End with 3 to 5 relevant hashtags on the last line",
		fmt.Sprintf("Aim for %d to %d characters", lo, hi),
	}
}

func platformName(p *Platform) string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return "social media"
	}
	return strings.TrimSpace(p.Name)
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "## %s\n", title)
}

func field(b *strings.Builder, label, v string) {
	if v = strings.TrimSpace(v); v != "" {
		fmt.Fprintf(b, "%s: %s\n", label, v)
	}
}

func list(b *strings.Builder, items []string) {
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			fmt.Fprintf(b, "- %s\n", it)
		}
	}
}
