// Package selector scores past writing samples and picks the ones worth showing the model
package selector

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Defaults
const (
	DefaultMaxCount    = 5
	DefaultTokenBudget = 1500
)

// scoring constants
const (
	baseScore          = 100.0
	platformBonus      = 50.0
	goodLengthBonus    = 20.0
	shortPenalty       = 20.0
	undatedRecency     = 50.0
	recencyHalfLife    = 30.0 // days
	goodLengthMin      = 100
	goodLengthMax      = 1000
	shortLengthCeiling = 50
)

// Engagement holds public counters of a published post
type Engagement struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Views    int64 `json:"views"`
}

// Total is likes + 2*comments + 3*shares + 0.01*views
func (e *Engagement) Total() float64 {
	if e == nil {
		return 0
	}
	return float64(e.Likes) + 2*float64(e.Comments) + 3*float64(e.Shares) + 0.01*float64(e.Views)
}

// Example is one historical post
type Example struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	PlatformID  string      `json:"platform_id,omitempty"`
	Engagement  *Engagement `json:"engagement,omitempty"`
}

// Scored is an Example with its relevance
type Scored struct {
	Example
	Score         float64 `json:"score"`
	PlatformMatch bool    `json:"platform_match"`
}

// Options tune a selection
// nil weights count as 1.0 and an explicit 0 drops the term; a zero Now means time.Now
type Options struct {
	MaxCount         int
	TargetPlatformID string
	IncludeFallback  bool
	Now              time.Time
	EngagementWeight *float64
	RecencyWeight    *float64
}

// Weight wraps w for the Options weight fields
func Weight(w float64) *float64 { return &w }

func (o Options) withDefaults() Options {
	if o.MaxCount <= 0 {
		o.MaxCount = DefaultMaxCount
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.EngagementWeight == nil {
		o.EngagementWeight = Weight(1)
	}
	if o.RecencyWeight == nil {
		o.RecencyWeight = Weight(1)
	}
	return o
}

// Length counts characters of s after NFC normalization
func Length(s string) int { return utf8.RuneCountInString(norm.NFC.String(s)) }

// Recency is 100 * 0.5^(ageDays/30), clamped at zero; undated examples get 50
func Recency(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil || publishedAt.IsZero() {
		return undatedRecency
	}
	age := now.Sub(*publishedAt).Hours() / 24
	r := 100 * math.Pow(0.5, age/recencyHalfLife)
	if r < 0 || math.IsNaN(r) {
		return 0
	}
	return r
}

// Score rates a single example against opt
func Score(ex Example, opt Options) Scored {
	opt = opt.withDefaults()

	s := baseScore
	s += math.Log(ex.Engagement.Total()+1) * 10 * *opt.EngagementWeight
	s += Recency(ex.PublishedAt, opt.Now) * *opt.RecencyWeight

	match := opt.TargetPlatformID != "" && ex.PlatformID == opt.TargetPlatformID
	if match {
		s += platformBonus
	}

	n := Length(ex.Content)
	if n >= goodLengthMin && n <= goodLengthMax {
		s += goodLengthBonus
	}
	if n < shortLengthCeiling {
		s -= shortPenalty
	}
	return Scored{Example: ex, Score: s, PlatformMatch: match}
}

// Rank scores every candidate and orders them by score, highest first
// equal scores keep their input order
func Rank(candidates []Example, opt Options) []Scored {
	opt = opt.withDefaults()
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Score(c, opt))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Select ranks candidates and keeps at most MaxCount
// with a target platform and IncludeFallback off only matching examples survive, possibly none
func Select(candidates []Example, opt Options) []Scored {
	opt = opt.withDefaults()
	ranked := Rank(candidates, opt)

	if !opt.IncludeFallback && opt.TargetPlatformID != "" {
		matched := ranked[:0]
		for _, s := range ranked {
			if s.PlatformMatch {
				matched = append(matched, s)
			}
		}
		ranked = matched
	}
	if len(ranked) > opt.MaxCount {
		ranked = ranked[:opt.MaxCount]
	}
	return ranked
}

// SelectWithTokenBudget runs Select, then drops the lowest-scoring examples
// until the rendered block fits budget; a budget <= 0 uses DefaultTokenBudget
func SelectWithTokenBudget(candidates []Example, opt Options, budget int) []Scored {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	sel := Select(candidates, opt)
	for len(sel) > 0 && EstimateTokens(sel) > budget {
		sel = sel[:len(sel)-1]
	}
	return sel
}

// EstimateTokens approximates the prompt cost of the rendered block as chars/4
func EstimateTokens(sel []Scored) int {
	return utf8.RuneCountInString(Render(sel)) / 4
}

// Render formats the selection exactly as it is placed into the prompt
func Render(sel []Scored) string {
	if len(sel) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("These past posts show the author's voice. Match their style, not their topics.\n")
	for i, s := range sel {
		fmt.Fprintf(&b, "\n--- Example %d", i+1)
		if s.Engagement != nil {
			fmt.Fprintf(&b, " (%d likes, %d comments, %d shares)",
				s.Engagement.Likes, s.Engagement.Comments, s.Engagement.Shares)
		}
		b.WriteString(" ---\n")
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n")
	}
	return b.String()
}
