package selector

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func at(daysAgo int) *time.Time {
	t := now.AddDate(0, 0, -daysAgo)
	return &t
}

func ids(sel []Scored) []string {
	out := make([]string, 0, len(sel))
	for _, s := range sel {
		out = append(out, s.ID)
	}
	return out
}

func TestEngagementTotal(t *testing.T) {
	var nilE *Engagement
	if nilE.Total() != 0 {
		t.Fatalf("nil engagement total should be 0")
	}
	e := &Engagement{Likes: 10, Comments: 5, Shares: 2, Views: 1000}
	if got := e.Total(); got != 10+10+6+10 {
		t.Fatalf("Total = %v, want 36", got)
	}
}

func TestRecency(t *testing.T) {
	if got := Recency(nil, now); got != 50 {
		t.Fatalf("undated = %v, want 50", got)
	}
	if got := Recency(at(0), now); got != 100 {
		t.Fatalf("today = %v, want 100", got)
	}
	if got := Recency(at(30), now); math.Abs(got-50) > 1e-9 {
		t.Fatalf("30 days = %v, want 50", got)
	}
	if got := Recency(at(60), now); math.Abs(got-25) > 1e-9 {
		t.Fatalf("60 days = %v, want 25", got)
	}
}

func TestScore_Components(t *testing.T) {
	opt := Options{TargetPlatformID: "li", Now: now}
	body := strings.Repeat("a", 200)

	s := Score(Example{Content: body, PublishedAt: at(0), PlatformID: "li"}, opt)
	// 100 base + 0 engagement + 100 recency + 50 platform + 20 length
	if math.Abs(s.Score-270) > 1e-9 || !s.PlatformMatch {
		t.Fatalf("score = %v match=%v, want 270 true", s.Score, s.PlatformMatch)
	}

	short := Score(Example{Content: "tiny", PlatformID: "x"}, opt)
	// 100 base + 50 undated - 20 short
	if math.Abs(short.Score-130) > 1e-9 || short.PlatformMatch {
		t.Fatalf("short score = %v match=%v, want 130 false", short.Score, short.PlatformMatch)
	}

	eng := Score(Example{Content: body, Engagement: &Engagement{Likes: 99}}, Options{Now: now, EngagementWeight: Weight(2)})
	want := 100 + math.Log(100)*10*2 + 50 + 20
	if math.Abs(eng.Score-want) > 1e-9 {
		t.Fatalf("engagement score = %v, want %v", eng.Score, want)
	}
}

func TestScore_ZeroWeightDropsTerm(t *testing.T) {
	body := strings.Repeat("a", 200)
	ex := Example{Content: body, PublishedAt: &now, Engagement: &Engagement{Likes: 99}}

	s := Score(ex, Options{Now: now, EngagementWeight: Weight(0), RecencyWeight: Weight(0)})
	// 100 base + 20 length
	if math.Abs(s.Score-120) > 1e-9 {
		t.Fatalf("score = %v, want 120", s.Score)
	}

	recencyOnly := Score(ex, Options{Now: now, EngagementWeight: Weight(0)})
	if math.Abs(recencyOnly.Score-220) > 1e-9 {
		t.Fatalf("recency-only score = %v, want 220", recencyOnly.Score)
	}

	def := Score(ex, Options{Now: now})
	want := 220 + math.Log(100)*10
	if math.Abs(def.Score-want) > 1e-9 {
		t.Fatalf("default score = %v, want %v", def.Score, want)
	}
}

func TestLength_CountsCharactersNotBytes(t *testing.T) {
	// "é" composed and decomposed both count as one character
	if Length("caf\u00e9") != 4 || Length("cafe\u0301") != 4 {
		t.Fatalf("Length mismatch: %d %d", Length("caf\u00e9"), Length("cafe\u0301"))
	}
}

func TestSelect_OrdersByEngagement(t *testing.T) {
	body := strings.Repeat("word ", 40)
	cands := []Example{
		{ID: "zero", Content: body, PublishedAt: at(5), PlatformID: "li", Engagement: &Engagement{Likes: 0}},
		{ID: "hundred", Content: body, PublishedAt: at(5), PlatformID: "li", Engagement: &Engagement{Likes: 100}},
		{ID: "ten", Content: body, PublishedAt: at(5), PlatformID: "li", Engagement: &Engagement{Likes: 10}},
	}
	got := ids(Select(cands, Options{MaxCount: 3, TargetPlatformID: "li", Now: now}))
	if diff := cmp.Diff([]string{"hundred", "ten", "zero"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_FallbackBranches(t *testing.T) {
	body := strings.Repeat("x", 300)
	cands := []Example{
		{ID: "other-hot", Content: body, PlatformID: "tw", Engagement: &Engagement{Likes: 100000}},
		{ID: "match", Content: body, PlatformID: "li"},
		{ID: "other", Content: body, PlatformID: "tw"},
	}

	with := ids(Select(cands, Options{MaxCount: 2, TargetPlatformID: "li", IncludeFallback: true, Now: now}))
	if diff := cmp.Diff([]string{"other-hot", "match"}, with); diff != "" {
		t.Fatalf("fallback on (-want +got):\n%s", diff)
	}

	without := ids(Select(cands, Options{MaxCount: 2, TargetPlatformID: "li", Now: now}))
	if diff := cmp.Diff([]string{"match"}, without); diff != "" {
		t.Fatalf("fallback off (-want +got):\n%s", diff)
	}

	none := Select(cands, Options{TargetPlatformID: "fb", Now: now})
	if len(none) != 0 {
		t.Fatalf("fallback off with no match should be empty, got %v", ids(none))
	}

	// no target: fallback flag is irrelevant
	all := Select(cands, Options{Now: now})
	if len(all) != 3 {
		t.Fatalf("no target should keep all 3, got %d", len(all))
	}
}

func TestSelect_DefaultMaxCount(t *testing.T) {
	var cands []Example
	for i := 0; i < 9; i++ {
		cands = append(cands, Example{ID: string(rune('a' + i)), Content: "hello"})
	}
	if got := len(Select(cands, Options{Now: now})); got != DefaultMaxCount {
		t.Fatalf("len = %d, want %d", got, DefaultMaxCount)
	}
}

func TestSelectWithTokenBudget(t *testing.T) {
	t.Run("single huge example with tiny budget yields empty", func(t *testing.T) {
		cands := []Example{{ID: "big", Content: strings.Repeat("y", 4000)}}
		if got := SelectWithTokenBudget(cands, Options{Now: now}, 10); len(got) != 0 {
			t.Fatalf("want empty, got %v", ids(got))
		}
	})

	t.Run("drops lowest scoring first and never exceeds budget", func(t *testing.T) {
		var cands []Example
		for i, likes := range []int64{500, 50, 5, 0} {
			cands = append(cands, Example{
				ID:         string(rune('a' + i)),
				Content:    strings.Repeat("z", 600),
				Engagement: &Engagement{Likes: likes},
			})
		}
		for _, budget := range []int{100, 200, 400, 700, 1500} {
			got := SelectWithTokenBudget(cands, Options{Now: now}, budget)
			if len(got) > 0 && EstimateTokens(got) > budget {
				t.Fatalf("budget %d exceeded: %d", budget, EstimateTokens(got))
			}
			want := []string{"a", "b", "c", "d"}[:len(got)]
			if diff := cmp.Diff(want, ids(got)); diff != "" {
				t.Fatalf("budget %d kept wrong examples (-want +got):\n%s", budget, diff)
			}
		}
		// roughly 160 tokens each: 700 keeps four, 400 keeps two
		if n := len(SelectWithTokenBudget(cands, Options{Now: now}, 700)); n != 4 {
			t.Fatalf("budget 700 kept %d, want 4", n)
		}
		if n := len(SelectWithTokenBudget(cands, Options{Now: now}, 400)); n != 2 {
			t.Fatalf("budget 400 kept %d, want 2", n)
		}
	})

	t.Run("non-positive budget uses default", func(t *testing.T) {
		cands := []Example{{ID: "ok", Content: strings.Repeat("q", 2000)}}
		if got := SelectWithTokenBudget(cands, Options{Now: now}, 0); len(got) != 1 {
			t.Fatalf("default budget should keep a 500-token example")
		}
	})
}

func TestRender(t *testing.T) {
	if Render(nil) != "" {
		t.Fatalf("empty selection should render empty")
	}
	out := Render([]Scored{
		{Example: Example{Content: "  first post  ", Engagement: &Engagement{Likes: 3, Comments: 2, Shares: 1}}},
		{Example: Example{Content: "second post"}},
	})
	for _, want := range []string{"--- Example 1 (3 likes, 2 comments, 1 shares) ---\nfirst post\n", "--- Example 2 ---\nsecond post\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q in:\n%s", want, out)
		}
	}
}
