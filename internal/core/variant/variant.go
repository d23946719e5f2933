// Package variant defines the fixed stylistic approaches used when fanning out post variants
package variant

// Approach names
const (
	Direct       = "direct"
	Storytelling = "storytelling"
	DataDriven   = "data-driven"
	Emotional    = "emotional"
)

// MaxCount is the number of distinct approaches available
const MaxCount = 4

// Approach is one stylistic direction with its sampling temperature
type Approach struct {
	Name        string
	Temperature float64
	Directive   string
}

// approaches in priority order; never reordered or repeated
var approaches = [MaxCount]Approach{
	{
		Name:        Direct,
		Temperature: 0.5,
		Directive:   "Be direct. Lead with the main point in the first line and cut anything that does not support it.",
	},
	{
		Name:        Storytelling,
		Temperature: 0.7,
		Directive:   "Tell it as a short narrative with a concrete scene, a turning point and a takeaway.",
	},
	{
		Name:        DataDriven,
		Temperature: 0.6,
		Directive:   "Anchor the post in numbers, results or specific observations. Prefer concrete figures over adjectives.",
	},
	{
		Name:        Emotional,
		Temperature: 0.8,
		Directive:   "Write with emotional honesty. Name the feeling, show vulnerability and connect it to the reader's experience.",
	},
}

// Clamp bounds a requested variant count to [1, MaxCount]
func Clamp(count int) int {
	switch {
	case count < 1:
		return 1
	case count > MaxCount:
		return MaxCount
	default:
		return count
	}
}

// Plan returns the first Clamp(count) approaches in priority order
func Plan(count int) []Approach {
	n := Clamp(count)
	out := make([]Approach, n)
	copy(out, approaches[:n])
	return out
}

// Lookup finds an approach by name
func Lookup(name string) (Approach, bool) {
	for _, a := range approaches {
		if a.Name == name {
			return a, true
		}
	}
	return Approach{}, false
}

// Names lists every approach in priority order
func Names() []string {
	out := make([]string, 0, MaxCount)
	for _, a := range approaches {
		out = append(out, a.Name)
	}
	return out
}
