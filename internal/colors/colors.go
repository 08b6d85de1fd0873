// Package colors assigns display colors to raiyats from a fixed palette.
package colors

import (
	"math/rand/v2"
	"strings"
)

// Palette is the ordered set of colors handed out to raiyats.
var Palette = []string{
	"#ef4444",
	"#22c55e",
	"#a16207",
	"#3b82f6",
	"#8b5cf6",
	"#f59e0b",
	"#06b6d4",
	"#ec4899",
	"#10b981",
	"#f97316",
	"#6366f1",
	"#84cc16",
}

// Assigner picks colors. Intn is the random source used once the palette is
// exhausted; nil means math/rand/v2.
type Assigner struct {
	Intn func(n int) int
}

// Default is the assigner used by Assign.
var Default = Assigner{}

// Assign returns the first palette color not present in used.
func Assign(used []string) string {
	return Default.Assign(used)
}

// Assign returns the first palette color not present in used. When every
// palette color is taken it returns a random palette entry.
func (a Assigner) Assign(used []string) string {
	taken := make(map[string]struct{}, len(used))
	for _, color := range used {
		taken[strings.ToLower(strings.TrimSpace(color))] = struct{}{}
	}
	for _, color := range Palette {
		if _, ok := taken[color]; !ok {
			return color
		}
	}
	intn := a.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return Palette[intn(len(Palette))]
}

// Backfill returns colors for every empty entry in current, in order. Colors
// already present count as used, and each assignment is added to the used
// set before the next one is chosen. The returned map is keyed by index.
func (a Assigner) Backfill(current []string) map[int]string {
	used := make([]string, 0, len(current))
	for _, color := range current {
		if strings.TrimSpace(color) != "" {
			used = append(used, color)
		}
	}
	assigned := make(map[int]string)
	for i, color := range current {
		if strings.TrimSpace(color) != "" {
			continue
		}
		next := a.Assign(used)
		assigned[i] = next
		used = append(used, next)
	}
	return assigned
}
