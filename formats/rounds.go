package formats

import (
	"fmt"
	"math/bits"
	"strings"
)

// RoundCount returns ceil(log2(teams)), the number of rounds an elimination
// bracket of that size needs. Fewer than two teams need no rounds.
func RoundCount(teams int) int {
	if teams < 2 {
		return 0
	}
	return bits.Len(uint(teams - 1))
}

// DefaultRoundName names round r (1-based) of total, counting back from the
// final.
func DefaultRoundName(r, total int) string {
	switch r {
	case total:
		return "Grand Final"
	case total - 1:
		return "Semi Final"
	case total - 2:
		return "Quarter Final"
	case total - 3:
		return "Round of 16"
	}
	return fmt.Sprintf("Round %d", r)
}

func DefaultRoundNames(teams int) []string {
	total := RoundCount(teams)
	names := make([]string, total)
	for i := range names {
		names[i] = DefaultRoundName(i+1, total)
	}
	return names
}

// RoundName returns the custom name for round r when one is configured and
// not blank, otherwise the default.
func RoundName(custom []string, r, total int) string {
	if r >= 1 && r <= len(custom) {
		if name := strings.TrimSpace(custom[r-1]); name != "" {
			return name
		}
	}
	return DefaultRoundName(r, total)
}

// customNames lists entries of names that differ from the defaults for a
// bracket of len(names) rounds.
func customNames(names []string) []string {
	var out []string
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name != "" && name != DefaultRoundName(i+1, len(names)) {
			out = append(out, name)
		}
	}
	return out
}

// ResizeRoundNames rebuilds round names for a bracket of teams. With preserve
// unset every slot gets its default and all custom names are discarded. With
// preserve set, custom names keep their distance from the final round and
// only the ones that no longer fit are discarded.
func ResizeRoundNames(names []string, teams int, preserve bool) (resized, discarded []string) {
	resized = DefaultRoundNames(teams)
	custom := customNames(names)
	if !preserve {
		return resized, custom
	}

	for k := 1; k <= len(names); k++ {
		old := strings.TrimSpace(names[len(names)-k])
		if old == "" || old == DefaultRoundName(len(names)-k+1, len(names)) {
			continue
		}
		if k > len(resized) {
			discarded = append(discarded, old)
			continue
		}
		resized[len(resized)-k] = old
	}
	return resized, discarded
}
