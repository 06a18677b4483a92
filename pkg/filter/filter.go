package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"reviewmsg/pkg/shops"
)

type FilterMode int

const (
	FilterModeNone FilterMode = iota
	FilterModeExact
	FilterModeContains
	FilterModeRegex
	FilterModeFuzzy
)

// ParseMode maps a flag value to a FilterMode.
func ParseMode(s string) (FilterMode, error) {
	switch strings.ToLower(s) {
	case "", "contains":
		return FilterModeContains, nil
	case "exact":
		return FilterModeExact, nil
	case "regex":
		return FilterModeRegex, nil
	case "fuzzy":
		return FilterModeFuzzy, nil
	case "none":
		return FilterModeNone, nil
	default:
		return FilterModeNone, fmt.Errorf("unknown filter mode '%s' (exact, contains, regex, fuzzy)", s)
	}
}

type StringFilter struct {
	Pattern string
	Mode    FilterMode
	regex   *regexp.Regexp
}

func NewStringFilter(pattern string, mode FilterMode) (*StringFilter, error) {
	f := &StringFilter{
		Pattern: pattern,
		Mode:    mode,
	}

	if mode == FilterModeRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
		}
		f.regex = re
	}

	return f, nil
}

func (f *StringFilter) Match(s string) bool {
	switch f.Mode {
	case FilterModeNone:
		return true
	case FilterModeExact:
		return strings.EqualFold(s, f.Pattern)
	case FilterModeContains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Pattern))
	case FilterModeRegex:
		return f.regex != nil && f.regex.MatchString(s)
	case FilterModeFuzzy:
		return FuzzyMatch(f.Pattern, s)
	default:
		return true
	}
}

// FuzzyMatch reports whether the runes of pattern appear in text in order,
// ignoring case. Salon names are often Japanese, so it works on runes.
func FuzzyMatch(pattern, text string) bool {
	if pattern == "" {
		return true
	}
	p := []rune(strings.ToLower(pattern))
	i := 0
	for _, r := range strings.ToLower(text) {
		if r == p[i] {
			i++
			if i == len(p) {
				return true
			}
		}
	}
	return false
}

// LevenshteinDistance is the case-insensitive edit distance in runes.
func LevenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previousRow := make([]int, len(b)+1)
	currentRow := make([]int, len(b)+1)

	for i := 0; i <= len(b); i++ {
		previousRow[i] = i
	}

	for i := 0; i < len(a); i++ {
		currentRow[0] = i + 1

		for j := 0; j < len(b); j++ {
			cost := 1
			if unicode.ToLower(a[i]) == unicode.ToLower(b[j]) {
				cost = 0
			}

			deletion := currentRow[j] + 1
			insertion := previousRow[j+1] + 1
			substitution := previousRow[j] + cost

			currentRow[j+1] = min(deletion, insertion, substitution)
		}

		previousRow, currentRow = currentRow, previousRow
	}

	return previousRow[len(b)]
}

// Similar returns candidates within maxDistance edits of target, closest first.
func Similar(target string, candidates []string, maxDistance int) []string {
	type scored struct {
		s string
		d int
	}
	var hits []scored
	for _, c := range candidates {
		if d := LevenshteinDistance(target, c); d <= maxDistance {
			hits = append(hits, scored{c, d})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].d < hits[j-1].d; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.s)
	}
	return out
}

// Shops keeps the shops whose id or salon name matches f.
func Shops(list []shops.Shop, f *StringFilter) []shops.Shop {
	if f == nil || f.Mode == FilterModeNone {
		return list
	}
	out := []shops.Shop{}
	for _, s := range list {
		if f.Match(s.ID) || f.Match(s.SalonName) {
			out = append(out, s)
		}
	}
	return out
}
