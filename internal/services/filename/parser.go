// Package filename extracts violation hints encoded in uploaded file names.
package filename

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Hint is a violation label and timestamp claimed by a file name
type Hint struct {
	Label            string `json:"label"`
	TimestampSeconds int    `json:"timestamp_seconds"`
	Pattern          string `json:"pattern"`
}

// Pattern is one naming convention. Groups[1] is the label; the remaining
// groups are handed to Seconds.
type Pattern struct {
	Name    string
	Regexp  *regexp.Regexp
	Seconds func(groups []int) int
}

// Parser tries its patterns in order and returns the first match
type Parser struct {
	patterns []Pattern
}

// The optional leading "<digits>_" is an epoch upload timestamp prefix. Shorter
// digit runs belong to the label.
var (
	minutesDecimal = regexp.MustCompile(`(?i)^(?:\d{10,}_)?(.+?)_at_(\d{1,3})\.(\d{1,2})[ _-]?min`)
	underscoreHMS  = regexp.MustCompile(`(?i)^(?:\d{10,}_)?(.+?)_at_(\d{1,2})_(\d{1,2})_(\d{1,2})`)
	spacedHMS      = regexp.MustCompile(`(?i)^(?:\d{10,}_)?(.+?)\s+at\s+(\d{1,2})_(\d{1,2})_(\d{1,2})`)
)

func minSec(g []int) int { return g[0]*60 + g[1] }

func hourMinSec(g []int) int { return g[0]*3600 + g[1]*60 + g[2] }

// DefaultPatterns returns the supported conventions in precedence order:
//
//	<label>_at_<MM>.<SS> min
//	<label>_at_<HH>_<MM>_<SS>
//	<label> at <HH>_<MM>_<SS>
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "minutes_decimal", Regexp: minutesDecimal, Seconds: minSec},
		{Name: "underscore_hms", Regexp: underscoreHMS, Seconds: hourMinSec},
		{Name: "spaced_hms", Regexp: spacedHMS, Seconds: hourMinSec},
	}
}

// NewParser creates a parser. No patterns means DefaultPatterns.
func NewParser(patterns ...Pattern) *Parser {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Parser{patterns: patterns}
}

// Parse returns the hint carried by name, or nil when no pattern matches.
// Only the base name is considered.
func (p *Parser) Parse(name string) *Hint {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))

	for _, pattern := range p.patterns {
		m := pattern.Regexp.FindStringSubmatch(base)
		if m == nil {
			continue
		}

		label := normalizeLabel(m[1])
		if label == "" {
			continue
		}

		numbers := make([]int, 0, len(m)-2)
		ok := true
		for _, raw := range m[2:] {
			n, err := strconv.Atoi(raw)
			if err != nil {
				ok = false
				break
			}
			numbers = append(numbers, n)
		}
		if !ok {
			continue
		}

		return &Hint{
			Label:            label,
			TimestampSeconds: pattern.Seconds(numbers),
			Pattern:          pattern.Name,
		}
	}
	return nil
}

// Parse runs the default parser
func Parse(name string) *Hint {
	return defaultParser.Parse(name)
}

var defaultParser = NewParser()

func normalizeLabel(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
}
