// Package presentation renders diagnoses and history for a terminal.
package presentation

import "strings"

// Treatment is the visual category of a free-text health status.
type Treatment int

const (
	Unrecognized Treatment = iota
	Positive
	Warning
	Negative
)

func (t Treatment) String() string {
	switch t {
	case Positive:
		return "positive"
	case Warning:
		return "warning"
	case Negative:
		return "negative"
	default:
		return "unrecognized"
	}
}

type rule struct {
	keywords  []string
	treatment Treatment
}

// rules are checked in order; the first match wins. Negated forms come first
// because they contain the positive keywords.
var rules = []rule{
	{[]string{"no saludable", "poco saludable", "unhealthy", "not healthy"}, Negative},
	{[]string{"saludable", "healthy"}, Positive},
	{[]string{"atención", "attention"}, Warning},
	{[]string{"enferma", "crítica", "diseased", "critical"}, Negative},
}

// Classify maps a model-written health status to a treatment by case-insensitive
// substring match. Statuses outside the vocabulary are Unrecognized.
func Classify(status string) Treatment {
	s := strings.ToLower(status)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(s, k) {
				return r.treatment
			}
		}
	}
	return Unrecognized
}

// Icon is a hint for the glyph shown next to a status.
type Icon string

const (
	IconCheck    Icon = "check"
	IconDroplets Icon = "droplets"
	IconBug      Icon = "bug"
	IconAlert    Icon = "alert"
)

// IconFor picks the status glyph.
func IconFor(status string) Icon {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "saludable") && Classify(s) == Positive:
		return IconCheck
	case strings.Contains(s, "agua"):
		return IconDroplets
	case strings.Contains(s, "plaga"):
		return IconBug
	default:
		return IconAlert
	}
}
