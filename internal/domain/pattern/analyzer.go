// Package pattern computes per-item forgetfulness statistics and the
// suggestions derived from them.
package pattern

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
)

// Params tunes the analyzer.
type Params struct {
	// MinOccurrences is the number of forgotten events below which an item
	// is not reported.
	MinOccurrences int
	// HighlightThreshold is the total at which a highlight is suggested.
	HighlightThreshold int
	// Weekdays is the regional working week. Other days count as weekend.
	Weekdays []time.Weekday
	// MaxCommon caps CommonDays and CommonTimes.
	MaxCommon int
}

// NewDefaultParams returns the Monday-to-Friday defaults.
func NewDefaultParams() Params {
	return Params{
		MinOccurrences:     2,
		HighlightThreshold: 5,
		Weekdays:           slices.Clone(domain.DefaultWeekdays),
		MaxCommon:          2,
	}
}

// Analyzer turns exit history into ExitPatternAnalysis values.
type Analyzer struct {
	params Params
}

// NewAnalyzer creates an analyzer. Zero fields in params take their default.
func NewAnalyzer(params Params) *Analyzer {
	def := NewDefaultParams()
	if params.MinOccurrences <= 0 {
		params.MinOccurrences = def.MinOccurrences
	}
	if params.HighlightThreshold <= 0 {
		params.HighlightThreshold = def.HighlightThreshold
	}
	if len(params.Weekdays) == 0 {
		params.Weekdays = def.Weekdays
	}
	if params.MaxCommon <= 0 {
		params.MaxCommon = def.MaxCommon
	}
	return &Analyzer{params: params}
}

// Analyze matches events to items by title and returns one analysis per item
// forgotten at least MinOccurrences times, most forgotten first. Items with
// equal counts keep their input order.
func (a *Analyzer) Analyze(events []*domain.ExitEvent, items []*domain.ChecklistItem) []domain.ExitPatternAnalysis {
	analyses := make([]domain.ExitPatternAnalysis, 0)

	for _, item := range items {
		forgotten := make([]*domain.ExitEvent, 0)
		for _, e := range events {
			if e.Forgot(item.Title) {
				forgotten = append(forgotten, e)
			}
		}

		if len(forgotten) < a.params.MinOccurrences {
			continue
		}

		analyses = append(analyses, domain.ExitPatternAnalysis{
			ItemTitle:      item.Title,
			ForgottenCount: len(forgotten),
			CommonDays: topN(forgotten, a.params.MaxCommon, func(e *domain.ExitEvent) time.Weekday {
				return e.DayOfWeek
			}),
			CommonTimes: topN(forgotten, a.params.MaxCommon, func(e *domain.ExitEvent) domain.TimeOfDay {
				return e.TimeOfDay()
			}),
			Suggestion: a.suggest(item.Title, forgotten),
		})
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].ForgottenCount > analyses[j].ForgottenCount
	})

	return analyses
}

// Suggestions returns the non-empty suggestions of analyses, at most limit
// of them. A non-positive limit returns all.
func Suggestions(analyses []domain.ExitPatternAnalysis, limit int) []domain.Suggestion {
	out := make([]domain.Suggestion, 0)
	for _, a := range analyses {
		if a.Suggestion == nil {
			continue
		}
		out = append(out, *a.Suggestion)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (a *Analyzer) suggest(title string, forgotten []*domain.ExitEvent) *domain.Suggestion {
	weekday := 0
	for _, e := range forgotten {
		if e.IsWeekday(a.params.Weekdays) {
			weekday++
		}
	}
	weekend := len(forgotten) - weekday

	switch {
	case weekday > 2*weekend:
		return &domain.Suggestion{
			Kind:    domain.SuggestionReorder,
			Message: fmt.Sprintf("You often forget %s on weekdays. Consider moving it to the top!", title),
		}
	case len(forgotten) >= a.params.HighlightThreshold:
		return &domain.Suggestion{
			Kind:    domain.SuggestionHighlight,
			Message: fmt.Sprintf("%s is frequently forgotten. Want to highlight it?", title),
		}
	default:
		return nil
	}
}

// topN groups events by key and returns up to n keys by descending count.
// Ties keep the order in which keys first appear in events.
func topN[K comparable](events []*domain.ExitEvent, n int, key func(*domain.ExitEvent) K) []K {
	counts := make(map[K]int)
	order := make([]K, 0)
	for _, e := range events {
		k := key(e)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}
