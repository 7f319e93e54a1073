package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/schema"
)

// MetricExtractor reduces a window of events to one comparable number.
type MetricExtractor struct {
	Name    string
	Extract func(events []schema.RawEvent) float64
}

// Built-in extractor names.
const (
	CountMetric         = "count"
	PullRequestsMetric  = "pull_requests"
	IssuesMetric        = "issues"
	CommitsMetric       = "commits"
	AdditionsMetric     = "additions"
	DeletionsMetric     = "deletions"
	FilesChangedMetric  = "files_changed"
	UniqueAuthorsMetric = "unique_authors"
	StarsMetric         = "stars"
	ForksMetric         = "forks"
)

// builtinExtractors is ordered the way trend tables are printed.
var builtinExtractors = []MetricExtractor{
	{Name: CountMetric, Extract: func(events []schema.RawEvent) float64 { return float64(len(events)) }},
	{Name: PullRequestsMetric, Extract: countKind(schema.PullRequestEvent)},
	{Name: IssuesMetric, Extract: countKind(schema.IssueEvent)},
	{Name: CommitsMetric, Extract: sumField(func(e schema.RawEvent) int { return e.Commits })},
	{Name: AdditionsMetric, Extract: sumField(func(e schema.RawEvent) int { return e.Additions })},
	{Name: DeletionsMetric, Extract: sumField(func(e schema.RawEvent) int { return e.Deletions })},
	{Name: FilesChangedMetric, Extract: sumField(func(e schema.RawEvent) int { return e.FilesChanged })},
	{Name: UniqueAuthorsMetric, Extract: uniqueAuthors},
	{Name: StarsMetric, Extract: countKind(schema.StarEvent)},
	{Name: ForksMetric, Extract: countKind(schema.ForkEvent)},
}

// DefaultExtractors returns every built-in extractor.
func DefaultExtractors() []MetricExtractor {
	out := make([]MetricExtractor, len(builtinExtractors))
	copy(out, builtinExtractors)
	return out
}

// ExtractorsByName resolves a list of metric names. An empty list means all.
func ExtractorsByName(names []string) ([]MetricExtractor, error) {
	if len(names) == 0 {
		return DefaultExtractors(), nil
	}
	byName := make(map[string]MetricExtractor, len(builtinExtractors))
	for _, ex := range builtinExtractors {
		byName[ex.Name] = ex
	}
	out := make([]MetricExtractor, 0, len(names))
	for _, n := range names {
		ex, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown trend metric %q", n)
		}
		out = append(out, ex)
	}
	return out, nil
}

// PercentChange returns the relative change from previous to current in percent.
// A non-positive previous value yields 0 rather than an infinite change.
func PercentChange(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	return 0
}

// CompareTrends evaluates every extractor over both windows.
// Metrics come back in extractor order. Neither input is modified.
func CompareTrends(current, previous []schema.RawEvent, extractors []MetricExtractor) []schema.TrendMetric {
	metrics := make([]schema.TrendMetric, 0, len(extractors))
	for _, ex := range extractors {
		cur := ex.Extract(current)
		prev := ex.Extract(previous)
		metrics = append(metrics, schema.TrendMetric{
			Name:          ex.Name,
			CurrentValue:  cur,
			PreviousValue: prev,
			PercentChange: PercentChange(cur, prev),
		})
	}
	return metrics
}

// TrendCutoff turns the configured end into the exclusive upper bound of the
// current window. A bare date (UTC midnight) means the whole day is included,
// so the cutoff moves to the start of the next day.
func TrendCutoff(end time.Time) time.Time {
	if end.Equal(agg.DayOf(end)) {
		return agg.AddDays(end, 1)
	}
	return end
}

// SplitWindows partitions events into the current window [end-period, end)
// and the prior window [end-2*period, end-period). Events outside both are ignored.
func SplitWindows(events []schema.RawEvent, end time.Time, period time.Duration) (current, previous []schema.RawEvent) {
	curStart := end.Add(-period)
	prevStart := curStart.Add(-period)
	current = []schema.RawEvent{}
	previous = []schema.RawEvent{}
	for _, e := range events {
		switch {
		case inRange(e.Timestamp, curStart, end):
			current = append(current, e)
		case inRange(e.Timestamp, prevStart, curStart):
			previous = append(previous, e)
		}
	}
	return current, previous
}

// BuildTrendResult splits events around end and compares the two windows.
func BuildTrendResult(events []schema.RawEvent, end time.Time, period time.Duration, extractors []MetricExtractor) schema.TrendResult {
	current, previous := SplitWindows(events, end, period)
	return schema.TrendResult{
		CurrentStart:  end.Add(-period),
		CurrentEnd:    end,
		PreviousStart: end.Add(-2 * period),
		PreviousEnd:   end.Add(-period),
		Metrics:       CompareTrends(current, previous, extractors),
	}
}

// inRange reports whether t is in [start, end).
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func countKind(kind schema.EventKind) func([]schema.RawEvent) float64 {
	return func(events []schema.RawEvent) float64 {
		n := 0
		for _, e := range events {
			if e.Kind == kind {
				n++
			}
		}
		return float64(n)
	}
}

func sumField(field func(schema.RawEvent) int) func([]schema.RawEvent) float64 {
	return func(events []schema.RawEvent) float64 {
		total := 0
		for _, e := range events {
			total += field(e)
		}
		return float64(total)
	}
}

func uniqueAuthors(events []schema.RawEvent) float64 {
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e.Author == "" {
			continue
		}
		seen[e.Author] = struct{}{}
	}
	return float64(len(seen))
}
