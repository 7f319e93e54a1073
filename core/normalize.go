package core

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/huangsam/churnchart/core/agg"
	"github.com/huangsam/churnchart/schema"
)

// NormalizeOptions controls which records survive normalization.
type NormalizeOptions struct {
	IncludeBots bool
}

// NormalizeRecords turns heterogeneous source records into validated events.
// Missing numeric fields default to 0. Records with an unusable timestamp or
// a negative magnitude are skipped and counted; this function never fails.
func NormalizeRecords(records []schema.SourceRecord, opts NormalizeOptions) ([]schema.RawEvent, schema.NormalizeReport) {
	var report schema.NormalizeReport
	events := make([]schema.RawEvent, 0, len(records))

	for _, r := range records {
		ts, err := agg.ParseTimestamp(recordTimestamp(r))
		if err != nil {
			report.SkippedTimestamp++
			continue
		}

		e := schema.RawEvent{
			ID:           strings.TrimSpace(r.ID),
			Timestamp:    ts,
			Kind:         normalizeKind(r.Kind),
			Author:       schema.NormalizeAuthor(r.Author),
			Additions:    valueOrZero(r.Additions),
			Deletions:    valueOrZero(r.Deletions),
			Commits:      valueOrZero(r.Commits),
			FilesChanged: valueOrZero(r.ChangedFiles),
		}
		if e.Additions < 0 || e.Deletions < 0 || e.Commits < 0 || e.FilesChanged < 0 {
			report.SkippedNegative++
			continue
		}
		if !opts.IncludeBots && schema.IsBotAuthor(e.Author) {
			report.SkippedBots++
			continue
		}
		if e.ID == "" {
			e.ID = EventKey(e)
		}

		events = append(events, e)
		report.Accepted++
	}

	return events, report
}

// FilterBots drops bot-authored events unless includeBots is set.
// It returns a new slice and the number of dropped events.
func FilterBots(events []schema.RawEvent, includeBots bool) ([]schema.RawEvent, int) {
	kept := make([]schema.RawEvent, 0, len(events))
	if includeBots {
		return append(kept, events...), 0
	}
	dropped := 0
	for _, e := range events {
		if schema.IsBotAuthor(e.Author) {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}

// EventKey derives a stable identifier for an event that arrived without one,
// so that re-importing the same file does not duplicate rows.
func EventKey(e schema.RawEvent) string {
	raw := fmt.Sprintf("%s|%s|%s|%d|%d|%d|%d",
		e.Kind, e.Author, e.Timestamp.UTC().Format(timeKeyLayout),
		e.Additions, e.Deletions, e.Commits, e.FilesChanged)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))[:32]
}

const timeKeyLayout = "2006-01-02T15:04:05.999999999Z"

// recordTimestamp picks the instant a record counts for: merged pull requests
// count on their merge day, everything else on creation.
func recordTimestamp(r schema.SourceRecord) string {
	if normalizeKind(r.Kind) == schema.PullRequestEvent && strings.TrimSpace(r.MergedAt) != "" {
		return r.MergedAt
	}
	return r.CreatedAt
}

// normalizeKind maps loose kind spellings (including GitHub event type names)
// onto the known kinds. Unknown kinds pass through lowercased.
func normalizeKind(kind schema.EventKind) schema.EventKind {
	k := strings.ToLower(strings.TrimSpace(string(kind)))
	switch k {
	case "pr", "pull", "pullrequest", "pull_request", "pullrequestevent":
		return schema.PullRequestEvent
	case "issue", "issues", "issuesevent":
		return schema.IssueEvent
	case "commit", "push", "pushevent":
		return schema.CommitEvent
	case "star", "watch", "watchevent":
		return schema.StarEvent
	case "fork", "forkevent":
		return schema.ForkEvent
	}
	return schema.EventKind(k)
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
