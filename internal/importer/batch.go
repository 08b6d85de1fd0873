package importer

import (
	"fmt"

	"github.com/landbook/landbook/internal/apperr"
)

// RowResult is the outcome of processing a single row. Index is 1-based.
type RowResult struct {
	Index int
	Err   error
}

// Summary aggregates the outcome of a batch.
type Summary struct {
	CreatedCount int         `json:"createdCount"`
	ErrorCount   int         `json:"errorCount"`
	Errors       []string    `json:"errors"`
	Results      []RowResult `json:"-"`
}

// Batch processes rows one at a time, never stopping on a failed row.
type Batch struct {
	// Fallback is reported for errors that carry no user-facing message.
	Fallback string
}

// Run applies fn to every row in order and summarizes the outcome.
func (b Batch) Run(rows []Row, fn func(Row) error) Summary {
	fallback := b.Fallback
	if fallback == "" {
		fallback = apperr.MsgUnknown
	}
	summary := Summary{Errors: []string{}, Results: make([]RowResult, 0, len(rows))}
	for i, row := range rows {
		result := RowResult{Index: i + 1, Err: fn(row)}
		summary.Results = append(summary.Results, result)
		if result.Err == nil {
			summary.CreatedCount++
			continue
		}
		summary.ErrorCount++
		summary.Errors = append(summary.Errors, fmt.Sprintf("पंक्ति %d: %s", result.Index, apperr.MessageOf(result.Err, fallback)))
	}
	return summary
}
