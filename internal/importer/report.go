package importer

import (
	"fmt"

	"github.com/google/uuid"
)

// Status is the outcome of one workout or row.
type Status string

const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Run status values.
const (
	RunSuccess = "success"
	RunFailed  = "failed"
)

// Result records what happened to one workout (Line is its first row) or to
// one rejected row.
type Result struct {
	Key    string `json:"key"`
	Line   int    `json:"line,omitempty"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Report aggregates the results of one import run. Imported, Skipped and
// Failed count workouts; RowsRejected counts rows that never became a set.
type Report struct {
	RunID          string   `json:"run_id"`
	Path           string   `json:"path"`
	Status         string   `json:"status"`
	Error          string   `json:"error,omitempty"`
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	RowsRejected   int      `json:"rows_rejected"`
	SetsInserted   int      `json:"sets_inserted"`
	SetsFailed     int      `json:"sets_failed"`
	SkippedDetails []string `json:"skipped_details"`
	Results        []Result `json:"results"`
}

// NewReport starts a report for the named import path.
func NewReport(path string) *Report {
	return &Report{
		RunID:          uuid.NewString(),
		Path:           path,
		Status:         RunSuccess,
		SkippedDetails: []string{},
		Results:        []Result{},
	}
}

// AddImported records a workout that was written.
func (r *Report) AddImported(key string, line int) {
	r.Imported++
	r.Results = append(r.Results, Result{Key: key, Line: line, Status: StatusImported})
}

// AddSkipped records a workout that was deliberately not written.
func (r *Report) AddSkipped(key string, line int, reason string) {
	r.Skipped++
	r.SkippedDetails = append(r.SkippedDetails, reason)
	r.Results = append(r.Results, Result{Key: key, Line: line, Status: StatusSkipped, Reason: reason})
}

// AddFailed records a workout whose writes were rolled back.
func (r *Report) AddFailed(key string, line int, reason string) {
	r.Failed++
	r.Results = append(r.Results, Result{Key: key, Line: line, Status: StatusFailed, Reason: reason})
}

// AddRejectedRows appends row-level results produced while parsing.
func (r *Report) AddRejectedRows(results []Result) {
	r.RowsRejected += len(results)
	r.Results = append(r.Results, results...)
}

// AddSetFailure records a set whose insert was rolled back.
func (r *Report) AddSetFailure(key string, line int, err error) {
	r.SetsFailed++
	r.Results = append(r.Results, Result{Key: key, Line: line, Status: StatusFailed, Reason: fmt.Sprintf("set insert failed: %v", err)})
}

// Abort marks the whole run as rolled back. Workouts counted as imported
// were never committed, so they move to Failed.
func (r *Report) Abort(err error) {
	r.Status = RunFailed
	r.Error = err.Error()
	r.Failed += r.Imported
	r.Imported = 0
	r.SetsInserted = 0
}

// Summary is a one-line description for logs and CLI output.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s import %s: %s, %d imported, %d skipped, %d failed, %d sets inserted, %d sets failed, %d rows rejected",
		r.Path, r.RunID, r.Status, r.Imported, r.Skipped, r.Failed, r.SetsInserted, r.SetsFailed, r.RowsRejected)
}
