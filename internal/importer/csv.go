// Package importer turns workout-log CSV exports into workout, exercise and
// set records ready to be written, and reports what happened to every row.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Export column names.
const (
	ColStartTime       = "start_time"
	ColEndTime         = "end_time"
	ColTitle           = "title"
	ColDescription     = "description"
	ColExerciseTitle   = "exercise_title"
	ColExerciseNotes   = "exercise_notes"
	ColSupersetID      = "superset_id"
	ColSetIndex        = "set_index"
	ColReps            = "reps"
	ColWeightLbs       = "weight_lbs"
	ColDistanceMiles   = "distance_miles"
	ColDurationSeconds = "duration_seconds"
	ColRPE             = "rpe"
)

var requiredColumns = []string{ColStartTime, ColEndTime, ColTitle, ColExerciseTitle, ColSetIndex}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Row is one set as it appears in the export. Line is the 1-based line
// number in the source file (the header is line 1).
type Row struct {
	Line            int
	StartTime       string
	EndTime         string
	Title           string
	Description     string
	ExerciseTitle   string
	ExerciseNotes   string
	SupersetID      string
	SetIndex        string
	Reps            string
	WeightLbs       string
	DistanceMiles   string
	DurationSeconds string
	RPE             string
}

// ReadRows parses an export. Columns are matched by header name, so extra or
// reordered columns are fine; optional columns may be absent.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rows = append(rows, Row{
			Line:            line,
			StartTime:       field(record, ColStartTime),
			EndTime:         field(record, ColEndTime),
			Title:           field(record, ColTitle),
			Description:     field(record, ColDescription),
			ExerciseTitle:   field(record, ColExerciseTitle),
			ExerciseNotes:   field(record, ColExerciseNotes),
			SupersetID:      field(record, ColSupersetID),
			SetIndex:        field(record, ColSetIndex),
			Reps:            field(record, ColReps),
			WeightLbs:       field(record, ColWeightLbs),
			DistanceMiles:   field(record, ColDistanceMiles),
			DurationSeconds: field(record, ColDurationSeconds),
			RPE:             field(record, ColRPE),
		})
	}
	return rows, nil
}
