package importer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SchemaFile is never treated as a workout file.
const SchemaFile = "workout.schema.json"

// ConsolidateResult holds the merged workouts and the files that were skipped.
type ConsolidateResult struct {
	Workouts     []json.RawMessage
	Files        int
	SkippedFiles []string
}

// Consolidate merges every JSON workout array in dir into one list keyed by
// date. Files are read in name order and a later file replaces an earlier
// workout with the same date. The result is sorted newest date first; files
// that are not a JSON array are skipped with a warning.
func Consolidate(dir string) (*ConsolidateResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	byDate := map[string]json.RawMessage{}
	result := &ConsolidateResult{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == SchemaFile {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var workouts []json.RawMessage
		if err := json.Unmarshal(data, &workouts); err != nil {
			slog.Warn("could not decode workout file", "file", name, "error", err)
			result.SkippedFiles = append(result.SkippedFiles, name)
			continue
		}
		result.Files++
		for _, raw := range workouts {
			var head struct {
				Date *string `json:"date"`
			}
			if err := json.Unmarshal(raw, &head); err != nil || head.Date == nil {
				continue
			}
			byDate[*head.Date] = raw
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	result.Workouts = make([]json.RawMessage, 0, len(dates))
	for _, d := range dates {
		result.Workouts = append(result.Workouts, byDate[d])
	}
	return result, nil
}
