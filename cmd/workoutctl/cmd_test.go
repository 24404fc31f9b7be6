package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportCSV = `title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_lbs,reps,distance_miles,duration_seconds,rpe
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,0,normal,50,10,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,1,normal,50,8,,,
Legs,"6 Jan 2024, 09:00","6 Jan 2024, 10:00",hard,Squat,,,0,normal,100,5,,,
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))
	return execute()
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]int
		want    map[int64]int
		wantErr bool
	}{
		{name: "valid", input: map[string]int{"12": 4, "13": 1}, want: map[int64]int{12: 4, 13: 1}},
		{name: "empty", input: map[string]int{}, want: map[int64]int{}},
		{name: "non-numeric id", input: map[string]int{"abc": 2}, wantErr: true},
		{name: "zero id", input: map[string]int{"0": 2}, wantErr: true},
		{name: "zero sets", input: map[string]int{"5": 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEntries(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "export.csv")
	out := filepath.Join(dir, "workouts.json")
	require.NoError(t, os.WriteFile(in, []byte(exportCSV), 0o600))

	require.NoError(t, run(t, "convert", in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var workouts []struct {
		Date      string            `json:"date"`
		Notes     string            `json:"notes"`
		Exercises []json.RawMessage `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(data, &workouts))
	require.Len(t, workouts, 2)
	assert.Equal(t, "2024-01-05", workouts[0].Date)
	assert.Len(t, workouts[0].Exercises, 1)
	assert.Equal(t, "2024-01-06", workouts[1].Date)
	assert.Equal(t, "hard", workouts[1].Notes)
}

func TestConsolidateCommand(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("a.json", `[{"date":"2024-01-05","notes":"old"},{"date":"2024-01-04","notes":"kept"}]`)
	write("b.json", `[{"date":"2024-01-05","notes":"new"}]`)
	write("c.json", `{"not":"an array"}`)
	out := filepath.Join(t.TempDir(), "all.json")

	require.NoError(t, run(t, "consolidate", dir, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var workouts []struct {
		Date  string `json:"date"`
		Notes string `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(data, &workouts))
	require.Len(t, workouts, 2)
	assert.Equal(t, "2024-01-05", workouts[0].Date)
	assert.Equal(t, "new", workouts[0].Notes)
	assert.Equal(t, "kept", workouts[1].Notes)
}

func TestImportRequiresSource(t *testing.T) {
	err := run(t, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--s3-key")
}

func TestFailedCommandClosesDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(dir, "workouts.db"))
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1,2\n"), 0o644))

	err := run(t, "import", bad)
	require.Error(t, err)
	assert.Nil(t, db, "the connection opened by the command is closed on failure")

	require.NoError(t, run(t, "migrate"))
	assert.Nil(t, db)
}
