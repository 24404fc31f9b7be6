package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_lbs,reps,distance_miles,duration_seconds,rpe\n"

func readRows(t *testing.T, body string) []Row {
	t.Helper()
	rows, err := ReadRows(strings.NewReader(header + body))
	require.NoError(t, err)
	return rows
}

func TestReadRows(t *testing.T) {
	t.Run("maps columns by header", func(t *testing.T) {
		rows := readRows(t, `Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",felt good,Bench Press (Dumbbell),,,0,normal,50,10,,,8`+"\n")
		require.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, "Bench Press (Dumbbell)", rows[0].ExerciseTitle)
		assert.Equal(t, "5 Jan 2024, 07:00", rows[0].StartTime)
		assert.Equal(t, "50", rows[0].WeightLbs)
		assert.Equal(t, "8", rows[0].RPE)
	})

	t.Run("byte order mark on first header", func(t *testing.T) {
		rows, err := ReadRows(strings.NewReader("\ufeffstart_time,end_time,title,exercise_title,set_index\na,b,c,d,0\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "a", rows[0].StartTime)
	})

	t.Run("missing required column", func(t *testing.T) {
		_, err := ReadRows(strings.NewReader("start_time,end_time,title\n"))
		require.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), "exercise_title")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadRows(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		name  string
		row   Row
		opts  ParseOptions
		check func(t *testing.T, s Set)
	}{
		{
			name: "pounds and set index",
			row:  Row{ExerciseTitle: "Bench Press (Dumbbell)", SetIndex: "2", WeightLbs: "50", Reps: "10.0"},
			check: func(t *testing.T, s Set) {
				assert.Equal(t, 3, s.SetNumber)
				require.NotNil(t, s.WeightKg)
				assert.Equal(t, 22.68, *s.WeightKg)
				require.NotNil(t, s.Reps)
				assert.Equal(t, 10, *s.Reps)
				assert.Nil(t, s.DistanceM)
				assert.Nil(t, s.Notes)
			},
		},
		{
			name: "sled distance is read as weight",
			row:  Row{ExerciseTitle: "Sled Push", SetIndex: "0", DistanceMiles: "0.5"},
			check: func(t *testing.T, s Set) {
				require.NotNil(t, s.WeightKg)
				assert.Equal(t, Round2(0.5*PoundsToKilograms), *s.WeightKg)
				assert.Equal(t, 0.23, *s.WeightKg)
				assert.Nil(t, s.DistanceM)
			},
		},
		{
			name: "sled with weight keeps its distance",
			row:  Row{ExerciseTitle: "sled back peddle pull", SetIndex: "0", WeightLbs: "200", DistanceMiles: "0.01"},
			check: func(t *testing.T, s Set) {
				assert.Equal(t, 90.72, *s.WeightKg)
				require.NotNil(t, s.DistanceM)
				assert.Equal(t, 16.09, *s.DistanceM)
			},
		},
		{
			name: "miles to meters",
			row:  Row{ExerciseTitle: "Treadmill", SetIndex: "0", DistanceMiles: "2", DurationSeconds: "1200"},
			check: func(t *testing.T, s Set) {
				assert.Equal(t, 3218.68, *s.DistanceM)
				assert.Equal(t, 1200, *s.DurationSeconds)
			},
		},
		{
			name: "overflowing distance is dropped with a note",
			row:  Row{ExerciseTitle: "Bike", SetIndex: "0", DistanceMiles: "305", ExerciseNotes: "long ride"},
			check: func(t *testing.T, s Set) {
				assert.Nil(t, s.DistanceM)
				require.NotNil(t, s.Notes)
				assert.True(t, strings.HasPrefix(*s.Notes, "long ride [import] distance 490848.70 m"), *s.Notes)
			},
		},
		{
			name: "restore keeps large distances as meters",
			row:  Row{ExerciseTitle: "Bike", SetIndex: "0", DistanceMiles: "305"},
			opts: ParseOptions{LargeDistanceIsMeters: true},
			check: func(t *testing.T, s Set) {
				require.NotNil(t, s.DistanceM)
				assert.Equal(t, 305.0, *s.DistanceM)
				assert.Nil(t, s.Notes)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSet(tt.row, tt.opts)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestParseSetRejectsBadNumbers(t *testing.T) {
	for _, row := range []Row{
		{ExerciseTitle: "A", SetIndex: "x"},
		{ExerciseTitle: "A", SetIndex: "0", WeightLbs: "heavy"},
		{ExerciseTitle: "A", SetIndex: "0", Reps: "8.5"},
		{ExerciseTitle: "Run", DistanceMiles: "NaN"},
		{ExerciseTitle: "Run", DistanceMiles: "+Inf"},
		{ExerciseTitle: "Sled Push", DistanceMiles: "NaN"},
		{ExerciseTitle: "A", WeightLbs: "Inf"},
		{ExerciseTitle: "A", DurationSeconds: "-Inf"},
	} {
		_, err := ParseSet(row, ParseOptions{})
		assert.Error(t, err)
	}
}

const sessions = `Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,1,normal,50,8,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,0,normal,50,10,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Face Pull,3,,0,normal,30,15,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,,,,0,normal,,,,,
Legs,"6 Jan 2024, 09:00","6 Jan 2024, 10:00",hard,Sled Push,0,,0,normal,,1,0.5,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",,Bench Press (Dumbbell),,,2,normal,45,8,,,
`

func TestGroupSessions(t *testing.T) {
	workouts, results := GroupSessions(readRows(t, sessions), time.UTC)

	require.Len(t, workouts, 2)
	push := workouts[0]
	assert.Equal(t, "Push", push.Title)
	assert.Equal(t, 2, push.Line)
	require.NotNil(t, push.Start)
	assert.Equal(t, "2024-01-05", push.Date().String())
	require.Len(t, push.Exercises, 2)

	bench := push.Exercises[0]
	assert.Equal(t, "Bench Press (Dumbbell)", bench.Name)
	assert.Nil(t, bench.GroupName)
	require.Len(t, bench.Sets, 3)
	for i, s := range bench.Sets {
		assert.Equal(t, i+1, s.SetNumber)
	}

	face := push.Exercises[1]
	require.NotNil(t, face.GroupName)
	assert.Equal(t, "superset-3", *face.GroupName)

	legs := workouts[1]
	assert.Equal(t, "hard", legs.Notes)
	assert.Nil(t, legs.Exercises[0].GroupName, "superset id 0 means no superset")

	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Equal(t, 5, results[0].Line)
}

func TestGroupDays(t *testing.T) {
	body := `Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",am,Bench Press (Dumbbell),,,0,normal,50,8,,,
Legs,"4 Jan 2024, 07:00","4 Jan 2024, 08:00",,Plank,,,0,normal,,,,60,
Push,"5 Jan 2024, 18:00","5 Jan 2024, 19:00",pm,Face Pull,,,0,normal,30,15,,,
Push,"5 Jan 2024, 18:00","5 Jan 2024, 19:00",pm,Bench Press (Dumbbell),,,0,normal,50,8,,,
bad,"soon","later",,Plank,,,0,normal,,,,,
`
	workouts, results := GroupDays(readRows(t, body), time.UTC)

	require.Len(t, workouts, 2)
	assert.Equal(t, "2024-01-04", workouts[0].Key)
	day := workouts[1]
	assert.Equal(t, "2024-01-05", day.Key)
	assert.Equal(t, "am", day.Notes, "the day's first row supplies the notes")
	require.Len(t, day.Exercises, 3, "a reappearing exercise starts a new entry")
	assert.Equal(t, "Bench Press (Dumbbell)", day.Exercises[0].Name)
	assert.Equal(t, "Face Pull", day.Exercises[1].Name)
	assert.Equal(t, "Bench Press (Dumbbell)", day.Exercises[2].Name)

	require.Len(t, results, 1)
	assert.Equal(t, StatusFailed, results[0].Status)
}

func TestReport(t *testing.T) {
	r := NewReport("upload")
	r.AddImported("a", 2)
	r.AddSkipped("b", 5, "Skipped 2024-01-05, ID: 1")
	r.AddRejectedRows([]Result{{Key: "a", Line: 3, Status: StatusSkipped}})

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, RunSuccess, r.Status)
	assert.Equal(t, 1, r.Imported)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.RowsRejected)
	assert.Equal(t, []string{"Skipped 2024-01-05, ID: 1"}, r.SkippedDetails)
	assert.Len(t, r.Results, 3)
	assert.Contains(t, r.Summary(), "1 imported")
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{"Quads", "Glutes", "Calves"}, c["Sled Push"])
	assert.Contains(t, c.Muscles(), "Hip Flexors")
	names := c.Names()
	assert.Equal(t, len(c), len(names))
	assert.IsIncreasing(t, names)

	c["Sled Push"][0] = "changed"
	assert.Equal(t, "Quads", DefaultCatalog()["Sled Push"][0], "copies do not share backing arrays")

	loaded, err := LoadCatalog(strings.NewReader("Goblet Squat: [Quads, Glutes]\n"))
	require.NoError(t, err)
	assert.Equal(t, Catalog{"Goblet Squat": {"Quads", "Glutes"}}, loaded)
}

func TestConvert(t *testing.T) {
	body := `Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",notes,Face Pull,7,,0,normal,30,15,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",notes,Lateral Raise (Cable),7,,0,normal,10,12,,,
Push,"5 Jan 2024, 07:00","5 Jan 2024, 08:00",notes,Treadmill,,,0,normal,,,1.5,600,6
Recovery PNF,"3 Jan 2024, 07:00","3 Jan 2024, 08:00",,Hamstring Hold,,,0,normal,,,,,
`
	workouts, err := Convert(readRows(t, body), DefaultCatalog())
	require.NoError(t, err)
	require.Len(t, workouts, 2)

	assert.Equal(t, "2024-01-03", workouts[0].Date)
	assert.Equal(t, "flexibility", workouts[0].Exercises[0].Exercise.Type)

	day := workouts[1]
	require.Len(t, day.Exercises, 2)
	tread := day.Exercises[0].Exercise
	require.NotNil(t, tread)
	assert.Equal(t, "cardio", tread.Type)
	require.NotNil(t, tread.Sets[0].Duration)
	assert.Equal(t, 10.0, *tread.Sets[0].Duration)
	assert.Equal(t, "1.5", tread.Sets[0].Distance)

	superset := day.Exercises[1].Superset
	require.Len(t, superset, 2)
	assert.Equal(t, "Face Pull", superset[0].Name)
	assert.Equal(t, []string{"Shoulders", "Upper Back"}, superset[0].MuscleGroup)

	data, err := json.Marshal(day.Exercises[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"superset":[{"name":"Face Pull"`), string(data))
}

func TestConsolidate(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write("a.json", `[{"date":"2024-01-01","notes":"old"},{"date":"2024-01-02"}]`)
	write("b.json", `[{"date":"2024-01-01","notes":"new"},{"notes":"undated"}]`)
	write("broken.json", `{not json`)
	write(SchemaFile, `[{"date":"1999-01-01"}]`)
	write("readme.txt", `[{"date":"2000-01-01"}]`)

	res, err := Consolidate(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, []string{"broken.json"}, res.SkippedFiles)
	require.Len(t, res.Workouts, 2)
	assert.JSONEq(t, `{"date":"2024-01-02"}`, string(res.Workouts[0]))
	assert.JSONEq(t, `{"date":"2024-01-01","notes":"new"}`, string(res.Workouts[1]))
}
