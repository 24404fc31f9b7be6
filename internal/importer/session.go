package importer

import (
	"fmt"
	"sort"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

// Workout is one grouped session ready to be written.
type Workout struct {
	Key       string
	Line      int // first row of the session
	Title     string
	Start     *time.Time
	End       *time.Time
	Notes     string
	Exercises []*Exercise
}

// Date is the calendar day of the session, valid only when Start is set.
func (w *Workout) Date() domain.Date {
	return domain.NewDate(*w.Start)
}

// NotesPtr returns the notes, or nil when empty.
func (w *Workout) NotesPtr() *string {
	if w.Notes == "" {
		return nil
	}
	n := w.Notes
	return &n
}

// Exercise is one exercise entry of a session with its sets.
type Exercise struct {
	Name      string
	GroupName *string
	Sets      []Set
}

func sessionKey(r Row) string {
	return fmt.Sprintf("%s | %s | %s", r.StartTime, r.EndTime, r.Title)
}

func parseOptionalTimestamp(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return nil
	}
	return &t
}

func supersetGroup(id string) *string {
	if id == "" || id == "0" {
		return nil
	}
	g := "superset-" + id
	return &g
}

func rejected(key string, row Row, status Status, reason string) Result {
	return Result{Key: key, Line: row.Line, Status: status, Reason: reason}
}

// GroupSessions groups rows for the upload path: one workout per
// (start_time, end_time, title), exercises by title in first-seen order, and
// each exercise's sets ordered by set number. A session whose start cannot be
// parsed keeps a nil Start so the caller can report it.
func GroupSessions(rows []Row, loc *time.Location) ([]*Workout, []Result) {
	var (
		workouts []*Workout
		results  []Result
		byKey    = map[string]*Workout{}
		byName   = map[*Workout]map[string]*Exercise{}
	)

	for _, row := range rows {
		key := sessionKey(row)
		w, ok := byKey[key]
		if !ok {
			w = &Workout{
				Key:   key,
				Line:  row.Line,
				Title: row.Title,
				Start: parseOptionalTimestamp(row.StartTime, loc),
				End:   parseOptionalTimestamp(row.EndTime, loc),
				Notes: row.Description,
			}
			byKey[key] = w
			byName[w] = map[string]*Exercise{}
			workouts = append(workouts, w)
		}

		if row.ExerciseTitle == "" {
			results = append(results, rejected(key, row, StatusSkipped, "missing exercise_title"))
			continue
		}
		set, err := ParseSet(row, ParseOptions{})
		if err != nil {
			results = append(results, rejected(key, row, StatusFailed, err.Error()))
			continue
		}

		ex, ok := byName[w][row.ExerciseTitle]
		if !ok {
			ex = &Exercise{Name: row.ExerciseTitle, GroupName: supersetGroup(row.SupersetID)}
			byName[w][row.ExerciseTitle] = ex
			w.Exercises = append(w.Exercises, ex)
		}
		ex.Sets = append(ex.Sets, set)
	}

	for _, w := range workouts {
		for _, ex := range w.Exercises {
			sort.SliceStable(ex.Sets, func(i, j int) bool { return ex.Sets[i].SetNumber < ex.Sets[j].SetNumber })
		}
	}
	return workouts, results
}

// GroupDays groups rows for the restore path: one workout per calendar day in
// date order, taking start, end and notes from the day's first row, and a new
// exercise entry whenever the exercise title changes between consecutive rows.
func GroupDays(rows []Row, loc *time.Location) ([]*Workout, []Result) {
	type dated struct {
		row   Row
		start time.Time
	}
	var (
		valid   []dated
		results []Result
	)
	for _, row := range rows {
		start, err := ParseTimestamp(row.StartTime, loc)
		if err != nil {
			results = append(results, rejected(row.StartTime, row, StatusFailed, fmt.Sprintf("invalid start_time %q", row.StartTime)))
			continue
		}
		if row.ExerciseTitle == "" {
			results = append(results, rejected(row.StartTime, row, StatusSkipped, "missing exercise_title"))
			continue
		}
		valid = append(valid, dated{row: row, start: start})
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return domain.NewDate(valid[i].start).Before(domain.NewDate(valid[j].start).Time)
	})

	var (
		workouts []*Workout
		current  *Workout
		entry    *Exercise
	)
	for _, d := range valid {
		day := domain.NewDate(d.start).String()
		if current == nil || current.Key != day {
			start := d.start
			current = &Workout{
				Key:   day,
				Line:  d.row.Line,
				Title: d.row.Title,
				Start: &start,
				End:   parseOptionalTimestamp(d.row.EndTime, loc),
				Notes: d.row.Description,
			}
			workouts = append(workouts, current)
			entry = nil
		}

		set, err := ParseSet(d.row, ParseOptions{LargeDistanceIsMeters: true})
		if err != nil {
			results = append(results, rejected(day, d.row, StatusFailed, err.Error()))
			continue
		}
		if entry == nil || entry.Name != d.row.ExerciseTitle {
			entry = &Exercise{Name: d.row.ExerciseTitle, GroupName: supersetGroup(d.row.SupersetID)}
			current.Exercises = append(current.Exercises, entry)
		}
		entry.Sets = append(entry.Sets, set)
	}
	return workouts, results
}
