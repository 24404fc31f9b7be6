package backfill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"gopkg.in/yaml.v3"
)

// RoutineDocument is the YAML form of a weekly routine.
type RoutineDocument struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	UserID      int64        `yaml:"user_id"`
	Rows        []RoutineRow `yaml:"rows"`
}

// RoutineRow is one exercise of one day. Type becomes the entry's group name.
type RoutineRow struct {
	Day      string `yaml:"day"`
	Exercise string `yaml:"exercise"`
	Type     string `yaml:"type"`
	Sets     int    `yaml:"sets"`
	Reps     string `yaml:"reps"`
	Tempo    string `yaml:"tempo"`
	Weight   string `yaml:"weight"`
	Notes    string `yaml:"notes"`
}

// DefaultSuggestedSets is used for rows that give no set count.
const DefaultSuggestedSets = 3

var weekdays = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

var (
	secondsPattern = regexp.MustCompile(`(?i)(\d+)\s*sec`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

// MaxHoldSeconds bounds the durations ParseHoldSeconds accepts.
const MaxHoldSeconds = 24 * 60 * 60

// ParseHoldSeconds reads a duration such as "30 sec" or "2 min" out of a
// reps string. It returns 0 when there is none or when it exceeds
// MaxHoldSeconds.
func ParseHoldSeconds(reps string) int {
	if m := secondsPattern.FindStringSubmatch(reps); m != nil {
		return holdSeconds(m[1], 1)
	}
	if m := minutesPattern.FindStringSubmatch(reps); m != nil {
		return holdSeconds(m[1], 60)
	}
	return 0
}

func holdSeconds(digits string, unit int) int {
	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxHoldSeconds/unit {
		return 0
	}
	return n * unit
}

// LoadRoutineDocument decodes a routine YAML document.
func LoadRoutineDocument(r io.Reader) (*RoutineDocument, error) {
	var doc RoutineDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode routine: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("decode routine: name is required")
	}
	return &doc, nil
}

// ImportRoutine creates the routine, one day per weekday in first-seen order,
// and the day's exercises in row order. Exercises are matched by name without
// regard to case and created when missing. Rows naming an unknown weekday are
// skipped.
func (s *Service) ImportRoutine(ctx context.Context, doc *RoutineDocument, defaultUserID int64) (*domain.Routine, error) {
	userID := doc.UserID
	if userID == 0 {
		userID = defaultUserID
	}

	var routine *domain.Routine
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		known, err := repos.Exercises.List(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]int64, len(known))
		for _, ex := range known {
			byName[strings.ToLower(ex.Name)] = ex.ID
		}

		routine = &domain.Routine{UserID: userID, Name: doc.Name}
		if doc.Description != "" {
			routine.Description = &doc.Description
		}
		if err := repos.Routines.Create(ctx, routine); err != nil {
			return err
		}

		days := map[string]*domain.RoutineDay{}
		for _, row := range doc.Rows {
			dow, ok := weekdays[strings.ToLower(strings.TrimSpace(row.Day))]
			if !ok {
				slog.Warn("skipping routine row with unknown day", "day", row.Day, "exercise", row.Exercise)
				continue
			}
			day, ok := days[row.Day]
			if !ok {
				day = &domain.RoutineDay{RoutineID: routine.ID, Name: row.Day + " Workout", DayOfWeek: &dow}
				if err := repos.RoutineDays.Create(ctx, day); err != nil {
					return err
				}
				days[row.Day] = day
				routine.Days = append(routine.Days, *day)
			}

			exerciseID, ok := byName[strings.ToLower(row.Exercise)]
			if !ok {
				ex := &domain.Exercise{Name: row.Exercise}
				if t := domain.ExerciseType(strings.ToLower(row.Type)); t.Valid() {
					ex.Type = &t
				}
				if err := repos.Exercises.Create(ctx, ex); err != nil {
					return fmt.Errorf("create exercise %q: %w", row.Exercise, err)
				}
				exerciseID = ex.ID
				byName[strings.ToLower(row.Exercise)] = ex.ID
			}

			seq, err := repos.RoutineExercises.MaxSequence(ctx, day.ID)
			if err != nil {
				return err
			}
			re := routineEntry(row)
			re.RoutineDayID = day.ID
			re.ExerciseID = exerciseID
			re.Sequence = seq + 1
			if err := repos.RoutineExercises.Create(ctx, re); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("routine imported", "routine_id", routine.ID, "name", routine.Name, "days", len(routine.Days))
	return routine, nil
}

func routineEntry(row RoutineRow) *domain.RoutineExercise {
	sets := row.Sets
	if sets <= 0 {
		sets = DefaultSuggestedSets
	}
	re := &domain.RoutineExercise{SuggestedSets: &sets}

	reps := row.Reps
	if row.Notes != "" {
		reps = strings.TrimSpace(reps + " [" + row.Notes + "]")
	}
	if reps != "" {
		re.SuggestedReps = &reps
	}
	if row.Tempo != "" {
		tempo := row.Tempo
		re.Tempo = &tempo
	}
	if secs := ParseHoldSeconds(row.Reps); secs > 0 {
		re.SuggestedTimeSeconds = &secs
	}
	if row.Type != "" {
		group := row.Type
		re.GroupName = &group
	}
	return re
}
