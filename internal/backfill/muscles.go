package backfill

import (
	"context"
	"log/slog"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

type keywordRule struct {
	keyword string
	muscles []string
}

// Checked in order; every matching rule contributes.
var muscleKeywords = []keywordRule{
	{"squat", []string{"Quadriceps", "Glutes", "Hamstrings"}},
	{"deadlift", []string{"Back", "Hamstrings", "Glutes"}},
	{"bench", []string{"Chest", "Triceps", "Shoulders"}},
	{"press", []string{"Shoulders", "Triceps"}},
	{"pull-up", []string{"Back", "Biceps"}},
	{"chin-up", []string{"Back", "Biceps"}},
	{"row", []string{"Back", "Biceps"}},
	{"curl", []string{"Biceps"}},
	{"extension", []string{"Triceps"}},
	{"dip", []string{"Chest", "Triceps"}},
	{"lunge", []string{"Quadriceps", "Glutes"}},
	{"raise", []string{"Shoulders"}},
	{"crunch", []string{"Abs"}},
	{"plank", []string{"Abs", "Core"}},
	{"run", []string{"Legs", "Cardio"}},
	{"jump", []string{"Legs", "Cardio"}},
	{"push-up", []string{"Chest", "Triceps", "Core"}},
}

// GuessMuscles returns the muscles an exercise name suggests, deduplicated in
// first-seen order. The generic "Legs" is expanded to Quadriceps and
// Hamstrings.
func GuessMuscles(name string) []string {
	lower := strings.ToLower(name)
	var guessed []string
	seen := map[string]bool{}
	add := func(m string) {
		if !seen[m] {
			seen[m] = true
			guessed = append(guessed, m)
		}
	}
	for _, rule := range muscleKeywords {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		for _, m := range rule.muscles {
			if m == "Legs" {
				add("Quadriceps")
				add("Hamstrings")
				continue
			}
			add(m)
		}
	}
	if len(guessed) == 0 {
		switch {
		case strings.Contains(lower, "cardio"):
			add("Cardio")
		case strings.Contains(lower, "stretch"):
			add("Full Body")
		}
	}
	return guessed
}

// PopulateMuscles links every exercise to the muscles its name suggests. With
// replace set, an exercise's existing links are dropped before relinking;
// otherwise links are only added. Exercises without a guess are untouched.
func (s *Service) PopulateMuscles(ctx context.Context, replace bool) (*Result, error) {
	res := &Result{}
	err := s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		exercises, err := repos.Exercises.List(ctx)
		if err != nil {
			return err
		}
		muscleIDs := map[string]int64{}
		for _, ex := range exercises {
			res.Scanned++
			guessed := GuessMuscles(ex.Name)
			if len(guessed) == 0 {
				continue
			}
			if replace {
				if _, err := repos.ExerciseMuscles.DeleteByExercise(ctx, ex.ID); err != nil {
					return err
				}
			}
			for _, name := range guessed {
				id, ok := muscleIDs[name]
				if !ok {
					m, err := repos.Muscles.EnsureByName(ctx, name)
					if err != nil {
						return err
					}
					id = m.ID
					muscleIDs[name] = id
				}
				if err := repos.ExerciseMuscles.Ensure(ctx, &domain.ExerciseMuscle{ExerciseID: ex.ID, MuscleID: id, IsPrimary: true}); err != nil {
					return err
				}
				res.Inserted++
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("muscle population complete", "exercises", res.Scanned, "updated", res.Updated)
	return res, nil
}
