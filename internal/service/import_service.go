package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/importer"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
)

// Import paths, used as the report path and the metrics label.
const (
	ImportPathUpload  = "upload"
	ImportPathRestore = "restore"
)

// --- Service Interface ---
type ImportService interface {
	// Upload imports a workout export, skipping sessions on dates the user
	// already has a workout for.
	Upload(ctx context.Context, r io.Reader, userID int64) (*importer.Report, error)
	// Restore rebuilds workouts from an export one per calendar day, seeding
	// muscles and exercises from catalog first. It does not check for existing
	// workouts, so running it twice duplicates them.
	Restore(ctx context.Context, r io.Reader, catalog importer.Catalog, userID int64) (*importer.Report, error)
}

// --- Service Implementation ---

type importService struct {
	repos repository.Repositories
	loc   *time.Location
}

// NewImportService creates an import service. Export timestamps carry no zone
// and are read in loc; nil means UTC.
func NewImportService(repos repository.Repositories, loc *time.Location) ImportService {
	if loc == nil {
		loc = time.UTC
	}
	return &importService{repos: repos, loc: loc}
}

func (s *importService) readRows(ctx context.Context, r io.Reader, userID int64) ([]importer.Row, error) {
	rows, err := importer.ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return nil, mustExist(err, "user", userID)
	}
	return rows, nil
}

func (s *importService) Upload(ctx context.Context, r io.Reader, userID int64) (*importer.Report, error) {
	rows, err := s.readRows(ctx, r, userID)
	if err != nil {
		return nil, err
	}
	report := importer.NewReport(ImportPathUpload)
	workouts, rejected := importer.GroupSessions(rows, s.loc)
	report.AddRejectedRows(rejected)

	err = s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		for _, w := range workouts {
			if w.Start == nil {
				reason := "Invalid date for " + w.Key
				slog.Warn("skipping workout", "key", w.Key, "line", w.Line, "reason", reason)
				report.AddSkipped(w.Key, w.Line, reason)
				continue
			}

			date := w.Date()
			existing, err := repos.Workouts.FindByDate(ctx, userID, date)
			switch {
			case err == nil:
				reason := fmt.Sprintf("Skipped %s, ID: %d", date, existing.ID)
				slog.Info("skipping workout", "key", w.Key, "reason", reason)
				report.AddSkipped(w.Key, w.Line, reason)
				continue
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}

			if err := s.writeWorkout(ctx, repos, report, w, userID); err != nil {
				return err
			}
			report.AddImported(w.Key, w.Line)
		}
		return nil
	})
	return s.finish(report, err)
}

func (s *importService) Restore(ctx context.Context, r io.Reader, catalog importer.Catalog, userID int64) (*importer.Report, error) {
	rows, err := s.readRows(ctx, r, userID)
	if err != nil {
		return nil, err
	}
	report := importer.NewReport(ImportPathRestore)
	workouts, rejected := importer.GroupDays(rows, s.loc)
	report.AddRejectedRows(rejected)

	err = s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := seedCatalog(ctx, repos, catalog); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		for _, w := range workouts {
			if err := s.writeWorkout(ctx, repos, report, w, userID); err != nil {
				return err
			}
			report.AddImported(w.Key, w.Line)
		}
		return nil
	})
	return s.finish(report, err)
}

func (s *importService) finish(report *importer.Report, err error) (*importer.Report, error) {
	if err != nil {
		report.Abort(err)
		slog.Error("import rolled back", "run_id", report.RunID, "path", report.Path, "error", err)
	} else {
		slog.Info(report.Summary())
	}
	metrics.ObserveImport(report.Path, report.Imported, report.Skipped, report.Failed, report.SetsInserted, report.SetsFailed)
	return report, err
}

// seedCatalog upserts every catalog muscle and exercise by name and links them.
func seedCatalog(ctx context.Context, repos repository.Repositories, catalog importer.Catalog) error {
	muscleIDs := make(map[string]int64)
	for _, name := range catalog.Muscles() {
		m, err := repos.Muscles.EnsureByName(ctx, name)
		if err != nil {
			return err
		}
		muscleIDs[name] = m.ID
	}
	for _, name := range catalog.Names() {
		ex, _, err := repos.Exercises.EnsureByName(ctx, &domain.Exercise{Name: name})
		if err != nil {
			return err
		}
		for _, muscle := range catalog[name] {
			link := &domain.ExerciseMuscle{ExerciseID: ex.ID, MuscleID: muscleIDs[muscle], IsPrimary: true}
			if err := repos.ExerciseMuscles.Ensure(ctx, link); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeWorkout inserts one grouped session. Each set goes through its own
// savepoint: a rejected set is reported and skipped, but a savepoint that
// cannot be used aborts the whole run.
func (s *importService) writeWorkout(ctx context.Context, repos repository.Repositories, report *importer.Report, w *importer.Workout, userID int64) error {
	workout := &domain.Workout{
		UserID:    userID,
		Date:      w.Date(),
		StartTime: w.Start,
		EndTime:   w.End,
		Notes:     w.NotesPtr(),
	}
	if err := repos.Workouts.Create(ctx, workout); err != nil {
		return fmt.Errorf("create workout %s: %w", w.Key, err)
	}

	for i, ex := range w.Exercises {
		stored, created, err := repos.Exercises.EnsureByName(ctx, &domain.Exercise{Name: ex.Name})
		if err != nil {
			return fmt.Errorf("ensure exercise %s: %w", ex.Name, err)
		}
		if created {
			slog.Info("created exercise", "name", ex.Name, "id", stored.ID)
		}

		entry := &domain.WorkoutExercise{
			WorkoutID:  workout.ID,
			ExerciseID: stored.ID,
			Sequence:   i + 1,
			GroupName:  ex.GroupName,
		}
		if err := repos.WorkoutExercises.Create(ctx, entry); err != nil {
			return fmt.Errorf("create workout exercise %s: %w", ex.Name, err)
		}

		for _, set := range ex.Sets {
			err := repos.Tx.Savepoint(ctx, func(sp repository.Repositories) error {
				return sp.WorkoutSets.Create(ctx, set.ToDomain(entry.ID))
			})
			if errors.Is(err, repository.ErrTxAborted) {
				return err
			}
			if err != nil {
				slog.Warn("set insert failed", "key", w.Key, "line", set.Line, "exercise", ex.Name, "error", err)
				report.AddSetFailure(w.Key, set.Line, err)
				continue
			}
			report.SetsInserted++
		}
	}
	return nil
}
