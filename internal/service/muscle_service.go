package service

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

type MuscleService interface {
	Create(ctx context.Context, muscle *domain.Muscle) (*domain.Muscle, error)
	Get(ctx context.Context, id int64) (*domain.Muscle, error)
	List(ctx context.Context) ([]domain.Muscle, error)
	Update(ctx context.Context, muscle *domain.Muscle) (*domain.Muscle, error)
	Delete(ctx context.Context, id int64) error
}

type muscleService struct {
	repos repository.Repositories
}

func NewMuscleService(repos repository.Repositories) MuscleService {
	return &muscleService{repos: repos}
}

func validateMuscle(m *domain.Muscle) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return validationf("muscle name is required")
	}
	return nil
}

func (s *muscleService) Create(ctx context.Context, muscle *domain.Muscle) (*domain.Muscle, error) {
	if err := validateMuscle(muscle); err != nil {
		return nil, err
	}
	muscle.ID = 0
	if err := s.repos.Muscles.Create(ctx, muscle); err != nil {
		return nil, conflict(err, fmt.Sprintf("muscle '%s' already exists", muscle.Name))
	}
	return muscle, nil
}

func (s *muscleService) Get(ctx context.Context, id int64) (*domain.Muscle, error) {
	m, err := s.repos.Muscles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrMuscleNotFound)
	}
	return m, nil
}

func (s *muscleService) List(ctx context.Context) ([]domain.Muscle, error) {
	return s.repos.Muscles.List(ctx)
}

func (s *muscleService) Update(ctx context.Context, muscle *domain.Muscle) (*domain.Muscle, error) {
	if err := validateMuscle(muscle); err != nil {
		return nil, err
	}
	if err := s.repos.Muscles.Update(ctx, muscle); err != nil {
		return nil, conflict(notFound(err, ErrMuscleNotFound), fmt.Sprintf("muscle '%s' already exists", muscle.Name))
	}
	return muscle, nil
}

// Delete removes the muscle and every link to it.
func (s *muscleService) Delete(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		links, err := repos.ExerciseMuscles.List(ctx, nil)
		if err != nil {
			return err
		}
		for _, link := range links {
			if link.MuscleID != id {
				continue
			}
			if err := repos.ExerciseMuscles.Delete(ctx, link.ExerciseID, link.MuscleID); err != nil {
				return err
			}
		}
		return notFound(repos.Muscles.Delete(ctx, id), ErrMuscleNotFound)
	})
}

// --- Exercise-muscle links ---

type ExerciseMuscleService interface {
	Create(ctx context.Context, link *domain.ExerciseMuscle) (*domain.ExerciseMuscle, error)
	Get(ctx context.Context, exerciseID, muscleID int64) (*domain.ExerciseMuscle, error)
	List(ctx context.Context, exerciseID *int64) ([]domain.ExerciseMuscle, error)
	// Update changes whether the muscle is a primary target of the exercise.
	Update(ctx context.Context, link *domain.ExerciseMuscle) (*domain.ExerciseMuscle, error)
	Delete(ctx context.Context, exerciseID, muscleID int64) error
}

type exerciseMuscleService struct {
	repos repository.Repositories
}

func NewExerciseMuscleService(repos repository.Repositories) ExerciseMuscleService {
	return &exerciseMuscleService{repos: repos}
}

func (s *exerciseMuscleService) Create(ctx context.Context, link *domain.ExerciseMuscle) (*domain.ExerciseMuscle, error) {
	if _, err := checkExercise(ctx, s.repos, link.ExerciseID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Muscles.GetByID(ctx, link.MuscleID); err != nil {
		return nil, mustExist(err, "muscle", link.MuscleID)
	}
	if err := s.repos.ExerciseMuscles.Create(ctx, link); err != nil {
		return nil, conflict(err, fmt.Sprintf("exercise %d is already linked to muscle %d", link.ExerciseID, link.MuscleID))
	}
	return s.Get(ctx, link.ExerciseID, link.MuscleID)
}

func (s *exerciseMuscleService) Get(ctx context.Context, exerciseID, muscleID int64) (*domain.ExerciseMuscle, error) {
	link, err := s.repos.ExerciseMuscles.Get(ctx, exerciseID, muscleID)
	if err != nil {
		return nil, notFound(err, ErrExerciseMuscleNotFound)
	}
	return link, nil
}

func (s *exerciseMuscleService) List(ctx context.Context, exerciseID *int64) ([]domain.ExerciseMuscle, error) {
	return s.repos.ExerciseMuscles.List(ctx, exerciseID)
}

func (s *exerciseMuscleService) Update(ctx context.Context, link *domain.ExerciseMuscle) (*domain.ExerciseMuscle, error) {
	err := s.repos.ExerciseMuscles.SetPrimary(ctx, link.ExerciseID, link.MuscleID, link.IsPrimary)
	if err != nil {
		return nil, notFound(err, ErrExerciseMuscleNotFound)
	}
	return s.Get(ctx, link.ExerciseID, link.MuscleID)
}

func (s *exerciseMuscleService) Delete(ctx context.Context, exerciseID, muscleID int64) error {
	return notFound(s.repos.ExerciseMuscles.Delete(ctx, exerciseID, muscleID), ErrExerciseMuscleNotFound)
}
