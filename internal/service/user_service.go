package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("failed to hash password")

// --- Service Interface ---
type UserService interface {
	Create(ctx context.Context, user *domain.User, password string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update replaces the user's fields. An empty password keeps the stored hash.
	Update(ctx context.Context, user *domain.User, password string) (*domain.User, error)
	// Delete removes the user together with their workouts, routines and measurements.
	Delete(ctx context.Context, id int64) error
}

// --- Service Implementation ---

type userService struct {
	repos repository.Repositories
}

// NewUserService creates a new instance of userService.
func NewUserService(repos repository.Repositories) UserService {
	return &userService{repos: repos}
}

func validateUser(user *domain.User) error {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Username == "" {
		return validationf("username is required")
	}
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return validationf("a valid email is required")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Create stores a new user, hashing the password when one is given.
func (s *userService) Create(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.ID = 0
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.repos.Users.List(ctx)
}

func (s *userService) Update(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	existing, err := s.repos.Users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	user.CreatedAt = existing.CreatedAt
	user.PasswordHash = existing.PasswordHash
	if password != "" {
		if user.PasswordHash, err = hashPassword(password); err != nil {
			return nil, err
		}
	}
	if err := s.repos.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.repos.Users.GetByID(ctx, user.ID)
}

// Delete cascades by hand: sqlite does not enforce the foreign keys the
// postgres schema declares.
func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repos.Tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Users.GetByID(ctx, id); err != nil {
			return notFound(err, ErrUserNotFound)
		}

		workouts, err := repos.Workouts.List(ctx, &id)
		if err != nil {
			return err
		}
		for _, w := range workouts {
			if err := deleteWorkout(ctx, repos, w.ID); err != nil {
				return err
			}
		}

		routines, err := repos.Routines.List(ctx, &id)
		if err != nil {
			return err
		}
		for _, r := range routines {
			if err := deleteRoutine(ctx, repos, r.ID); err != nil {
				return err
			}
		}

		measurements, err := repos.Measurements.List(ctx, &id)
		if err != nil {
			return err
		}
		for _, m := range measurements {
			if err := repos.Measurements.Delete(ctx, m.ID); err != nil {
				return err
			}
		}

		return notFound(repos.Users.Delete(ctx, id), ErrUserNotFound)
	})
}

// --- Body Measurements ---

type MeasurementService interface {
	Create(ctx context.Context, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error)
	Get(ctx context.Context, id int64) (*domain.BodyMeasurement, error)
	List(ctx context.Context, userID *int64) ([]domain.BodyMeasurement, error)
	Update(ctx context.Context, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error)
	Delete(ctx context.Context, id int64) error
}

type measurementService struct {
	repos repository.Repositories
}

func NewMeasurementService(repos repository.Repositories) MeasurementService {
	return &measurementService{repos: repos}
}

func (s *measurementService) check(ctx context.Context, m *domain.BodyMeasurement) error {
	if m.Date.IsZero() {
		return validationf("date is required")
	}
	if m.BodyFatPercentage != nil && (*m.BodyFatPercentage < 0 || *m.BodyFatPercentage >= 100) {
		return validationf("body_fat_percentage must be between 0 and 100")
	}
	_, err := s.repos.Users.GetByID(ctx, m.UserID)
	return mustExist(err, "user", m.UserID)
}

func (s *measurementService) Create(ctx context.Context, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error) {
	if err := s.check(ctx, m); err != nil {
		return nil, err
	}
	m.ID = 0
	if err := s.repos.Measurements.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *measurementService) Get(ctx context.Context, id int64) (*domain.BodyMeasurement, error) {
	m, err := s.repos.Measurements.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrMeasurementNotFound)
	}
	return m, nil
}

func (s *measurementService) List(ctx context.Context, userID *int64) ([]domain.BodyMeasurement, error) {
	return s.repos.Measurements.List(ctx, userID)
}

func (s *measurementService) Update(ctx context.Context, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error) {
	if err := s.check(ctx, m); err != nil {
		return nil, err
	}
	if err := s.repos.Measurements.Update(ctx, m); err != nil {
		return nil, notFound(err, ErrMeasurementNotFound)
	}
	return m, nil
}

func (s *measurementService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repos.Measurements.Delete(ctx, id), ErrMeasurementNotFound)
}
