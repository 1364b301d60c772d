package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arzan03/productsdb-api/internal/events"
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userExistsMessage = "user already exists"

type UserService struct {
	repo   repository.UserRepository
	events events.Publisher
}

func NewUserService(repo repository.UserRepository, publisher events.Publisher) *UserService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &UserService{repo: repo, events: publisher}
}

// Create stores the user unless the email is taken, in which case it returns
// the "already exists" result with a null id and writes nothing.
func (s *UserService) Create(ctx context.Context, user *models.User) (models.UserCreateResult, error) {
	user.Email = strings.TrimSpace(user.Email)
	if err := validate.Struct(user); err != nil {
		return models.UserCreateResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	id, created, err := s.repo.InsertIfAbsent(ctx, user)
	if err != nil {
		return models.UserCreateResult{}, err
	}
	if !created {
		return models.UserCreateResult{Message: userExistsMessage, InsertedID: nil}, nil
	}

	s.events.Publish(ctx, events.UserCreated, map[string]interface{}{"id": id, "email": user.Email, "role": user.Role})
	return models.UserCreateResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx, repository.UserFilter{})
}

// IsAdmin answers for email only when the caller is that same user.
// An unknown email is not an admin.
func (s *UserService) IsAdmin(ctx context.Context, email, caller string) (bool, error) {
	if caller == "" {
		return false, ErrUnauthorized
	}
	if caller != email {
		return false, ErrForbidden
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (s *UserService) MakeAdmin(ctx context.Context, id string) (models.UpdateResult, error) {
	objID, err := parseObjectID(id)
	if err != nil {
		return models.UpdateResult{}, err
	}

	res, err := s.repo.SetRoleByID(ctx, objID, models.RoleAdmin)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if res.ModifiedCount > 0 {
		s.events.Publish(ctx, events.UserRoleChanged, map[string]interface{}{"id": objID, "role": models.RoleAdmin})
	}
	return res, nil
}

// Delete removes the user. An unknown id yields a zero count, not an error.
func (s *UserService) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	objID, err := parseObjectID(id)
	if err != nil {
		return models.DeleteResult{}, err
	}

	res, err := s.repo.DeleteByID(ctx, objID)
	if err != nil {
		return models.DeleteResult{}, err
	}
	if res.DeletedCount > 0 {
		s.events.Publish(ctx, events.UserDeleted, map[string]interface{}{"id": objID})
	}
	return res, nil
}

func (s *UserService) Employees(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx, repository.UserFilter{Roles: []string{models.RoleEmployee}})
}

// SetVerified stores isVerified as a boolean.
func (s *UserService) SetVerified(ctx context.Context, email, isVerified string) (models.UpdateResult, error) {
	if err := requireEmail(email); err != nil {
		return models.UpdateResult{}, err
	}
	verified, err := strconv.ParseBool(strings.TrimSpace(isVerified))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%w: isVerified must be true or false", ErrValidation)
	}

	res, err := s.repo.SetVerified(ctx, email, verified)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if res.ModifiedCount > 0 {
		s.events.Publish(ctx, events.UserVerified, map[string]interface{}{"email": email, "verified": verified})
	}
	return res, nil
}

func (s *UserService) MakeHR(ctx context.Context, email string) (models.UpdateResult, error) {
	if err := requireEmail(email); err != nil {
		return models.UpdateResult{}, err
	}

	res, err := s.repo.SetRoleByEmail(ctx, email, models.RoleHR)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if res.ModifiedCount > 0 {
		s.events.Publish(ctx, events.UserRoleChanged, map[string]interface{}{"email": email, "role": models.RoleHR})
	}
	return res, nil
}

// UpdateSalary raises the salary to newSalary when it is not below the current one.
// A lower value leaves the user untouched and reports updated=false.
func (s *UserService) UpdateSalary(ctx context.Context, email, newSalary string) (models.SalaryUpdateResult, error) {
	if err := requireEmail(email); err != nil {
		return models.SalaryUpdateResult{}, err
	}
	amount, err := models.ParseAmount(newSalary)
	if err != nil {
		return models.SalaryUpdateResult{}, fmt.Errorf("%w: newSalary must be a number", ErrValidation)
	}

	res, err := s.repo.RaiseSalary(ctx, email, float64(amount))
	if err != nil {
		return models.SalaryUpdateResult{}, err
	}

	if res.MatchedCount == 0 {
		// Tell a lowered salary apart from an unknown user.
		if _, err := s.repo.FindByEmail(ctx, email); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return models.SalaryUpdateResult{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
			}
			return models.SalaryUpdateResult{}, err
		}
		return models.SalaryUpdateResult{UpdateResult: res, Updated: false}, nil
	}

	if res.ModifiedCount > 0 {
		s.events.Publish(ctx, events.UserSalaryUpdated, map[string]interface{}{"email": email, "salary": float64(amount)})
	}
	return models.SalaryUpdateResult{UpdateResult: res, Updated: true}, nil
}

// VerifiedList returns verified employees and HR staff.
func (s *UserService) VerifiedList(ctx context.Context) ([]models.User, error) {
	verified := true
	return s.repo.List(ctx, repository.UserFilter{
		Roles:    []string{models.RoleEmployee, models.RoleHR},
		Verified: &verified,
	})
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}

func requireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return nil
}
