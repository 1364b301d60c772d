package services

import (
	"context"
	"fmt"

	"github.com/arzan03/productsdb-api/internal/events"
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
)

type TaskService struct {
	repo   repository.TaskRepository
	events events.Publisher
}

func NewTaskService(repo repository.TaskRepository, publisher events.Publisher) *TaskService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TaskService{repo: repo, events: publisher}
}

func (s *TaskService) Create(ctx context.Context, task *models.Task) (models.InsertResult, error) {
	if err := validate.Struct(task); err != nil {
		return models.InsertResult{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	res, err := s.repo.Insert(ctx, task)
	if err != nil {
		return models.InsertResult{}, err
	}

	s.events.Publish(ctx, events.TaskCreated, task)
	return res, nil
}

// ListByEmail returns the tasks of email, newest first.
func (s *TaskService) ListByEmail(ctx context.Context, email string) ([]models.Task, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	return s.repo.ListByEmail(ctx, email)
}
