package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is a fake TaskRepository.
type TaskStore struct {
	mu    sync.Mutex
	tasks []models.Task
	Err   error
}

func NewTaskStore(tasks ...models.Task) *TaskStore {
	s := &TaskStore{}
	for _, t := range tasks {
		if t.ID.IsZero() {
			t.ID = primitive.NewObjectID()
		}
		s.tasks = append(s.tasks, t)
	}
	return s
}

func (s *TaskStore) Insert(_ context.Context, task *models.Task) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.InsertResult{}, s.Err
	}

	task.ID = primitive.NewObjectID()
	s.tasks = append(s.tasks, *task)
	return models.InsertResult{Acknowledged: true, InsertedID: task.ID}, nil
}

func (s *TaskStore) ListByEmail(_ context.Context, email string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.Email == email {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return fmt.Sprint(out[i].Extra["date"]) > fmt.Sprint(out[j].Extra["date"])
	})
	return out, nil
}

// PaymentStore is a fake PaymentRepository.
type PaymentStore struct {
	mu       sync.Mutex
	payments []models.Payment
	Err      error
}

func NewPaymentStore(payments ...models.Payment) *PaymentStore {
	s := &PaymentStore{}
	for _, p := range payments {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		s.payments = append(s.payments, p)
	}
	return s
}

func (s *PaymentStore) Insert(_ context.Context, payment *models.Payment) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.InsertResult{}, s.Err
	}

	payment.ID = primitive.NewObjectID()
	s.payments = append(s.payments, *payment)
	return models.InsertResult{Acknowledged: true, InsertedID: payment.ID}, nil
}

func (s *PaymentStore) ListByRecipient(_ context.Context, email string) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.Payment, 0)
	for _, p := range s.payments {
		if p.PaidTo == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PaymentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, p := range s.payments {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *PaymentStore) SetReceiptKey(_ context.Context, id primitive.ObjectID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments[i].ReceiptKey = key
			return nil
		}
	}
	return repository.ErrNotFound
}
