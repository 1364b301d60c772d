package repotest

import (
	"context"
	"sync"

	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is a fake UserRepository keyed by insertion order.
type UserStore struct {
	mu    sync.Mutex
	users []models.User
	Err   error
}

func NewUserStore(users ...models.User) *UserStore {
	s := &UserStore{}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		s.users = append(s.users, u)
	}
	return s
}

// All returns a copy of the stored users.
func (s *UserStore) All() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

func (s *UserStore) InsertIfAbsent(_ context.Context, user *models.User) (interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}

	if s.indexByEmail(user.Email) >= 0 {
		return nil, false, nil
	}
	user.ID = primitive.NewObjectID()
	s.users = append(s.users, *user)
	return user.ID, true, nil
}

func (s *UserStore) List(_ context.Context, f repository.UserFilter) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.User, 0)
	for _, u := range s.users {
		if len(f.Roles) > 0 && !contains(f.Roles, u.Role) {
			continue
		}
		if f.Verified != nil {
			verified := u.Verified != nil && bool(*u.Verified)
			if verified != *f.Verified {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	i := s.indexByEmail(email)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	u := s.users[i]
	return &u, nil
}

func (s *UserStore) SetRoleByID(_ context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	return s.apply(func(u models.User) bool { return u.ID == id }, func(u *models.User) bool {
		changed := u.Role != role
		u.Role = role
		return changed
	})
}

func (s *UserStore) SetRoleByEmail(_ context.Context, email, role string) (models.UpdateResult, error) {
	return s.apply(byEmail(email), func(u *models.User) bool {
		changed := u.Role != role
		u.Role = role
		return changed
	})
}

func (s *UserStore) SetVerified(_ context.Context, email string, verified bool) (models.UpdateResult, error) {
	return s.apply(byEmail(email), func(u *models.User) bool {
		changed := u.Verified == nil || bool(*u.Verified) != verified
		flag := models.Flag(verified)
		u.Verified = &flag
		return changed
	})
}

// RaiseSalary treats a missing salary as zero, like the Mongo filter does.
func (s *UserStore) RaiseSalary(_ context.Context, email string, amount float64) (models.UpdateResult, error) {
	match := func(u models.User) bool {
		var current float64
		if u.Salary != nil {
			current = float64(*u.Salary)
		}
		return u.Email == email && current <= amount
	}
	return s.apply(match, func(u *models.User) bool {
		changed := u.Salary == nil || float64(*u.Salary) != amount
		salary := models.Amount(amount)
		u.Salary = &salary
		return changed
	})
}

func (s *UserStore) DeleteByID(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.DeleteResult{}, s.Err
	}

	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return models.DeleteResult{Acknowledged: true}, nil
}

// apply updates the first match, mirroring UpdateOne.
func (s *UserStore) apply(match func(models.User) bool, mutate func(*models.User) bool) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.UpdateResult{}, s.Err
	}

	res := models.UpdateResult{Acknowledged: true}
	for i := range s.users {
		if !match(s.users[i]) {
			continue
		}
		res.MatchedCount = 1
		if mutate(&s.users[i]) {
			res.ModifiedCount = 1
		}
		break
	}
	return res, nil
}

func (s *UserStore) indexByEmail(email string) int {
	for i, u := range s.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func byEmail(email string) func(models.User) bool {
	return func(u models.User) bool { return u.Email == email }
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
