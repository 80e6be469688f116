// Package memory provides map-backed repository implementations used by unit
// tests. They mirror the behavior of the postgres implementations, including
// the pending-pair uniqueness guarantee of the contact request store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

type UserRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1, users: make(map[int]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

// SetStatus flips a user's moderation status, standing in for the external
// moderation action in tests.
func (r *UserRepository) SetStatus(id int, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.Status = status
	}
}

func (r *UserRepository) Search(_ context.Context, filter *repository.UserFilter) ([]*domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.User
	for _, user := range r.users {
		if matches(user, filter) {
			copied := *user
			matched = append(matched, &copied)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matches(user *domain.User, filter *repository.UserFilter) bool {
	if filter.ExcludeID != 0 && user.ID == filter.ExcludeID {
		return false
	}
	if filter.Status != "" && user.Status != filter.Status {
		return false
	}
	if filter.Gender != "" && user.Gender != filter.Gender {
		return false
	}
	if filter.Province != "" && user.Province != filter.Province {
		return false
	}
	if filter.City != "" && user.City != filter.City {
		return false
	}
	if filter.MBTI != "" && (user.MBTI == nil || *user.MBTI != filter.MBTI) {
		return false
	}
	if filter.Grade != "" && user.Grade != filter.Grade {
		return false
	}
	if filter.MinAge != 0 && user.Age < filter.MinAge {
		return false
	}
	if filter.MaxAge != 0 && user.Age > filter.MaxAge {
		return false
	}
	if filter.Query != "" {
		var field string
		switch filter.QueryField {
		case "expectation":
			field = user.Expectation
		case "university":
			field = user.University
		default:
			field = user.SelfIntro
		}
		if !strings.Contains(strings.ToLower(field), strings.ToLower(filter.Query)) {
			return false
		}
	}
	return true
}
