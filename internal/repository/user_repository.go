package repository

import (
	"context"

	"github.com/qingping857/Blind-date-platform/internal/domain"
)

// UserFilter drives the square listing. Zero values mean "no constraint".
type UserFilter struct {
	ExcludeID int
	Status    string
	Gender    string
	Province  string
	City      string
	MBTI      string
	Grade     string
	MinAge    int
	MaxAge    int
	// Query is matched case-insensitively against QueryField
	// (self_intro, expectation or university).
	Query      string
	QueryField string
	Page       int
	PageSize   int
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Search returns one page of matching users plus the total match count.
	Search(ctx context.Context, filter *UserFilter) ([]*domain.User, int, error)
}
