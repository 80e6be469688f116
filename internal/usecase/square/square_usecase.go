package square

import (
	"context"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// SquareUseCase serves the browse pages: filtered, paginated listing of
// approved users with the contact handle always redacted, plus a detail view
// that discloses the handle only through an approved contact request.
type SquareUseCase struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRequestRepository
}

func NewSquareUseCase(
	userRepo repository.UserRepository,
	contactRepo repository.ContactRequestRepository,
) *SquareUseCase {
	return &SquareUseCase{
		userRepo:    userRepo,
		contactRepo: contactRepo,
	}
}

// BrowseRequest mirrors the square page's filter form. "all" and empty both
// mean no constraint, matching the query strings the frontend sends.
type BrowseRequest struct {
	Gender     string `form:"gender"`
	Province   string `form:"province"`
	City       string `form:"city"`
	MBTI       string `form:"mbti"`
	Grade      string `form:"grade"`
	MinAge     int    `form:"minAge"`
	MaxAge     int    `form:"maxAge"`
	Query      string `form:"query"`
	SearchType string `form:"searchType"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

type UserListResponse struct {
	Users      []*domain.UserCard `json:"users"`
	Pagination Pagination         `json:"pagination"`
}

// Browse lists approved users other than the viewer.
func (uc *SquareUseCase) Browse(ctx context.Context, viewerID int, req *BrowseRequest) (*UserListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := &repository.UserFilter{
		ExcludeID:  viewerID,
		Status:     domain.UserStatusApproved,
		Gender:     normalize(req.Gender),
		Province:   normalize(req.Province),
		City:       normalize(req.City),
		MBTI:       normalize(req.MBTI),
		Grade:      normalize(req.Grade),
		MinAge:     req.MinAge,
		MaxAge:     req.MaxAge,
		Query:      req.Query,
		QueryField: req.SearchType,
		Page:       page,
		PageSize:   pageSize,
	}

	users, total, err := uc.userRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	cards := make([]*domain.UserCard, 0, len(users))
	for _, user := range users {
		cards = append(cards, user.Card())
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &UserListResponse{
		Users: cards,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}, nil
}

// GetUser returns one user's card. The wechat handle is included only when an
// approved contact request has disclosed it to the viewer.
func (uc *SquareUseCase) GetUser(ctx context.Context, viewerID, targetID int) (*domain.UserCard, error) {
	user, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if targetID != viewerID && !user.IsApproved() {
		return nil, domain.ErrUserNotFound
	}

	card := user.Card()
	if targetID == viewerID {
		card.Wechat = user.Wechat
		return card, nil
	}

	// Disclosure is permanent once granted, so any disclosing request counts,
	// not just the latest one. Outgoing list views apply the same rule.
	disclosed, err := uc.contactRepo.HasDisclosure(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if disclosed {
		card.Wechat = user.Wechat
	}
	return card, nil
}

func normalize(value string) string {
	if value == "all" {
		return ""
	}
	return value
}
