package profile

import (
	"context"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

type ProfileUseCase struct {
	userRepo repository.UserRepository
}

func NewProfileUseCase(userRepo repository.UserRepository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// UpdateProfileRequest represents profile update request. Nil fields are left
// unchanged; email, password and moderation status are not editable here.
type UpdateProfileRequest struct {
	Nickname    *string   `json:"nickname" binding:"omitempty,min=1,max=50"`
	Age         *int      `json:"age" binding:"omitempty,min=18,max=100"`
	Province    *string   `json:"province" binding:"omitempty,max=50"`
	City        *string   `json:"city" binding:"omitempty,max=50"`
	MBTI        *string   `json:"mbti" binding:"omitempty,mbti"`
	University  *string   `json:"university" binding:"omitempty,max=100"`
	Major       *string   `json:"major" binding:"omitempty,max=100"`
	Grade       *string   `json:"grade" binding:"omitempty,max=20"`
	SelfIntro   *string   `json:"self_intro" binding:"omitempty,max=1000"`
	Expectation *string   `json:"expectation" binding:"omitempty,max=1000"`
	Wechat      *string   `json:"wechat" binding:"omitempty,max=50"`
	Photos      *[]string `json:"photos"`
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the caller's profile.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID int, req *UpdateProfileRequest) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Province != nil {
		user.Province = *req.Province
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.MBTI != nil {
		user.MBTI = req.MBTI
	}
	if req.University != nil {
		user.University = *req.University
	}
	if req.Major != nil {
		user.Major = req.Major
	}
	if req.Grade != nil {
		user.Grade = *req.Grade
	}
	if req.SelfIntro != nil {
		user.SelfIntro = *req.SelfIntro
	}
	if req.Expectation != nil {
		user.Expectation = *req.Expectation
	}
	if req.Wechat != nil {
		user.Wechat = *req.Wechat
	}
	if req.Photos != nil {
		if len(*req.Photos) < 1 || len(*req.Photos) > 3 {
			return nil, domain.ErrPhotoCount
		}
		user.Photos = *req.Photos
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
