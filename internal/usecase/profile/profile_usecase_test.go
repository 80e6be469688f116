package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository/memory"
	"github.com/qingping857/Blind-date-platform/internal/usecase/profile"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func seedUser(t *testing.T, users *memory.UserRepository) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:       "alice@example.com",
		Nickname:    "alice",
		Gender:      domain.GenderFemale,
		Age:         22,
		Province:    "Zhejiang",
		City:        "Hangzhou",
		University:  "ZJU",
		Grade:       "senior",
		SelfIntro:   "hi",
		Expectation: "someone kind",
		Wechat:      "wx_alice",
		Photos:      []string{"/uploads/a.jpg"},
		Status:      domain.UserStatusApproved,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	users := memory.NewUserRepository()
	uc := profile.NewProfileUseCase(users)
	ctx := context.Background()
	user := seedUser(t, users)

	updated, err := uc.UpdateProfile(ctx, user.ID, &profile.UpdateProfileRequest{
		Nickname: strPtr("ali"),
		Age:      intPtr(23),
		MBTI:     strPtr("INFJ"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ali", updated.Nickname)
	assert.Equal(t, 23, updated.Age)
	require.NotNil(t, updated.MBTI)
	assert.Equal(t, "INFJ", *updated.MBTI)

	// Untouched fields survive.
	assert.Equal(t, "Hangzhou", updated.City)
	assert.Equal(t, "wx_alice", updated.Wechat)
	assert.Equal(t, domain.UserStatusApproved, updated.Status)

	// And the update is persisted.
	stored, err := uc.GetMyProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ali", stored.Nickname)
}

func TestUpdateProfile_Photos(t *testing.T) {
	users := memory.NewUserRepository()
	uc := profile.NewProfileUseCase(users)
	ctx := context.Background()
	user := seedUser(t, users)

	_, err := uc.UpdateProfile(ctx, user.ID, &profile.UpdateProfileRequest{Photos: &[]string{}})
	assert.ErrorIs(t, err, domain.ErrPhotoCount)

	tooMany := []string{"/a.jpg", "/b.jpg", "/c.jpg", "/d.jpg"}
	_, err = uc.UpdateProfile(ctx, user.ID, &profile.UpdateProfileRequest{Photos: &tooMany})
	assert.ErrorIs(t, err, domain.ErrPhotoCount)

	photos := []string{"/x.jpg", "/y.jpg"}
	updated, err := uc.UpdateProfile(ctx, user.ID, &profile.UpdateProfileRequest{Photos: &photos})
	require.NoError(t, err)
	assert.Equal(t, photos, updated.Photos)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	uc := profile.NewProfileUseCase(memory.NewUserRepository())

	_, err := uc.UpdateProfile(context.Background(), 42, &profile.UpdateProfileRequest{Nickname: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
