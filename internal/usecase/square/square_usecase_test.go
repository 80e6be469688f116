package square_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository/memory"
	"github.com/qingping857/Blind-date-platform/internal/usecase/contact"
	"github.com/qingping857/Blind-date-platform/internal/usecase/square"
)

type fixture struct {
	uc       *square.SquareUseCase
	contacts *contact.ContactUseCase
	users    *memory.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memory.NewUserRepository()
	requests := memory.NewContactRequestRepository()
	return &fixture{
		uc:       square.NewSquareUseCase(users, requests),
		contacts: contact.NewContactUseCase(requests, users),
		users:    users,
	}
}

func (f *fixture) seedUser(t *testing.T, user *domain.User) int {
	t.Helper()
	if user.Status == "" {
		user.Status = domain.UserStatusApproved
	}
	if len(user.Photos) == 0 {
		user.Photos = []string{"/uploads/" + user.Nickname + ".jpg"}
	}
	if user.Email == "" {
		user.Email = user.Nickname + "@example.com"
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user.ID
}

func strPtr(s string) *string { return &s }

func TestBrowse_ApprovedOthersOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23})
	f.seedUser(t, &domain.User{Nickname: "approved", Gender: domain.GenderFemale, Age: 22})
	f.seedUser(t, &domain.User{Nickname: "waiting", Gender: domain.GenderFemale, Age: 21, Status: domain.UserStatusPending})
	f.seedUser(t, &domain.User{Nickname: "banned", Gender: domain.GenderFemale, Age: 24, Status: domain.UserStatusRejected})

	result, err := f.uc.Browse(ctx, viewer, &square.BrowseRequest{})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Equal(t, "approved", result.Users[0].Nickname)
	assert.Equal(t, 1, result.Pagination.Total)
}

func TestBrowse_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23})
	f.seedUser(t, &domain.User{
		Nickname: "hz", Gender: domain.GenderFemale, Age: 22,
		Province: "Zhejiang", City: "Hangzhou", Grade: "senior",
		MBTI: strPtr("INFJ"), University: "ZJU",
		SelfIntro: "I love hiking", Expectation: "someone calm",
	})
	f.seedUser(t, &domain.User{
		Nickname: "bj", Gender: domain.GenderFemale, Age: 26,
		Province: "Beijing", City: "Beijing", Grade: "graduate",
		MBTI: strPtr("ENTP"), University: "PKU",
		SelfIntro: "I love coding", Expectation: "someone funny",
	})

	cases := []struct {
		name string
		req  square.BrowseRequest
		want []string
	}{
		{"gender", square.BrowseRequest{Gender: "female"}, []string{"bj", "hz"}},
		{"province", square.BrowseRequest{Province: "Zhejiang"}, []string{"hz"}},
		{"city", square.BrowseRequest{City: "Beijing"}, []string{"bj"}},
		{"mbti", square.BrowseRequest{MBTI: "INFJ"}, []string{"hz"}},
		{"grade", square.BrowseRequest{Grade: "graduate"}, []string{"bj"}},
		{"age range", square.BrowseRequest{MinAge: 24, MaxAge: 30}, []string{"bj"}},
		{"all means no filter", square.BrowseRequest{Gender: "all", Province: "all"}, []string{"bj", "hz"}},
		{"query self intro", square.BrowseRequest{Query: "hiking"}, []string{"hz"}},
		{"query expectation", square.BrowseRequest{Query: "funny", SearchType: "expectation"}, []string{"bj"}},
		{"query university", square.BrowseRequest{Query: "zju", SearchType: "university"}, []string{"hz"}},
		{"combined", square.BrowseRequest{Gender: "female", Province: "Beijing", MinAge: 20}, []string{"bj"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.uc.Browse(ctx, viewer, &tc.req)
			require.NoError(t, err)
			var got []string
			for _, card := range result.Users {
				got = append(got, card.Nickname)
			}
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestBrowse_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23})
	for i := 0; i < 25; i++ {
		f.seedUser(t, &domain.User{
			Nickname: "user" + string(rune('a'+i)),
			Gender:   domain.GenderFemale,
			Age:      20 + i%5,
		})
	}

	result, err := f.uc.Browse(ctx, viewer, &square.BrowseRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, result.Users, 10)
	assert.Equal(t, 25, result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.TotalPages)

	result, err = f.uc.Browse(ctx, viewer, &square.BrowseRequest{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, result.Users, 5)

	// Beyond the last page: empty list, same total.
	result, err = f.uc.Browse(ctx, viewer, &square.BrowseRequest{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Users)
	assert.Equal(t, 25, result.Pagination.Total)

	// Defaults kick in for missing or out-of-range values.
	result, err = f.uc.Browse(ctx, viewer, &square.BrowseRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Users, 10)
	assert.Equal(t, 1, result.Pagination.Page)

	result, err = f.uc.Browse(ctx, viewer, &square.BrowseRequest{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Pagination.PageSize)
}

func TestBrowse_HandleAlwaysRedacted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23, Wechat: "wx_viewer"})
	other := f.seedUser(t, &domain.User{Nickname: "other", Gender: domain.GenderFemale, Age: 22, Wechat: "wx_other"})

	// Even with an approved contact request, the listing stays redacted.
	request, err := f.contacts.CreateRequest(ctx, viewer, other, &contact.CreateRequestInput{Message: "hi"})
	require.NoError(t, err)
	_, err = f.contacts.Respond(ctx, other, request.ID, &contact.RespondInput{Decision: contact.DecisionApprove})
	require.NoError(t, err)

	result, err := f.uc.Browse(ctx, viewer, &square.BrowseRequest{})
	require.NoError(t, err)
	require.Len(t, result.Users, 1)
	assert.Empty(t, result.Users[0].Wechat)
}

func TestGetUser_Disclosure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23, Wechat: "wx_viewer"})
	other := f.seedUser(t, &domain.User{Nickname: "other", Gender: domain.GenderFemale, Age: 22, Wechat: "wx_other"})

	// No request history: redacted.
	card, err := f.uc.GetUser(ctx, viewer, other)
	require.NoError(t, err)
	assert.Empty(t, card.Wechat)

	// Pending request: still redacted.
	request, err := f.contacts.CreateRequest(ctx, viewer, other, &contact.CreateRequestInput{Message: "hi"})
	require.NoError(t, err)
	card, err = f.uc.GetUser(ctx, viewer, other)
	require.NoError(t, err)
	assert.Empty(t, card.Wechat)

	// Approved: disclosed to the requester, and only to the requester.
	_, err = f.contacts.Respond(ctx, other, request.ID, &contact.RespondInput{Decision: contact.DecisionApprove})
	require.NoError(t, err)
	card, err = f.uc.GetUser(ctx, viewer, other)
	require.NoError(t, err)
	assert.Equal(t, "wx_other", card.Wechat)

	card, err = f.uc.GetUser(ctx, other, viewer)
	require.NoError(t, err)
	assert.Empty(t, card.Wechat, "approval does not disclose the requester's handle")
}

func TestGetUser_DisclosureSurvivesNewerRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23})
	other := f.seedUser(t, &domain.User{Nickname: "other", Gender: domain.GenderFemale, Age: 22, Wechat: "wx_other"})

	request, err := f.contacts.CreateRequest(ctx, viewer, other, &contact.CreateRequestInput{Message: "hi"})
	require.NoError(t, err)
	_, err = f.contacts.Respond(ctx, other, request.ID, &contact.RespondInput{Decision: contact.DecisionApprove})
	require.NoError(t, err)

	// A newer pending request for the pair does not revoke the earlier
	// disclosure.
	_, err = f.contacts.CreateRequest(ctx, viewer, other, &contact.CreateRequestInput{Message: "hi again"})
	require.NoError(t, err)

	card, err := f.uc.GetUser(ctx, viewer, other)
	require.NoError(t, err)
	assert.Equal(t, "wx_other", card.Wechat)
}

func TestGetUser_RejectedStaysRedacted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23})
	other := f.seedUser(t, &domain.User{Nickname: "other", Gender: domain.GenderFemale, Age: 22, Wechat: "wx_other"})

	request, err := f.contacts.CreateRequest(ctx, viewer, other, &contact.CreateRequestInput{Message: "hi"})
	require.NoError(t, err)
	_, err = f.contacts.Respond(ctx, other, request.ID, &contact.RespondInput{Decision: contact.DecisionReject, Response: "no"})
	require.NoError(t, err)

	card, err := f.uc.GetUser(ctx, viewer, other)
	require.NoError(t, err)
	assert.Empty(t, card.Wechat)
}

func TestGetUser_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := f.seedUser(t, &domain.User{Nickname: "viewer", Gender: domain.GenderMale, Age: 23, Wechat: "wx_viewer", Status: domain.UserStatusPending})
	hidden := f.seedUser(t, &domain.User{Nickname: "hidden", Gender: domain.GenderFemale, Age: 22, Status: domain.UserStatusPending})

	// Unapproved users are invisible to others.
	_, err := f.uc.GetUser(ctx, viewer, hidden)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.uc.GetUser(ctx, viewer, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// A user always sees their own card, approved or not, handle included.
	card, err := f.uc.GetUser(ctx, viewer, viewer)
	require.NoError(t, err)
	assert.Equal(t, "wx_viewer", card.Wechat)
}
