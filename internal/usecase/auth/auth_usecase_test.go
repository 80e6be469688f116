package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository/memory"
	redisrepo "github.com/qingping857/Blind-date-platform/internal/repository/redis"
	"github.com/qingping857/Blind-date-platform/internal/usecase/auth"
)

const testSecret = "test-secret-key-0123456789abcdef0123"

// captureSender records codes instead of emailing them.
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(map[string]string)}
}

func (s *captureSender) SendCode(_ context.Context, to, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[to] = code
	return nil
}

func (s *captureSender) codeFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

type fixture struct {
	uc       *auth.AuthUseCase
	users    *memory.UserRepository
	sessions *memory.SessionRepository
	sender   *captureSender
	mr       *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	users := memory.NewUserRepository()
	sessions := memory.NewSessionRepository()
	sender := newCaptureSender()
	uc := auth.NewAuthUseCase(
		users,
		sessions,
		redisrepo.NewVerificationCodeRepository(client),
		sender,
		testSecret,
		168,
	)
	return &fixture{uc: uc, users: users, sessions: sessions, sender: sender, mr: mr}
}

func registerRequest(email, code string) *auth.RegisterRequest {
	return &auth.RegisterRequest{
		Email:              email,
		Password:           "s3cret-password",
		Code:               code,
		Nickname:           "alice",
		Gender:             domain.GenderFemale,
		Age:                22,
		Province:           "Zhejiang",
		City:               "Hangzhou",
		University:         "ZJU",
		Grade:              "senior",
		SelfIntro:          "hi",
		Expectation:        "someone kind",
		Wechat:             "wx_alice",
		VerificationAnswer: "library card 20230142",
		PhotoURLs:          []string{"/uploads/a.jpg"},
	}
}

// register drives the send-code + register flow and returns the new user.
func (f *fixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.uc.SendCode(ctx, email))
	user, err := f.uc.Register(ctx, registerRequest(email, f.sender.codeFor(email)))
	require.NoError(t, err)
	return user
}

func TestRegister_Flow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.SendCode(ctx, "Alice@Example.COM"))
	code := f.sender.codeFor("alice@example.com")
	require.Len(t, code, 6, "code is six digits and keyed by normalized email")

	user, err := f.uc.Register(ctx, registerRequest("Alice@Example.COM", code))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.UserStatusPending, user.Status, "new accounts await moderation")
	assert.NotEqual(t, "s3cret-password", user.PasswordHash)
	assert.NotZero(t, user.ID)

	// The vetting answer is stored for the moderator.
	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "library card 20230142", stored.VerificationAnswer)

	// The code is single-use.
	_, err = f.uc.Register(ctx, registerRequest("alice@example.com", code))
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestRegister_WrongCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.SendCode(ctx, "alice@example.com"))
	_, err := f.uc.Register(ctx, registerRequest("alice@example.com", "000000"))
	if f.sender.codeFor("alice@example.com") == "000000" {
		t.Skip("generated code collided with the guess")
	}
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	// No code issued at all for this address.
	_, err = f.uc.Register(ctx, registerRequest("bob@example.com", "123456"))
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestRegister_CodeExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.SendCode(ctx, "alice@example.com"))
	code := f.sender.codeFor("alice@example.com")

	f.mr.FastForward(11 * time.Minute)

	_, err := f.uc.Register(ctx, registerRequest("alice@example.com", code))
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com")

	require.NoError(t, f.uc.SendCode(ctx, "alice@example.com"))
	_, err := f.uc.Register(ctx, registerRequest("alice@example.com", f.sender.codeFor("alice@example.com")))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegister_PhotoCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.SendCode(ctx, "alice@example.com"))
	code := f.sender.codeFor("alice@example.com")

	req := registerRequest("alice@example.com", code)
	req.PhotoURLs = nil
	_, err := f.uc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPhotoCount)

	req = registerRequest("alice@example.com", code)
	req.PhotoURLs = []string{"/a.jpg", "/b.jpg", "/c.jpg", "/d.jpg"}
	_, err = f.uc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPhotoCount)

	req = registerRequest("alice@example.com", code)
	req.PhotoURLs = []string{"/a.jpg", "/b.jpg", "/c.jpg"}
	_, err = f.uc.Register(ctx, req)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice@example.com")

	result, err := f.uc.Login(ctx, "Alice@Example.com", "s3cret-password", "test-device", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.True(t, result.ExpiresAt.After(result.User.CreatedAt))

	_, err = f.uc.Login(ctx, "alice@example.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown emails get the same error as bad passwords.
	_, err = f.uc.Login(ctx, "nobody@example.com", "s3cret-password", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice@example.com")

	result, err := f.uc.Login(ctx, "alice@example.com", "s3cret-password", "", "")
	require.NoError(t, err)

	userID, err := f.uc.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = f.uc.VerifyToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = f.uc.VerifyToken(ctx, result.Token+"tampered")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com")

	result, err := f.uc.Login(ctx, "alice@example.com", "s3cret-password", "", "")
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, result.Token))

	// The JWT is still cryptographically valid, but its session is gone.
	_, err = f.uc.VerifyToken(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, f.uc.Logout(ctx, result.Token), domain.ErrSessionNotFound)
}

func TestPurgeExpiredSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice@example.com")

	result, err := f.uc.Login(ctx, "alice@example.com", "s3cret-password", "", "")
	require.NoError(t, err)

	// A session past its expiry, as left behind by a client that never
	// logged out.
	require.NoError(t, f.sessions.Create(ctx, &domain.Session{
		UserID:    user.ID,
		Token:     "stale-session-hash",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	removed, err := f.uc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// The live session survives the purge.
	_, err = f.uc.VerifyToken(ctx, result.Token)
	require.NoError(t, err)

	removed, err = f.uc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice@example.com")

	me, err := f.uc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = f.uc.Me(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
