package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/logger"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

const (
	codeTTL     = 10 * time.Minute
	bcryptCost  = 10
	maxPhotos   = 3
	sessionSpan = 7 * 24 * time.Hour
)

// CodeSender matches internal/infrastructure/email.CodeSender; redeclared here
// so the usecase does not depend on the infrastructure package.
type CodeSender interface {
	SendCode(ctx context.Context, to, code string) error
}

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	codeRepo    repository.VerificationCodeRepository
	sender      CodeSender
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	codeRepo repository.VerificationCodeRepository,
	sender CodeSender,
	jwtSecret string,
	tokenExpiryHours int,
) *AuthUseCase {
	expiry := sessionSpan
	if tokenExpiryHours > 0 {
		expiry = time.Duration(tokenExpiryHours) * time.Hour
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		codeRepo:    codeRepo,
		sender:      sender,
		jwtSecret:   jwtSecret,
		tokenExpiry: expiry,
	}
}

// RegisterRequest carries the registration form. PhotoURLs are filled by the
// handler after it has stored the uploaded files.
type RegisterRequest struct {
	Email       string
	Password    string
	Code        string
	Nickname    string
	Gender      string
	Age         int
	Province    string
	City        string
	MBTI        *string
	University  string
	Major       *string
	Grade       string
	SelfIntro   string
	Expectation string
	Wechat      string
	// VerificationAnswer is the applicant's answer to the platform's vetting
	// question, read by the moderator deciding the account status.
	VerificationAnswer string
	PhotoURLs          []string
}

// AuthResult is returned from Login: the issued token plus the user record.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// SendCode issues a 6-digit verification code for the email and delivers it.
// A new code overwrites any previous one for the same address.
func (uc *AuthUseCase) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrInvalidInput
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := uc.codeRepo.Save(ctx, email, code, codeTTL); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := uc.sender.SendCode(ctx, email, code); err != nil {
		return fmt.Errorf("failed to deliver verification code: %w", err)
	}

	logger.Info("verification code sent", "email", email)
	return nil
}

// Register creates a new user account in pending moderation status. The
// verification code must match the one issued for the email.
func (uc *AuthUseCase) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(req.PhotoURLs) < 1 || len(req.PhotoURLs) > maxPhotos {
		return nil, domain.ErrPhotoCount
	}

	stored, err := uc.codeRepo.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(req.Code)) != 1 {
		return nil, domain.ErrInvalidCode
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:              email,
		PasswordHash:       string(hash),
		Nickname:           req.Nickname,
		Gender:             req.Gender,
		Age:                req.Age,
		Province:           req.Province,
		City:               req.City,
		MBTI:               req.MBTI,
		University:         req.University,
		Major:              req.Major,
		Grade:              req.Grade,
		SelfIntro:          req.SelfIntro,
		Expectation:        req.Expectation,
		Wechat:             req.Wechat,
		VerificationAnswer: req.VerificationAnswer,
		Photos:             req.PhotoURLs,
		Status:             domain.UserStatusPending,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Code is single-use.
	if err := uc.codeRepo.Delete(ctx, email); err != nil {
		logger.Warn("failed to delete used verification code", "email", email, "error", err)
	}

	logger.Info("user registered", "user_id", user.ID, "email", email)
	return user, nil
}

// Login checks credentials and opens a session.
func (uc *AuthUseCase) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.createSession(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the caller's own account record.
func (uc *AuthUseCase) Me(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// createSession creates a new session and returns a signed JWT.
func (uc *AuthUseCase) createSession(ctx context.Context, userID int, deviceInfo, ipAddress string) (string, time.Time, error) {
	expiresAt := time.Now().Add(uc.tokenExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	session := &domain.Session{
		UserID:    userID,
		Token:     hashToken(tokenString),
		ExpiresAt: expiresAt,
	}
	if deviceInfo != "" {
		session.DeviceInfo = &deviceInfo
	}
	if ipAddress != "" {
		session.IPAddress = &ipAddress
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyToken verifies a JWT and its backing session, returning the user id.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, domain.ErrInvalidToken
	}

	// Session must still exist; logout revokes it.
	session, err := uc.sessionRepo.GetByToken(ctx, hashToken(tokenString))
	if err != nil {
		return 0, domain.ErrSessionNotFound
	}
	if session.IsExpired() {
		return 0, domain.ErrSessionExpired
	}

	return int(userID), nil
}

// Logout deletes user session
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	return uc.sessionRepo.DeleteByToken(ctx, hashToken(tokenString))
}

// PurgeExpiredSessions removes sessions past their expiry. VerifyToken already
// rejects them; this reclaims the rows.
func (uc *AuthUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := uc.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	if removed > 0 {
		logger.Info("expired sessions purged", "count", removed)
	}
	return removed, nil
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
