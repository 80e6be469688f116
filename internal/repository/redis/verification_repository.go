package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

type verificationCodeRepository struct {
	client *redis.Client
}

func NewVerificationCodeRepository(client *redis.Client) repository.VerificationCodeRepository {
	return &verificationCodeRepository{client: client}
}

func codeKey(email string) string {
	return "verification_code:" + email
}

func (r *verificationCodeRepository) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.client.Set(ctx, codeKey(email), code, ttl).Err()
}

func (r *verificationCodeRepository) Get(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, codeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidCode
		}
		return "", err
	}
	return code, nil
}

func (r *verificationCodeRepository) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, codeKey(email)).Err()
}
