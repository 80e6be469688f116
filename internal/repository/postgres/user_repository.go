package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, email, password_hash, nickname, gender, age, province, city,
	mbti, university, major, grade, self_intro, expectation, wechat,
	verification_answer, photos, status, created_at, updated_at
`

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Nickname, &user.Gender,
		&user.Age, &user.Province, &user.City, &user.MBTI, &user.University,
		&user.Major, &user.Grade, &user.SelfIntro, &user.Expectation,
		&user.Wechat, &user.VerificationAnswer, pq.Array(&user.Photos),
		&user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			email, password_hash, nickname, gender, age, province, city,
			mbti, university, major, grade, self_intro, expectation, wechat,
			verification_answer, photos, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		user.Email, user.PasswordHash, user.Nickname, user.Gender, user.Age,
		user.Province, user.City, user.MBTI, user.University, user.Major,
		user.Grade, user.SelfIntro, user.Expectation, user.Wechat,
		user.VerificationAnswer, pq.Array(user.Photos), user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET nickname = $1, age = $2, province = $3, city = $4, mbti = $5,
		    university = $6, major = $7, grade = $8, self_intro = $9,
		    expectation = $10, wechat = $11, photos = $12,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $13
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		user.Nickname, user.Age, user.Province, user.City, user.MBTI,
		user.University, user.Major, user.Grade, user.SelfIntro,
		user.Expectation, user.Wechat, pq.Array(user.Photos), user.ID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

// searchQueryFields whitelists the columns free-text search may touch.
var searchQueryFields = map[string]string{
	"selfIntro":   "self_intro",
	"expectation": "expectation",
	"university":  "university",
}

func (r *userRepository) Search(ctx context.Context, filter *repository.UserFilter) ([]*domain.User, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	addArg := func(clause string, value interface{}) {
		where += fmt.Sprintf(clause, argCount)
		args = append(args, value)
		argCount++
	}

	if filter.ExcludeID != 0 {
		addArg(" AND id <> $%d", filter.ExcludeID)
	}
	if filter.Status != "" {
		addArg(" AND status = $%d", filter.Status)
	}
	if filter.Gender != "" {
		addArg(" AND gender = $%d", filter.Gender)
	}
	if filter.Province != "" {
		addArg(" AND province = $%d", filter.Province)
	}
	if filter.City != "" {
		addArg(" AND city = $%d", filter.City)
	}
	if filter.MBTI != "" {
		addArg(" AND mbti = $%d", filter.MBTI)
	}
	if filter.Grade != "" {
		addArg(" AND grade = $%d", filter.Grade)
	}
	if filter.MinAge != 0 {
		addArg(" AND age >= $%d", filter.MinAge)
	}
	if filter.MaxAge != 0 {
		addArg(" AND age <= $%d", filter.MaxAge)
	}
	if filter.Query != "" {
		column, ok := searchQueryFields[filter.QueryField]
		if !ok {
			column = "self_intro"
		}
		addArg(" AND "+column+" ILIKE $%d", "%"+filter.Query+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Nickname, &user.Gender,
			&user.Age, &user.Province, &user.City, &user.MBTI, &user.University,
			&user.Major, &user.Grade, &user.SelfIntro, &user.Expectation,
			&user.Wechat, &user.VerificationAnswer, pq.Array(&user.Photos),
			&user.Status, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, &user)
	}
	return users, total, rows.Err()
}
