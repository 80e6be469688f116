package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

type contactRequestRepository struct {
	db *sqlx.DB
}

func NewContactRequestRepository(db *sqlx.DB) repository.ContactRequestRepository {
	return &contactRequestRepository{db: db}
}

const requestColumns = `
	id, requester_id, target_id, message, status, response, disclosed_to,
	created_at, responded_at, updated_at
`

func (r *contactRequestRepository) Create(ctx context.Context, request *domain.ContactRequest) error {
	query := `
		INSERT INTO contact_requests (requester_id, target_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, request.RequesterID, request.TargetID, request.Message).
		Scan(&request.ID, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		// The partial unique index on (requester_id, target_id) where status
		// is pending makes concurrent duplicate creates lose here rather than
		// in the pre-insert existence check.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrRequestAlreadyPending
		}
		return err
	}
	return nil
}

func (r *contactRequestRepository) GetByID(ctx context.Context, id int) (*domain.ContactRequest, error) {
	var request domain.ContactRequest
	query := `SELECT` + requestColumns + `FROM contact_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *contactRequestRepository) GetPending(ctx context.Context, requesterID, targetID int) (*domain.ContactRequest, error) {
	var request domain.ContactRequest
	query := `
		SELECT` + requestColumns + `
		FROM contact_requests
		WHERE requester_id = $1 AND target_id = $2 AND status = 'pending'
	`
	if err := r.db.GetContext(ctx, &request, query, requesterID, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *contactRequestRepository) GetLatest(ctx context.Context, requesterID, targetID int) (*domain.ContactRequest, error) {
	var request domain.ContactRequest
	query := `
		SELECT` + requestColumns + `
		FROM contact_requests
		WHERE requester_id = $1 AND target_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &request, query, requesterID, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *contactRequestRepository) HasDisclosure(ctx context.Context, viewerID, targetID int) (bool, error) {
	var disclosed bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM contact_requests
			WHERE requester_id = $1 AND target_id = $2 AND disclosed_to = $1
		)
	`
	if err := r.db.GetContext(ctx, &disclosed, query, viewerID, targetID); err != nil {
		return false, err
	}
	return disclosed, nil
}

func (r *contactRequestRepository) ListByRequester(ctx context.Context, requesterID int) ([]*domain.ContactRequest, error) {
	var requests []*domain.ContactRequest
	query := `
		SELECT` + requestColumns + `
		FROM contact_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &requests, query, requesterID); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *contactRequestRepository) ListByTarget(ctx context.Context, targetID int) ([]*domain.ContactRequest, error) {
	var requests []*domain.ContactRequest
	query := `
		SELECT` + requestColumns + `
		FROM contact_requests
		WHERE target_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &requests, query, targetID); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *contactRequestRepository) Decide(ctx context.Context, id, targetID int, status string, response *string) (*domain.ContactRequest, error) {
	var request domain.ContactRequest
	// Single conditional update: authorization (target) and the
	// pending-only transition are checked in the same statement, so a
	// request can never be decided twice.
	query := `
		UPDATE contact_requests
		SET status = $3,
		    response = $4,
		    disclosed_to = CASE WHEN $3 = 'approved' THEN requester_id ELSE NULL END,
		    responded_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND target_id = $2 AND status = 'pending'
		RETURNING` + requestColumns + `
	`
	if err := r.db.GetContext(ctx, &request, query, id, targetID, status, response); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}
