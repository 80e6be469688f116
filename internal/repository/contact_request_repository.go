package repository

import (
	"context"

	"github.com/qingping857/Blind-date-platform/internal/domain"
)

type ContactRequestRepository interface {
	// Create inserts a new pending request. The storage layer guarantees at
	// most one pending request per (requester, target) pair and returns
	// domain.ErrRequestAlreadyPending when that would be violated.
	Create(ctx context.Context, request *domain.ContactRequest) error

	GetByID(ctx context.Context, id int) (*domain.ContactRequest, error)

	// GetPending returns the pending request for the pair, if any.
	GetPending(ctx context.Context, requesterID, targetID int) (*domain.ContactRequest, error)

	// GetLatest returns the most recently created request for the pair
	// regardless of status.
	GetLatest(ctx context.Context, requesterID, targetID int) (*domain.ContactRequest, error)

	// HasDisclosure reports whether any request from viewerID to targetID has
	// disclosed the target's handle to the viewer. Disclosure is permanent:
	// a later pending request for the pair does not revoke it.
	HasDisclosure(ctx context.Context, viewerID, targetID int) (bool, error)

	// ListByRequester / ListByTarget return requests most-recent-first.
	ListByRequester(ctx context.Context, requesterID int) ([]*domain.ContactRequest, error)
	ListByTarget(ctx context.Context, targetID int) ([]*domain.ContactRequest, error)

	// Decide transitions a request out of pending in a single conditional
	// write: the update applies only if the request exists, targetID is its
	// target and it is still pending. When the decision is approved the
	// target's handle is disclosed to the requester (disclosed_to).
	// Returns domain.ErrRequestNotFound when no row matched; callers
	// disambiguate by re-reading.
	Decide(ctx context.Context, id, targetID int, status string, response *string) (*domain.ContactRequest, error)
}
