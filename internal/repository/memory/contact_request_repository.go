package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/qingping857/Blind-date-platform/internal/domain"
)

type ContactRequestRepository struct {
	mu       sync.Mutex
	nextID   int
	requests map[int]*domain.ContactRequest
}

func NewContactRequestRepository() *ContactRequestRepository {
	return &ContactRequestRepository{nextID: 1, requests: make(map[int]*domain.ContactRequest)}
}

func (r *ContactRequestRepository) Create(_ context.Context, request *domain.ContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Same guarantee the partial unique index gives in postgres: the check
	// and the insert happen under one lock, so concurrent duplicates lose.
	for _, existing := range r.requests {
		if existing.RequesterID == request.RequesterID &&
			existing.TargetID == request.TargetID &&
			existing.IsPending() {
			return domain.ErrRequestAlreadyPending
		}
	}

	request.ID = r.nextID
	r.nextID++
	request.Status = domain.RequestStatusPending
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *ContactRequestRepository) GetByID(_ context.Context, id int) (*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *ContactRequestRepository) GetPending(_ context.Context, requesterID, targetID int) (*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range r.requests {
		if request.RequesterID == requesterID && request.TargetID == targetID && request.IsPending() {
			copied := *request
			return &copied, nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *ContactRequestRepository) GetLatest(_ context.Context, requesterID, targetID int) (*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *domain.ContactRequest
	for _, request := range r.requests {
		if request.RequesterID != requesterID || request.TargetID != targetID {
			continue
		}
		if latest == nil || request.CreatedAt.After(latest.CreatedAt) ||
			(request.CreatedAt.Equal(latest.CreatedAt) && request.ID > latest.ID) {
			latest = request
		}
	}
	if latest == nil {
		return nil, domain.ErrRequestNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *ContactRequestRepository) HasDisclosure(_ context.Context, viewerID, targetID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, request := range r.requests {
		if request.RequesterID == viewerID && request.TargetID == targetID && request.DisclosesTo(viewerID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ContactRequestRepository) ListByRequester(_ context.Context, requesterID int) ([]*domain.ContactRequest, error) {
	return r.list(func(req *domain.ContactRequest) bool { return req.RequesterID == requesterID })
}

func (r *ContactRequestRepository) ListByTarget(_ context.Context, targetID int) ([]*domain.ContactRequest, error) {
	return r.list(func(req *domain.ContactRequest) bool { return req.TargetID == targetID })
}

func (r *ContactRequestRepository) list(keep func(*domain.ContactRequest) bool) ([]*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.ContactRequest
	for _, request := range r.requests {
		if keep(request) {
			copied := *request
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ContactRequestRepository) Decide(_ context.Context, id, targetID int, status string, response *string) (*domain.ContactRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok || request.TargetID != targetID || !request.IsPending() {
		return nil, domain.ErrRequestNotFound
	}

	now := time.Now()
	request.Status = status
	request.Response = response
	request.RespondedAt = &now
	request.UpdatedAt = now
	if status == domain.RequestStatusApproved {
		requesterID := request.RequesterID
		request.DisclosedTo = &requesterID
	} else {
		request.DisclosedTo = nil
	}

	copied := *request
	return &copied, nil
}
