package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
)

// Decisions a target may take on a pending request.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ContactUseCase struct {
	contactRepo repository.ContactRequestRepository
	userRepo    repository.UserRepository
}

func NewContactUseCase(
	contactRepo repository.ContactRequestRepository,
	userRepo repository.UserRepository,
) *ContactUseCase {
	return &ContactUseCase{
		contactRepo: contactRepo,
		userRepo:    userRepo,
	}
}

// CreateRequestInput carries the requester's message to the target.
type CreateRequestInput struct {
	Message string `json:"message" binding:"required"`
}

// RespondInput carries the target's decision on a pending request.
type RespondInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Response string `json:"response"`
}

// RequestParty is the per-request projection of one side of a request.
// Wechat is filled only when the request discloses it to the viewer.
type RequestParty struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	Wechat   string `json:"wechat,omitempty"`
}

// RequestView is a contact request enriched with both parties, as returned by
// list and detail operations.
type RequestView struct {
	ID          int           `json:"id"`
	Requester   *RequestParty `json:"requester"`
	Target      *RequestParty `json:"target"`
	Message     string        `json:"message"`
	Status      string        `json:"status"`
	Response    *string       `json:"response,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

// StatusView reports the outcome of the latest request between a pair.
// Status is "none" when no request has ever been sent.
type StatusView struct {
	Status   string  `json:"status"`
	Message  *string `json:"message"`
	Response *string `json:"response"`
}

// CreateRequest sends a contact request from requesterID to targetID. At most
// one pending request may exist per pair; the storage layer enforces that
// even under concurrent creates.
func (uc *ContactUseCase) CreateRequest(ctx context.Context, requesterID, targetID int, input *CreateRequestInput) (*domain.ContactRequest, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if requesterID == targetID {
		return nil, domain.ErrSelfRequest
	}

	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	// Friendly fast path; the unique index behind Create is the actual
	// duplicate guarantee.
	if _, err := uc.contactRepo.GetPending(ctx, requesterID, targetID); err == nil {
		return nil, domain.ErrRequestAlreadyPending
	} else if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}

	request := &domain.ContactRequest{
		RequesterID: requesterID,
		TargetID:    targetID,
		Message:     message,
	}
	if err := uc.contactRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Respond lets the target approve or reject a pending request. Approving
// discloses the target's wechat handle to the requester; rejecting requires a
// response text. Both outcomes are terminal.
func (uc *ContactUseCase) Respond(ctx context.Context, responderID, requestID int, input *RespondInput) (*domain.ContactRequest, error) {
	var status string
	switch input.Decision {
	case DecisionApprove:
		status = domain.RequestStatusApproved
	case DecisionReject:
		status = domain.RequestStatusRejected
	default:
		return nil, domain.ErrInvalidDecision
	}

	var response *string
	text := strings.TrimSpace(input.Response)
	if status == domain.RequestStatusRejected && text == "" {
		return nil, domain.ErrEmptyResponse
	}
	if text != "" {
		response = &text
	}

	updated, err := uc.contactRepo.Decide(ctx, requestID, responderID, status, response)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, err
	}

	// The conditional write matched nothing; re-read to tell the caller why.
	request, getErr := uc.contactRepo.GetByID(ctx, requestID)
	if getErr != nil {
		return nil, getErr
	}
	if request.TargetID != responderID {
		return nil, domain.ErrNotRequestTarget
	}
	return nil, domain.ErrRequestAlreadyDecided
}

// ListOutgoing returns the viewer's sent requests, newest first. The target's
// wechat handle appears only on requests that disclosed it to the viewer.
func (uc *ContactUseCase) ListOutgoing(ctx context.Context, viewerID int) ([]*RequestView, error) {
	viewer, err := uc.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	requests, err := uc.contactRepo.ListByRequester(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing requests: %w", err)
	}

	views := make([]*RequestView, 0, len(requests))
	for _, request := range requests {
		target, err := uc.userRepo.GetByID(ctx, request.TargetID)
		if err != nil {
			return nil, err
		}
		view := uc.buildView(request, viewer, target, viewerID)
		views = append(views, view)
	}
	return views, nil
}

// ListIncoming returns requests sent to the viewer, newest first. Incoming
// views never carry a wechat handle: disclosure runs target to requester
// only, and the viewer already knows their own.
func (uc *ContactUseCase) ListIncoming(ctx context.Context, viewerID int) ([]*RequestView, error) {
	viewer, err := uc.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	requests, err := uc.contactRepo.ListByTarget(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}

	views := make([]*RequestView, 0, len(requests))
	for _, request := range requests {
		requester, err := uc.userRepo.GetByID(ctx, request.RequesterID)
		if err != nil {
			return nil, err
		}
		view := uc.buildView(request, requester, viewer, viewerID)
		views = append(views, view)
	}
	return views, nil
}

// GetRequest returns the detail view of one request. Only the requester and
// the target may see it.
func (uc *ContactUseCase) GetRequest(ctx context.Context, viewerID, requestID int) (*RequestView, error) {
	request, err := uc.contactRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.HasParty(viewerID) {
		return nil, domain.ErrNotRequestParty
	}

	requester, err := uc.userRepo.GetByID(ctx, request.RequesterID)
	if err != nil {
		return nil, err
	}
	target, err := uc.userRepo.GetByID(ctx, request.TargetID)
	if err != nil {
		return nil, err
	}
	return uc.buildView(request, requester, target, viewerID), nil
}

// GetStatus returns the status of the latest request from viewerID to
// targetID, or "none" when the pair has no history.
func (uc *ContactUseCase) GetStatus(ctx context.Context, viewerID, targetID int) (*StatusView, error) {
	request, err := uc.contactRepo.GetLatest(ctx, viewerID, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return &StatusView{Status: "none"}, nil
		}
		return nil, err
	}
	return &StatusView{
		Status:   request.Status,
		Message:  &request.Message,
		Response: request.Response,
	}, nil
}

func (uc *ContactUseCase) buildView(request *domain.ContactRequest, requester, target *domain.User, viewerID int) *RequestView {
	targetParty := &RequestParty{
		ID:       target.ID,
		Nickname: target.Nickname,
		Avatar:   target.Avatar(),
		Province: target.Province,
		City:     target.City,
	}
	if request.DisclosesTo(viewerID) {
		targetParty.Wechat = target.Wechat
	}

	return &RequestView{
		ID: request.ID,
		Requester: &RequestParty{
			ID:       requester.ID,
			Nickname: requester.Nickname,
			Avatar:   requester.Avatar(),
			Province: requester.Province,
			City:     requester.City,
		},
		Target:      targetParty,
		Message:     request.Message,
		Status:      request.Status,
		Response:    request.Response,
		CreatedAt:   request.CreatedAt,
		RespondedAt: request.RespondedAt,
	}
}
