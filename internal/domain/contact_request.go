package domain

import "time"

// Contact request lifecycle: pending is the only non-terminal state.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// ContactRequest asks another user to disclose their wechat handle.
// DisclosedTo is set to the requester id when the target approves; every view
// that may show a handle checks this field instead of recomputing visibility.
type ContactRequest struct {
	ID          int        `json:"id" db:"id"`
	RequesterID int        `json:"requester_id" db:"requester_id"`
	TargetID    int        `json:"target_id" db:"target_id"`
	Message     string     `json:"message" db:"message"`
	Status      string     `json:"status" db:"status"`
	Response    *string    `json:"response" db:"response"`
	DisclosedTo *int       `json:"disclosed_to" db:"disclosed_to"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	RespondedAt *time.Time `json:"responded_at" db:"responded_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func (r *ContactRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// HasParty reports whether userID is the requester or the target.
func (r *ContactRequest) HasParty(userID int) bool {
	return r.RequesterID == userID || r.TargetID == userID
}

// DisclosesTo reports whether the target's wechat handle is visible to userID.
func (r *ContactRequest) DisclosesTo(userID int) bool {
	return r.DisclosedTo != nil && *r.DisclosedTo == userID
}
