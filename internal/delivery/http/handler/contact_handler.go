package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qingping857/Blind-date-platform/internal/usecase/contact"
)

type ContactHandler struct {
	contactUseCase *contact.ContactUseCase
}

func NewContactHandler(contactUseCase *contact.ContactUseCase) *ContactHandler {
	return &ContactHandler{contactUseCase: contactUseCase}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// Create handles POST /contact-requests/:id, where :id is the target user.
func (h *ContactHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input contact.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "message is required")
		return
	}

	request, err := h.contactUseCase.CreateRequest(c.Request.Context(), userID, targetID, &input)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, gin.H{"id": request.ID, "status": request.Status})
}

// Respond handles PUT /contact-requests/:id
func (h *ContactHandler) Respond(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input contact.RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "decision must be approve or reject")
		return
	}

	request, err := h.contactUseCase.Respond(c.Request.Context(), userID, requestID, &input)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, request)
}

// Incoming handles GET /contact-requests/incoming
func (h *ContactHandler) Incoming(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	views, err := h.contactUseCase.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, views)
}

// Outgoing handles GET /contact-requests/outgoing
func (h *ContactHandler) Outgoing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	views, err := h.contactUseCase.ListOutgoing(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, views)
}

// Get handles GET /contact-requests/:id
func (h *ContactHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.contactUseCase.GetRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, view)
}

// Status handles GET /contact-requests/:id/status, where :id is the target
// user.
func (h *ContactHandler) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.contactUseCase.GetStatus(c.Request.Context(), userID, targetID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, status)
}
