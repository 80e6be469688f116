package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qingping857/Blind-date-platform/internal/usecase/square"
)

type SquareHandler struct {
	squareUseCase *square.SquareUseCase
}

func NewSquareHandler(squareUseCase *square.SquareUseCase) *SquareHandler {
	return &SquareHandler{squareUseCase: squareUseCase}
}

// List handles GET /square/users
func (h *SquareHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req square.BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "invalid query parameters")
		return
	}

	result, err := h.squareUseCase.Browse(c.Request.Context(), userID, &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, result)
}

// Get handles GET /square/users/:id
func (h *SquareHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, err := h.squareUseCase.GetUser(c.Request.Context(), userID, targetID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, card)
}
