package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qingping857/Blind-date-platform/internal/delivery/http/middleware"
	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/infrastructure/storage"
	"github.com/qingping857/Blind-date-platform/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
	storage     storage.PhotoStorage
}

func NewAuthHandler(authUseCase *auth.AuthUseCase, photoStorage storage.PhotoStorage) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		storage:     photoStorage,
	}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		Unauthorized(c, "unauthorized")
		return 0, false
	}
	return userID.(int), true
}

type sendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendCode handles POST /auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a valid email is required")
		return
	}

	if err := h.authUseCase.SendCode(c.Request.Context(), req.Email); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"message": "verification code sent"})
}

// registerForm is the multipart registration form; photos arrive as files
// under the "photos" key.
type registerForm struct {
	Email       string `form:"email" binding:"required,email"`
	Password    string `form:"password" binding:"required,min=6,max=72"`
	Code        string `form:"code" binding:"required,len=6"`
	Nickname    string `form:"nickname" binding:"required,max=50"`
	Gender      string `form:"gender" binding:"required,oneof=male female"`
	Age         int    `form:"age" binding:"required,min=18,max=100"`
	Province    string `form:"province" binding:"required,max=50"`
	City        string `form:"city" binding:"required,max=50"`
	MBTI        string `form:"mbti" binding:"omitempty,mbti"`
	University  string `form:"university" binding:"required,max=100"`
	Major       string `form:"major" binding:"omitempty,max=100"`
	Grade       string `form:"grade" binding:"required,max=20"`
	SelfIntro   string `form:"self_intro" binding:"required,max=1000"`
	Expectation string `form:"expectation" binding:"required,max=1000"`
	Wechat      string `form:"wechat" binding:"required,max=50"`
	// Answer to the vetting question, reviewed by the moderator.
	VerificationAnswer string `form:"verification_answer" binding:"required,max=500"`
}

// Register handles POST /auth/register (multipart/form-data)
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		BadRequest(c, "invalid registration form: "+err.Error())
		return
	}

	multipart, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "multipart form with photos is required")
		return
	}
	photos := multipart.File["photos"]
	if len(photos) < 1 || len(photos) > 3 {
		Fail(c, domain.ErrPhotoCount)
		return
	}

	photoURLs := make([]string, 0, len(photos))
	for _, photo := range photos {
		file, err := photo.Open()
		if err != nil {
			Fail(c, err)
			return
		}
		url, err := h.storage.SavePhoto(c.Request.Context(), photo.Filename, file)
		file.Close()
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		photoURLs = append(photoURLs, url)
	}

	req := &auth.RegisterRequest{
		Email:              form.Email,
		Password:           form.Password,
		Code:               form.Code,
		Nickname:           form.Nickname,
		Gender:             form.Gender,
		Age:                form.Age,
		Province:           form.Province,
		City:               form.City,
		University:         form.University,
		Grade:              form.Grade,
		SelfIntro:          form.SelfIntro,
		Expectation:        form.Expectation,
		Wechat:             form.Wechat,
		VerificationAnswer: form.VerificationAnswer,
		PhotoURLs:          photoURLs,
	}
	if form.MBTI != "" {
		req.MBTI = &form.MBTI
	}
	if form.Major != "" {
		req.Major = &form.Major
	}

	user, err := h.authUseCase.Register(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	result, err := h.authUseCase.Login(
		c.Request.Context(),
		req.Email, req.Password,
		c.GetHeader("User-Agent"), c.ClientIP(),
	)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, result)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authUseCase.Me(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, exists := c.Get(middleware.ContextToken)
	if !exists {
		Unauthorized(c, "unauthorized")
		return
	}

	err := h.authUseCase.Logout(c.Request.Context(), token.(string))
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"message": "logged out"})
}
