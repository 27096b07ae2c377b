package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"netflix-catalog-backend/internal/domains/user"
	"netflix-catalog-backend/internal/shared/response"
	"netflix-catalog-backend/pkg/jwt"
	"netflix-catalog-backend/pkg/logger"
)

type UserHandler struct {
	service    user.Service
	jwtManager *jwt.Manager
}

func NewUserHandler(service user.Service, jwtManager *jwt.Manager) *UserHandler {
	return &UserHandler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register handles POST /users/. Duplicate email is a 400.
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			response.BadRequest(c, "Email already registered")
		case errors.Is(err, user.ErrUsernameTaken):
			response.BadRequest(c, "Username already taken")
		default:
			logger.Error("register failed", err)
			response.InternalServerError(c, "internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, created)
}

// List handles GET /users/ with skip/limit pagination.
func (h *UserHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	users, err := h.service.List(c.Request.Context(), skip, limit)
	if err != nil {
		logger.Error("list users failed", err)
		response.InternalServerError(c, "internal server error")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{
		Skip:  skip,
		Limit: limit,
		Count: len(users),
	})
}

// Get handles GET /users/:user_id. The literal segment "me" resolves the
// bearer token instead; gin cannot register /users/me next to
// /users/:user_id, so the dispatch happens here.
func (h *UserHandler) Get(c *gin.Context) {
	param := c.Param("user_id")
	if param == "me" {
		h.me(c)
		return
	}

	id, err := uuid.Parse(param)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		logger.Error("get user failed", err)
		response.InternalServerError(c, "internal server error")
		return
	}

	response.Success(c, http.StatusOK, u)
}

// me implements GET /users/me/: 401 for a missing or invalid token, 400 for
// a valid token whose account has been deactivated.
func (h *UserHandler) me(c *gin.Context) {
	claims, ok := h.bearerClaims(c)
	if !ok {
		response.Unauthorized(c, "invalid token")
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "invalid token")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Unauthorized(c, "invalid token")
			return
		}
		logger.Error("get current user failed", err)
		response.InternalServerError(c, "internal server error")
		return
	}

	if !u.IsActive {
		response.BadRequest(c, "Inactive user")
		return
	}

	response.Success(c, http.StatusOK, u)
}

// Token handles POST /token: OAuth2 password flow over form fields. The
// response body is the bare token object, not the usual envelope, to keep
// the shape OAuth2 clients expect.
func (h *UserHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		response.Unauthorized(c, "Incorrect username or password")
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Unauthorized(c, "Incorrect username or password")
			return
		}
		logger.Error("token issuance failed", err)
		response.InternalServerError(c, "internal server error")
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID.String(), u.Username)
	if err != nil {
		logger.Error("token signing failed", err)
		response.InternalServerError(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, user.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *UserHandler) bearerClaims(c *gin.Context) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := h.jwtManager.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
