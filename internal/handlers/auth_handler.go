package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schemacanvas/internal/middlewares"
	"schemacanvas/internal/models"
	"schemacanvas/internal/responses"
	"schemacanvas/internal/services"
)

const (
	refreshTokenCookieName = "refresh_token"
	refreshTokenMaxAge     = 30 * 24 * 3600 // 30 days in seconds
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"     binding:"required"`
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Please provide your name, email and password correctly")
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	accessToken, refreshToken, err := h.userService.Register(c.Request.Context(), user)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not register user")
		return
	}

	c.SetCookie(refreshTokenCookieName, refreshToken, refreshTokenMaxAge, "/", "", true, true)

	responses.Success(c, http.StatusCreated, gin.H{
		"access_token": accessToken,
	}, "New user registered successfully!")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid Format")
		return
	}

	accessToken, refreshToken, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Failed to login")
		return
	}

	c.SetCookie(refreshTokenCookieName, refreshToken, refreshTokenMaxAge, "/", "", true, true)

	responses.Success(c, http.StatusOK, gin.H{
		"access_token": accessToken,
	}, "Logged in successfully")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookieName)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Missing refresh token")
		return
	}

	accessToken, err := h.userService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		c.SetCookie(refreshTokenCookieName, "", -1, "/", "", true, true)
		responses.Fail(c, http.StatusUnauthorized, err, "Invalid or expired refresh token")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"access_token": accessToken,
	}, "Access token refreshed successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(refreshTokenCookieName); err == nil {
		_ = h.userService.Logout(c.Request.Context(), refreshToken)
	}

	c.SetCookie(refreshTokenCookieName, "", -1, "/", "", true, true)

	responses.Success(c, http.StatusOK, nil, "Logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middlewares.CurrentUser(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		responses.Fail(c, http.StatusNotFound, err, "User not found")
		return
	}

	responses.Success(c, http.StatusOK, user, "")
}
