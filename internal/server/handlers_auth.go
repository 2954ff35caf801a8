package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lottoworks/lottery-api/internal/users"
	"go.uber.org/zap"
)

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponsePayload struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    users.PublicUser `json:"user"`
}

func (p credentialsPayload) incomplete() bool {
	return strings.TrimSpace(p.Email) == "" || p.Password == ""
}

func (h *httpHandler) handleRegister(c *gin.Context) {
	var request credentialsPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.incomplete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		h.logger.Error("failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	token, err := h.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, authResponsePayload{
		Message: "Registered successfully",
		Token:   token,
		User:    users.PublicUser{ID: user.ID, Email: user.Email},
	})
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var request credentialsPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.incomplete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		// A single message for unknown email and wrong password.
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.Error("failed to authenticate user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	token, err := h.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, authResponsePayload{
		Message: "Logged in successfully",
		Token:   token,
		User:    users.PublicUser{ID: user.ID, Email: user.Email},
	})
}

func (h *httpHandler) handleCurrentUser(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		// The record can vanish between token issuance and lookup.
		if errors.Is(err, users.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to load current user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
