package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lottoworks/lottery-api/internal/auth"
	"github.com/lottoworks/lottery-api/internal/histories"
	"github.com/lottoworks/lottery-api/internal/users"
	"go.uber.org/zap"
)

const userIDContextKey = "lottery_user_id"

var (
	errMissingTokenManager     = errors.New("token manager dependency required")
	errMissingUsersService     = errors.New("users service dependency required")
	errMissingHistoriesService = errors.New("histories service dependency required")
)

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	IssueToken(userID int64, email string) (string, error)
	ValidateToken(token string) (auth.TokenClaims, error)
}

// Dependencies wires the handler to its collaborating services.
type Dependencies struct {
	TokenManager     TokenManager
	UsersService     *users.Service
	HistoriesService *histories.Service
	Logger           *zap.Logger
}

// NewHTTPHandler assembles the gin router with CORS, request logging and the
// API routes.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.UsersService == nil {
		return nil, errMissingUsersService
	}
	if deps.HistoriesService == nil {
		return nil, errMissingHistoriesService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware())

	handler := &httpHandler{
		tokens:    deps.TokenManager,
		users:     deps.UsersService,
		histories: deps.HistoriesService,
		logger:    logger,
	}

	router.GET("/", handler.handleLiveness)
	router.POST("/api/register", handler.handleRegister)
	router.POST("/api/login", handler.handleLogin)

	protected := router.Group("/api")
	protected.Use(handler.authorizeRequest)
	protected.GET("/me", handler.handleCurrentUser)
	protected.POST("/histories", handler.handleCreateHistory)
	protected.GET("/histories", handler.handleListHistories)

	return router, nil
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	})
}

type httpHandler struct {
	tokens    TokenManager
	users     *users.Service
	histories *histories.Service
	logger    *zap.Logger
}

func (h *httpHandler) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// authorizeRequest gates the protected routes behind a bearer session token.
// Missing header, wrong scheme, and failed validation all abort with 401
// before any handler logic runs.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			h.logger.Info("token validation failed", zap.Error(err))
		} else {
			h.logger.Warn("token validation failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Set(userIDContextKey, claims.UserID)
	c.Next()
}

func authenticatedUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok && userID > 0
}
