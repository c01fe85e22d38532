package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
	"github.com/BISWAJIT-BARAL01/FreshMart/internal/auth"
	"github.com/BISWAJIT-BARAL01/FreshMart/internal/websocket"
)

const tokenTTL = 7 * 24 * time.Hour

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	hub *websocket.Hub,
	history repositories.ChatHistoryRepository,
	sales repositories.SaleRepository,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "freshmart-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/users/login", func(c echo.Context) error {
		return userLogin(c, logger)
	})

	v1.GET("/languages", getLanguages)

	// Authenticated routes
	secured := v1.Group("", requireAuth(logger))

	secured.GET("/chat/:userId", func(c echo.Context) error {
		return getChatHistory(c, history, logger)
	})
	secured.PUT("/chat/:userId", func(c echo.Context) error {
		return putChatHistory(c, history, logger)
	})

	secured.POST("/sales", func(c echo.Context) error {
		return createSale(c, sales, logger)
	})
	secured.GET("/sales", func(c echo.Context) error {
		return listSales(c, sales, logger)
	})

	// WebSocket endpoint with JWT validation
	e.GET("/ws/voice", func(c echo.Context) error {
		return voiceSessionWithAuth(hub, c, logger)
	})
}

// requireAuth validates the bearer token and stores its claims on the context.
func requireAuth(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.ValidateToken(bearerToken(c))
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Invalid or expired JWT token",
				})
			}
			c.Set("claims", claims)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	return ""
}

func requestClaims(c echo.Context) *auth.JWTClaims {
	claims, _ := c.Get("claims").(*auth.JWTClaims)
	return claims
}

// canAccessUser allows a user to reach their own data and admins anyone's.
func canAccessUser(claims *auth.JWTClaims, userID string) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == userID || claims.Role == entities.RoleAdmin
}

// userLogin issues a token whose role claim drives all authorization. Admins
// are designated by the ADMIN_USER_IDS environment variable.
func userLogin(c echo.Context, logger *zap.Logger) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "User ID is required",
		})
	}

	role := entities.RoleUser
	for _, id := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		if id != "" && strings.TrimSpace(id) == req.UserID {
			role = entities.RoleAdmin
			break
		}
	}

	token, err := auth.GenerateUserToken(req.UserID, role)
	if err != nil {
		logger.Error("Failed to generate user token",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("User logged in",
		zap.String("user_id", req.UserID),
		zap.String("role", string(role)))

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(tokenTTL),
		UserID:    req.UserID,
		Role:      role,
	})
}

func getLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, entities.SupportedLanguages)
}

func getChatHistory(c echo.Context, history repositories.ChatHistoryRepository, logger *zap.Logger) error {
	userID := c.Param("userId")
	if !canAccessUser(requestClaims(c), userID) {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Cannot access another user's conversation",
		})
	}

	messages, err := history.GetHistory(c.Request().Context(), userID)
	if err != nil {
		logger.Error("Failed to load chat history",
			zap.String("user_id", userID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "history_load_failed",
			Message: "Failed to load conversation",
		})
	}

	return c.JSON(http.StatusOK, ChatHistoryResponse{UserID: userID, Messages: messages})
}

func putChatHistory(c echo.Context, history repositories.ChatHistoryRepository, logger *zap.Logger) error {
	userID := c.Param("userId")
	if !canAccessUser(requestClaims(c), userID) {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Cannot modify another user's conversation",
		})
	}

	var req ChatHistoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	for _, msg := range req.Messages {
		if err := msg.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_message",
				Message: err.Error(),
			})
		}
	}

	if err := history.PutHistory(c.Request().Context(), userID, req.Messages); err != nil {
		logger.Error("Failed to store chat history",
			zap.String("user_id", userID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "history_store_failed",
			Message: "Failed to store conversation",
		})
	}

	return c.NoContent(http.StatusNoContent)
}

func createSale(c echo.Context, sales repositories.SaleRepository, logger *zap.Logger) error {
	claims := requestClaims(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	draft := entities.SaleDraft{
		Item:     strings.TrimSpace(req.Item),
		Quantity: req.Quantity,
		Unit:     entities.ParseUnit(req.Unit),
		Price:    req.Price,
	}
	record, err := entities.NewSaleRecord(claims.UserID, draft)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_sale",
			Message: err.Error(),
		})
	}

	if err := sales.Create(c.Request().Context(), record); err != nil {
		logger.Error("Failed to record sale",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "sale_store_failed",
			Message: "Failed to record sale",
		})
	}

	logger.Info("Sale recorded",
		zap.String("user_id", claims.UserID),
		zap.String("sale_id", record.ID))
	return c.JSON(http.StatusCreated, record)
}

func listSales(c echo.Context, sales repositories.SaleRepository, logger *zap.Logger) error {
	claims := requestClaims(c)

	userID := claims.UserID
	if requested := c.QueryParam("user_id"); requested != "" && requested != claims.UserID {
		if claims.Role != entities.RoleAdmin {
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "Cannot access another user's sales",
			})
		}
		userID = requested
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "limit must be a non-negative integer",
			})
		}
		limit = parsed
	}

	records, err := sales.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list sales",
			zap.String("user_id", userID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "sale_list_failed",
			Message: "Failed to list sales",
		})
	}

	return c.JSON(http.StatusOK, SalesResponse{UserID: userID, Sales: records})
}

// voiceSessionWithAuth handles WebSocket connections with JWT authentication
func voiceSessionWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	token := bearerToken(c)
	if token == "" {
		// Browsers cannot set headers on WebSocket upgrades.
		token = c.QueryParam("token")
	}
	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.UserID == "" {
		logger.Error("WebSocket connection rejected: missing user ID in token")
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "User ID not found in token",
		})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("user_id", claims.UserID),
		zap.String("role", string(claims.Role)))

	return websocket.HandleVoiceSession(hub, c, claims.UserID, logger)
}
