package handler

import (
	"errors"
	"net/http"

	"github.com/alex-clyr/clyr-gpts/internal/middleware"
	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/jwtutil"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/alex-clyr/clyr-gpts/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves credential sign-in, sign-up and session retrieval.
type AuthHandler struct {
	store   store.Store
	jwtUtil *jwtutil.JWTUtil
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(s store.Store, jwtUtil *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{store: s, jwtUtil: jwtUtil}
}

// Register handles user sign-up
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		log.Error("Invalid registration data",
			zap.String("email", req.Email),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	// Check if user already exists
	_, err := h.store.GetUserByEmail(c.Request().Context(), req.Email)
	if err == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}
	if errors.Is(err, store.ErrBackendUnavailable) {
		log.Warn("Registration attempted without a configured backend")
		prometheus.RecordAuthError("backend_unavailable")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Authentication not available in demo mode"})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     model.RoleUser,
	}

	if err := h.store.CreateUser(c.Request().Context(), &user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(statusForError(err), echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Login handles credential sign-in and issues a session token
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.store.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrBackendUnavailable) {
			log.Warn("Login attempted without a configured backend")
			prometheus.RecordAuthError("backend_unavailable")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Authentication not available in demo mode"})
		}
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.jwtUtil.GenerateToken(user.Email, user.ID, user.Name, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// Logout acknowledges sign-out. Sessions are stateless JWTs, so the client
// discards the token; nothing is revoked server-side.
func (h *AuthHandler) Logout(c echo.Context) error {
	logger.FromEcho(c).Info("User logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Session returns the authenticated user's session claims
func (h *AuthHandler) Session(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":    claims.UserID,
			"email": claims.Email,
			"name":  claims.Name,
			"role":  claims.Role,
		},
		"expires_at": claims.ExpiresAt,
	})
}
