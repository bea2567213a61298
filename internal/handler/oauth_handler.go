package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/config"
	"github.com/alex-clyr/clyr-gpts/pkg/jwtutil"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/alex-clyr/clyr-gpts/prometheus"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler serves Google social sign-in. When no OAuth client is
// configured the endpoints answer 503, mirroring the demo-mode behavior of
// the credential endpoints.
type OAuthHandler struct {
	store   store.Store
	jwtUtil *jwtutil.JWTUtil
	oauth   *oauth2.Config
}

// NewOAuthHandler creates an OAuth handler; oauth is nil when unconfigured
func NewOAuthHandler(s store.Store, jwtUtil *jwtutil.JWTUtil, cfg *config.OAuthConfig) *OAuthHandler {
	h := &OAuthHandler{store: s, jwtUtil: jwtUtil}
	if cfg.Configured() {
		h.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

// GoogleLogin redirects the browser to the Google consent screen
func (h *OAuthHandler) GoogleLogin(c echo.Context) error {
	if h.oauth == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "OAuth sign-in not available"})
	}

	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})

	return c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// GoogleCallback exchanges the authorization code, upserts the user and
// issues the same session token as credential login
func (h *OAuthHandler) GoogleCallback(c echo.Context) error {
	log := logger.FromEcho(c)

	if h.oauth == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "OAuth sign-in not available"})
	}

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		log.Warn("OAuth state mismatch")
		prometheus.RecordAuthError("oauth_state_mismatch")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid oauth state"})
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing authorization code"})
	}

	token, err := h.oauth.Exchange(c.Request().Context(), code)
	if err != nil {
		log.Error("OAuth code exchange failed", zap.Error(err))
		prometheus.RecordAuthError("oauth_exchange_failed")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "oauth exchange failed"})
	}

	client := h.oauth.Client(c.Request().Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		log.Error("Failed to fetch user info", zap.Error(err))
		prometheus.RecordAuthError("oauth_userinfo_failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to fetch user info"})
	}
	defer resp.Body.Close()

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		log.Error("Invalid user info response", zap.Error(err))
		prometheus.RecordAuthError("oauth_userinfo_invalid")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "invalid user info"})
	}

	user, err := h.store.GetUserByEmail(c.Request().Context(), info.Email)
	switch {
	case err == nil:
		// Existing account, sign in.
	case errors.Is(err, store.ErrNotFound):
		user = &model.User{
			Email: info.Email,
			Name:  info.Name,
			Role:  model.RoleUser,
		}
		if err := h.store.CreateUser(c.Request().Context(), user); err != nil {
			log.Error("Failed to create OAuth user", zap.Error(err))
			return c.JSON(statusForError(err), echo.Map{"error": "registration failed"})
		}
		log.Info("User registered via Google", zap.String("email", user.Email))
	case errors.Is(err, store.ErrBackendUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Authentication not available in demo mode"})
	default:
		log.Error("Failed to look up OAuth user", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "sign-in failed"})
	}

	sessionToken, err := h.jwtUtil.GenerateToken(user.Email, user.ID, user.Name, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in via Google", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": sessionToken,
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
