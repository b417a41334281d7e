package http

import (
	"errors"
	"net/http"

	"github.com/Happday-bot/intellexa-user/internal/auth"
	"github.com/Happday-bot/intellexa-user/internal/crypto"
	"github.com/Happday-bot/intellexa-user/internal/model"
)

const refreshCookieName = "intellexa_refresh"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	AccessToken string      `json:"access_token"`
	User        sessionUser `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			loginsTotal.WithLabelValues("failure").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeStoreError(w)
		return
	}
	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := auth.NewAccessToken(s.secret, user.Username, user.ID, user.Role, s.cfg.AccessTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Token error")
		return
	}
	refreshToken, err := auth.NewRefreshToken(s.secret, user.Username, user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Token error")
		return
	}

	http.SetCookie(w, s.refreshCookie(refreshToken, int(s.cfg.RefreshTokenTTL.Seconds())))
	loginsTotal.WithLabelValues("success").Inc()

	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken: accessToken,
		User: sessionUser{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	claims, err := auth.ParseToken(s.secret, cookie.Value)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	// An empty sub and a wrong type share one message: either way the
	// cookie does not hold a usable refresh token.
	if claims.Subject == "" || claims.TokenType != auth.TypeRefresh {
		writeError(w, http.StatusUnauthorized, "Invalid token type")
		return
	}
	if s.denylist != nil && s.denylist.Contains(r.Context(), cookie.Value) {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		writeStoreError(w)
		return
	}

	accessToken, err := auth.NewAccessToken(s.secret, user.Username, user.ID, user.Role, s.cfg.AccessTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Token error")
		return
	}
	refreshToken, err := auth.NewRefreshToken(s.secret, user.Username, user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Token error")
		return
	}

	// Rotation: the superseded token is denylisted for its remaining life.
	if s.denylist != nil && claims.ExpiresAt != nil {
		s.denylist.Add(r.Context(), cookie.Value, claims.ExpiresAt.Time)
	}
	http.SetCookie(w, s.refreshCookie(refreshToken, int(s.cfg.RefreshTokenTTL.Seconds())))

	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken: accessToken,
		User: sessionUser{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// The clearing cookie must match path and flags of the original or
	// browsers keep the stale one.
	cookie := s.refreshCookie("", -1)
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// refreshCookie builds the refresh-token cookie. Cross-site delivery over
// TLS needs Secure + SameSite=None; anything else silently drops the cookie
// on cross-origin refresh calls.
func (s *Server) refreshCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	if s.cfg.Production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}
