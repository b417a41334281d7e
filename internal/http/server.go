package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Happday-bot/intellexa-user/internal/auth"
	"github.com/Happday-bot/intellexa-user/internal/config"
)

type Server struct {
	cfg      config.Config
	store    Store
	secret   []byte
	denylist Denylist
}

// NewServer wires the handlers. denylist may be nil; the refresh-token
// rotation guard is skipped without it.
func NewServer(cfg config.Config, store Store, secretKey string, denylist Denylist) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		secret:   []byte(secretKey),
		denylist: denylist,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "200 OK", "message": "Working Fine"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Session lifecycle. The /api/auth aliases predate the short routes and
	// deployed clients still call both.
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/refresh", s.handleRefresh)
	r.Post("/api/auth/refresh", s.handleRefresh)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Post("/api/users", s.handleCreateUser)
	r.Post("/api/auth/register", s.handleCreateUser)
	r.Get("/api/users", s.handleListUsers)
	r.Get("/api/users/{userID}", s.handleGetUser)
	r.With(s.authMiddleware).Put("/api/users/{userID}", s.handleUpdateUser)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/api/users/{userID}", s.handleDeleteUser)

	r.Get("/api/events", s.handleListEvents)
	r.Get("/api/events/{eventID}", s.handleGetEvent)
	r.With(s.authMiddleware, s.requireAdmin).Post("/api/events", s.handleCreateEvent)
	r.With(s.authMiddleware, s.requireAdmin).Put("/api/events/{eventID}", s.handleUpdateEvent)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/api/events/{eventID}", s.handleDeleteEvent)

	// Registration and scanning stay open: QR scanner deployments do not
	// send bearer tokens.
	r.Post("/api/events/register", s.handleRegister)
	r.Post("/api/check-in", s.handleCheckIn)

	r.Get("/api/tickets", s.handleListTickets)
	r.Get("/api/tickets/{userID}", s.handleListUserTickets)
	r.With(s.authMiddleware, s.requireAdmin).Delete("/api/tickets/{ticketID}", s.handleDeleteTicket)

	r.Get("/api/team-finder", s.handleListTeamFinderPosts)
	r.With(s.authMiddleware).Post("/api/team-finder", s.handleCreateTeamFinderPost)
	r.With(s.authMiddleware).Delete("/api/team-finder/{postID}", s.handleDeleteTeamFinderPost)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireAdmin)
		r.Get("/stats", s.handleAdminStats)
		r.Get("/check-ins", s.handleListCheckIns)
		r.Post("/check-in/manual", s.handleManualCheckIn)
		r.Post("/register-student", s.handleAdminRegister)
		r.Get("/attendance/{eventID}", s.handleAttendanceReport)
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing access token")
			return
		}
		claims, err := auth.ParseAccessToken(s.secret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Role != "admin" {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Helpers

func decodeJSON(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError keeps the {"detail": ...} envelope deployed clients parse.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeStoreError handles storage failures that are not part of a handler's
// expected outcomes: the store is unreachable or misbehaving.
func writeStoreError(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable, "Service unavailable")
}
