package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"personahub/internal/app"
	"personahub/internal/ratelimit"
	"personahub/internal/util"
	"personahub/pkg/auth"
	"personahub/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App    *app.App
	Tokens *auth.TokenManager

	SignupLimiter   *ratelimit.FixedWindowLimiter
	LoginLimiter    *ratelimit.FixedWindowLimiter
	GenerateLimiter *ratelimit.FixedWindowLimiter
}

// Server exposes the HTTP API.
type Server struct {
	app    *app.App
	tokens *auth.TokenManager
	mux    *http.ServeMux

	signupLimiter   *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
	generateLimiter *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:             cfg.App,
		tokens:          cfg.Tokens,
		mux:             http.NewServeMux(),
		signupLimiter:   cfg.SignupLimiter,
		loginLimiter:    cfg.LoginLimiter,
		generateLimiter: cfg.GenerateLimiter,
	}
	s.routes()
	return s
}

// Router returns the configured handler with common middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/verify-email", s.handleVerifyEmail)
	s.mux.Handle("/api/users/me", s.authenticated(s.handleMe))

	// characters
	s.mux.Handle("/api/characters", s.authenticated(s.handleCharacters))
	s.mux.Handle("/api/characters/public", s.authenticated(s.handlePublicCharacters))
	s.mux.Handle("/api/characters/reorder", s.authenticated(s.handleReorderCharacters))
	s.mux.Handle("/api/characters/", s.authenticated(s.handleCharacterByID))

	// chat
	s.mux.Handle("/api/chat/message/", s.authenticated(s.handleMessageByID))
	s.mux.Handle("/api/chat/", s.authenticated(s.handleCharacterChat))

	// notifications
	s.mux.Handle("/api/notifications", s.authenticated(s.handleNotifications))
	s.mux.Handle("/api/notifications/read-all", s.authenticated(s.handleNotificationsReadAll))
	s.mux.Handle("/api/notifications/", s.authenticated(s.handleNotificationByID))

	// preferences
	s.mux.Handle("/api/preferences", s.authenticated(s.handlePreferences))

	// moderation
	s.mux.Handle("/api/moderation/pending", s.moderatorOnly(s.handlePendingList))
	s.mux.Handle("/api/moderation/pending/", s.moderatorOnly(s.handlePendingDecision))

	// admin
	s.mux.Handle("/api/admin/users", s.adminOnly(s.handleAdminUsers))
	s.mux.Handle("/api/admin/users/", s.adminOnly(s.handleAdminUserByID))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) moderatorOnly(next authHandler) http.Handler {
	return s.requireRole(domain.RoleModerator, next)
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return s.requireRole(domain.RoleAdmin, next)
}

func (s *Server) requireRole(min domain.Role, next authHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		if !user.Role.AtLeast(min) {
			s.audit(r, "authorize.role", "fail", "user_id", user.ID, "required", string(min))
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.User{}, false
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.audit(r, "token.verify", "fail", "reason", "invalid_signature_or_claims")
		return domain.User{}, false
	}
	user, ok := s.app.UserFromID(userID)
	if !ok {
		s.audit(r, "token.verify", "fail", "reason", "unknown_or_blocked_user", "user_id", userID)
		return domain.User{}, false
	}
	return user, true
}

// auth handlers
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.signupLimiter, "too many signup attempts") {
		s.audit(r, "signup", "rate_limited")
		return
	}
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.SignUp(req.Email, req.Username, req.Password)
	if err != nil {
		s.audit(r, "signup", "fail", "reason", err.Error())
		writeAppError(w, err)
		return
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.audit(r, "signup", "success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		s.audit(r, "login", "rate_limited")
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.audit(r, "login", "fail", "reason", err.Error())
		status := http.StatusUnauthorized
		if errors.Is(err, app.ErrAccountBlocked) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.audit(r, "login", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req verifyEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.VerifyEmail(req.Token)
	if err != nil {
		s.audit(r, "verify_email", "fail", "reason", err.Error())
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.audit(r, "verify_email", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// character handlers
func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		characters, err := s.app.ListCharacters(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": characters,
			"count": len(characters),
		})
	case http.MethodPost:
		var req characterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		character, err := s.app.CreateCharacter(user, app.CharacterInput{
			Name:               req.Name,
			SystemPrompt:       req.SystemPrompt,
			Personality:        req.Personality,
			Backstory:          req.Backstory,
			CustomInstructions: req.CustomInstructions,
			IsPublic:           req.IsPublic,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, character)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handlePublicCharacters(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	characters, err := s.app.ListPublicCharacters()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": characters,
		"count": len(characters),
	})
}

func (s *Server) handleReorderCharacters(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.app.ReorderCharacters(user, req.IDs); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCharacterByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/characters/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if action == "submit" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		pending, err := s.app.SubmitForReview(user, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, pending)
		return
	}
	if action != "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		character, err := s.app.GetCharacter(user, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, character)
	case http.MethodPatch:
		var req characterUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		character, err := s.app.UpdateCharacter(user, id, app.CharacterUpdate{
			Name:               req.Name,
			SystemPrompt:       req.SystemPrompt,
			Personality:        req.Personality,
			Backstory:          req.Backstory,
			CustomInstructions: req.CustomInstructions,
			IsPublic:           req.IsPublic,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, character)
	case http.MethodDelete:
		if err := s.app.DeleteCharacter(user, id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// chat handlers
func (s *Server) handleCharacterChat(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chat/")
	characterID, action, _ := strings.Cut(rest, "/")
	if characterID == "" {
		http.NotFound(w, r)
		return
	}
	switch action {
	case "generate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if !s.allowRate(w, r, s.generateLimiter, "too many generation requests") {
			s.audit(r, "chat.generate", "rate_limited", "user_id", user.ID)
			return
		}
		var req generateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := s.app.Generate(r.Context(), user, characterID, req.Model)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	case "messages":
		switch r.Method {
		case http.MethodGet:
			messages, err := s.app.ListCharacterMessages(user, characterID)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"items": messages,
				"count": len(messages),
			})
		case http.MethodPost:
			var req messageRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			msg, err := s.app.AppendUserMessage(user, characterID, req.Content)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, msg)
		default:
			methodNotAllowed(w)
		}
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleMessageByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chat/message/")
	messageID, action, _ := strings.Cut(rest, "/")
	if messageID == "" {
		http.NotFound(w, r)
		return
	}
	switch action {
	case "regenerate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if !s.allowRate(w, r, s.generateLimiter, "too many generation requests") {
			s.audit(r, "chat.regenerate", "rate_limited", "user_id", user.ID)
			return
		}
		var req generateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := s.app.Regenerate(r.Context(), user, messageID, req.Model)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	case "reactions":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req reactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := s.app.ReactToMessage(user, messageID, req.Emoji)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	case "":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if err := s.app.DeleteMessage(user, messageID); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// notification handlers
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	notifications, err := s.app.ListNotifications(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": notifications,
		"count": len(notifications),
	})
}

func (s *Server) handleNotificationsReadAll(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := s.app.MarkAllNotificationsRead(user); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotificationByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch action {
	case "read":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if err := s.app.MarkNotificationRead(user, id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		if err := s.app.DeleteNotification(user, id); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// preference handlers
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		pref, err := s.app.GetPreferences(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, pref)
	case http.MethodPut:
		var req preferenceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		pref, err := s.app.UpdatePreferences(user, req.SelectedCharID, req.ChatTheme)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pref)
	default:
		methodNotAllowed(w)
	}
}

// moderation handlers
func (s *Server) handlePendingList(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	pending, err := s.app.ListPendingCharacters(user)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": pending,
		"count": len(pending),
	})
}

func (s *Server) handlePendingDecision(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/moderation/pending/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || action == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	switch action {
	case "approve":
		pending, err := s.app.ApprovePending(r.Context(), user, id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		s.audit(r, "moderation.approve", "success", "user_id", user.ID, "pending_id", id)
		writeJSON(w, http.StatusOK, pending)
	case "reject":
		var req rejectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		pending, err := s.app.RejectPending(r.Context(), user, id, req.Reason)
		if err != nil {
			writeAppError(w, err)
			return
		}
		s.audit(r, "moderation.reject", "success", "user_id", user.ID, "pending_id", id)
		writeJSON(w, http.StatusOK, pending)
	default:
		http.NotFound(w, r)
	}
}

// admin handlers
func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	users, err := s.app.ListUsers(user)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": users,
		"count": len(users),
	})
}

func (s *Server) handleAdminUserByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req adminUserUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		update := app.AdminUserUpdate{
			Blocked:      req.Blocked,
			BlockedUntil: req.BlockedUntil,
		}
		if req.Role != "" {
			role, ok := domain.ParseRole(req.Role)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid role")
				return
			}
			update.Role = &role
		}
		if update.Role == nil && update.Blocked == nil {
			writeError(w, http.StatusBadRequest, "role or blocked is required")
			return
		}
		updated, err := s.app.AdminUpdateUser(user, id, update)
		if err != nil {
			writeAppError(w, err)
			return
		}
		s.audit(r, "admin.user.update", "success", "user_id", user.ID, "target_id", id)
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.app.AdminDeleteUser(user, id); err != nil {
			writeAppError(w, err)
			return
		}
		s.audit(r, "admin.user.delete", "success", "user_id", user.ID, "target_id", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", clientIP(r),
		"request_id", util.RequestIDFromRequest(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + clientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func clientIP(r *http.Request) string {
	if xfwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xfwd != "" {
		parts := strings.Split(xfwd, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

// writeAppError maps application sentinels to HTTP statuses. Ownership
// failures share ErrNotFound with plain missing entities, so both come out
// as 404.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, app.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, app.ErrNoPriorUserMessage),
		errors.Is(err, app.ErrValidation),
		errors.Is(err, app.ErrEmailAlreadyExists),
		errors.Is(err, app.ErrUsernameAlreadyExists),
		errors.Is(err, app.ErrInvalidVerifyToken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrCompletionFailed),
		errors.Is(err, app.ErrPersistenceFailed):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type characterRequest struct {
	Name               string `json:"name"`
	SystemPrompt       string `json:"systemPrompt"`
	Personality        string `json:"personality"`
	Backstory          string `json:"backstory"`
	CustomInstructions string `json:"customInstructions"`
	IsPublic           bool   `json:"isPublic"`
}

type characterUpdateRequest struct {
	Name               *string `json:"name"`
	SystemPrompt       *string `json:"systemPrompt"`
	Personality        *string `json:"personality"`
	Backstory          *string `json:"backstory"`
	CustomInstructions *string `json:"customInstructions"`
	IsPublic           *bool   `json:"isPublic"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type generateRequest struct {
	Model string `json:"model"`
}

type messageRequest struct {
	Content string `json:"content"`
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

type preferenceRequest struct {
	SelectedCharID string `json:"selectedCharId"`
	ChatTheme      string `json:"chatTheme"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type adminUserUpdateRequest struct {
	Role         string     `json:"role"`
	Blocked      *bool      `json:"blocked"`
	BlockedUntil *time.Time `json:"blockedUntil"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}
