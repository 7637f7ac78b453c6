package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/authpw"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/config"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/search"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

type HTTPServer struct {
	service *Service
	cfg     config.Config
}

func NewHTTPServer(service *Service, cfg config.Config) *HTTPServer {
	return &HTTPServer{service: service, cfg: cfg}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		s.handleReady(w, r)
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signup" {
		s.handleSignUp(w, r)
		return
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		s.handleSignIn(w, r)
		return
	}

	// Session probe; unauthenticated callers get {user: null}, not 401.
	if r.Method == http.MethodGet && r.URL.Path == "/api/auth/user" {
		user, ok := s.sessionUser(r)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"user": nil})
			return
		}
		view := toUserView(user)
		writeJSON(w, http.StatusOK, map[string]any{"user": &view})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/locations/search" {
		s.handleLocationSearch(w, r)
		return
	}

	// Everything below needs a session.
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signout" {
		if cookie, err := r.Cookie(s.cfg.CookieName); err == nil {
			if err := s.service.DestroySession(r.Context(), cookie.Value); err != nil {
				log.Printf("signout: destroy session: %v", err)
			}
		}
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	if r.Method == http.MethodPut && r.URL.Path == "/api/profile" {
		var input UpdateProfileInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.respond(w, func() (any, error) {
			view, err := s.service.UpdateProfile(r.Context(), user, input)
			return map[string]any{"user": view}, err
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/profile/avatar" {
		s.handleAvatarUpload(w, r, user)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/rides":
		var input CreateRideInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.respondStatus(w, http.StatusCreated, func() (any, error) {
			view, err := s.service.CreateRide(r.Context(), user, input)
			return map[string]any{"ride": view}, err
		})
		return

	case r.Method == http.MethodGet && r.URL.Path == "/api/rides":
		query := r.URL.Query()
		s.respond(w, func() (any, error) {
			rides, err := s.service.FindRides(r.Context(), query.Get("from"), query.Get("to"), query.Get("date"))
			return map[string]any{"rides": rides}, err
		})
		return

	case r.Method == http.MethodGet && r.URL.Path == "/api/rides/mine":
		s.respond(w, func() (any, error) {
			rides, err := s.service.MyRides(r.Context(), user.ID)
			return map[string]any{"rides": rides}, err
		})
		return

	case r.Method == http.MethodPost && r.URL.Path == "/api/ride-requests":
		var input CreateRideRequestInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.respondStatus(w, http.StatusCreated, func() (any, error) {
			view, err := s.service.CreateRideRequest(r.Context(), user, input)
			return map[string]any{"request": view}, err
		})
		return

	case r.Method == http.MethodGet && r.URL.Path == "/api/ride-requests":
		s.respond(w, func() (any, error) {
			requests, err := s.service.OpenRideRequests(r.Context(), user)
			return map[string]any{"requests": requests}, err
		})
		return

	case r.Method == http.MethodGet && r.URL.Path == "/api/ride-requests/mine":
		s.respond(w, func() (any, error) {
			requests, err := s.service.MyRideRequests(r.Context(), user.ID)
			return map[string]any{"requests": requests}, err
		})
		return

	case r.Method == http.MethodPost && r.URL.Path == "/api/bookings":
		var input CreateBookingInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.respondStatus(w, http.StatusCreated, func() (any, error) {
			view, err := s.service.CreateBooking(r.Context(), user, input)
			return map[string]any{"booking": view}, err
		})
		return

	case r.Method == http.MethodGet && r.URL.Path == "/api/bookings":
		s.respond(w, func() (any, error) {
			bookings, err := s.service.MyBookings(r.Context(), user.ID)
			return map[string]any{"bookings": bookings}, err
		})
		return

	case r.Method == http.MethodGet && r.URL.Path == "/api/notifications":
		s.respond(w, func() (any, error) {
			return s.service.Notifications(r.Context(), user.ID)
		})
		return

	case r.Method == http.MethodPut && r.URL.Path == "/api/notifications/read-all":
		s.respond(w, func() (any, error) {
			err := s.service.MarkAllNotificationsRead(r.Context(), user.ID)
			return map[string]any{"success": err == nil}, err
		})
		return

	case r.Method == http.MethodPost && r.URL.Path == "/api/messages":
		var input SendMessageInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.respondStatus(w, http.StatusCreated, func() (any, error) {
			view, err := s.service.SendMessage(r.Context(), user, input)
			return map[string]any{"message": view}, err
		})
		return

	case r.Method == http.MethodPost && r.URL.Path == "/api/ratings":
		var input SubmitRatingInput
		if err := decodeBody(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		s.respondStatus(w, http.StatusCreated, func() (any, error) {
			view, err := s.service.SubmitRating(r.Context(), user, input)
			return map[string]any{"rating": view}, err
		})
		return
	}

	// Parametrized routes.
	parts := splitPath(r.URL.Path)
	if len(parts) >= 3 && parts[0] == "api" {
		switch parts[1] {
		case "rides":
			if r.Method == http.MethodPut && len(parts) == 3 {
				var input UpdateRideInput
				if err := decodeBody(r, &input); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				s.respond(w, func() (any, error) {
					view, err := s.service.UpdateRide(r.Context(), user, parts[2], input)
					return map[string]any{"ride": view}, err
				})
				return
			}
			if r.Method == http.MethodPut && len(parts) == 4 && parts[3] == "cancel" {
				s.respond(w, func() (any, error) {
					err := s.service.CancelRide(r.Context(), user, parts[2])
					return map[string]any{"success": err == nil}, err
				})
				return
			}

		case "ride-requests":
			if r.Method == http.MethodPut && len(parts) == 4 && parts[3] == "cancel" {
				s.respond(w, func() (any, error) {
					err := s.service.CancelRideRequest(r.Context(), user, parts[2])
					return map[string]any{"success": err == nil}, err
				})
				return
			}
			if r.Method == http.MethodPost && len(parts) == 4 && parts[3] == "offers" {
				var input CounterOfferInput
				if err := decodeBody(r, &input); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				s.respondStatus(w, http.StatusCreated, func() (any, error) {
					view, err := s.service.CreateCounterOffer(r.Context(), user, parts[2], input)
					return map[string]any{"booking": view}, err
				})
				return
			}

		case "bookings":
			if r.Method == http.MethodPut && len(parts) == 3 {
				var input struct {
					Status string `json:"status"`
				}
				if err := decodeBody(r, &input); err != nil {
					writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
					return
				}
				s.respond(w, func() (any, error) {
					view, err := s.service.UpdateBookingStatus(r.Context(), user, parts[2], input.Status)
					return map[string]any{"booking": view}, err
				})
				return
			}

		case "notifications":
			if r.Method == http.MethodPut && len(parts) == 4 && parts[3] == "read" {
				s.respond(w, func() (any, error) {
					err := s.service.MarkNotificationRead(r.Context(), user.ID, parts[2])
					return map[string]any{"success": err == nil}, err
				})
				return
			}

		case "messages":
			if r.Method == http.MethodGet && len(parts) == 3 {
				s.respond(w, func() (any, error) {
					messages, err := s.service.Messages(r.Context(), user, parts[2])
					return map[string]any{"messages": messages}, err
				})
				return
			}
			if r.Method == http.MethodPut && len(parts) == 4 && parts[3] == "read" {
				s.respond(w, func() (any, error) {
					err := s.service.MarkMessagesRead(r.Context(), user, parts[2])
					return map[string]any{"success": err == nil}, err
				})
				return
			}

		case "users":
			if r.Method == http.MethodGet && len(parts) == 4 && parts[3] == "ratings" {
				s.respond(w, func() (any, error) {
					return s.service.UserRatings(r.Context(), parts[2])
				})
				return
			}
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"database": map[string]any{"status": "ok"},
		"sessions": map[string]any{"status": "ok"},
	}

	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = map[string]any{"status": "error", "error": err.Error()}
	}
	if err := s.service.PingSessions(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["sessions"] = map[string]any{"status": "error", "error": err.Error()}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var input authpw.SignUpRequest
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	user, err := s.service.AuthService().SignUp(r.Context(), input)
	if err != nil {
		if errors.Is(err, authpw.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "SIGNUP_FAILED", err.Error(), nil)
		return
	}

	sessionID, expiresAt, err := s.service.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to create session", nil)
		return
	}
	s.setSessionCookie(w, sessionID, expiresAt)

	view := toUserView(user)
	writeJSON(w, http.StatusCreated, map[string]any{"user": &view})
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	user, err := s.service.AuthService().SignIn(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}

	sessionID, expiresAt, err := s.service.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to create session", nil)
		return
	}
	s.setSessionCookie(w, sessionID, expiresAt)

	view := toUserView(user)
	writeJSON(w, http.StatusOK, map[string]any{"user": &view})
}

func (s *HTTPServer) handleLocationSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if s.service.search == nil {
		writeJSON(w, http.StatusOK, search.Response{Suggestions: []search.Suggestion{}, Query: query})
		return
	}
	response := s.service.search.Search(r.Context(), search.Query{Text: query, Limit: 10})
	writeJSON(w, http.StatusOK, response)
}

func (s *HTTPServer) handleAvatarUpload(w http.ResponseWriter, r *http.Request, user store.User) {
	const maxUploadBytes = 6 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "An avatar file is required", nil)
		return
	}
	defer file.Close()

	s.respond(w, func() (any, error) {
		view, err := s.service.UploadAvatar(r.Context(), user, header.Header.Get("Content-Type"), file, header.Size)
		return map[string]any{"user": view}, err
	})
}

// respond runs fn and writes either its payload or the mapped error.
func (s *HTTPServer) respond(w http.ResponseWriter, fn func() (any, error)) {
	s.respondStatus(w, http.StatusOK, fn)
}

func (s *HTTPServer) respondStatus(w http.ResponseWriter, status int, fn func() (any, error)) {
	payload, err := fn()
	if err != nil {
		st, code, message, details := mapError(err)
		writeError(w, st, code, message, details)
		return
	}
	writeJSON(w, status, payload)
}

// sessionUser resolves the session cookie to a user without writing a
// response on failure.
func (s *HTTPServer) sessionUser(r *http.Request) (store.User, bool) {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return store.User{}, false
	}
	user, err := s.service.UserFromSession(r.Context(), cookie.Value)
	if err != nil {
		return store.User{}, false
	}
	return user, true
}

func (s *HTTPServer) requireUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	user, ok := s.sessionUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return store.User{}, false
	}
	return user, true
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.cfg.CORSOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Access-Control-Allow-Credentials", "true")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNoSeats) {
		return http.StatusBadRequest, "VALIDATION_ERROR", "Not enough seats available", nil
	}
	if errors.Is(err, store.ErrDuplicateRating) {
		return http.StatusConflict, "CONFLICT", "You have already rated this booking", nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
