package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v4/request"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

// AuthService resolves a bearer token into the current user record. The
// record, not the token claims, is what authorization decisions run on.
type AuthService interface {
	ValidateToken(ctx context.Context, accessToken string) (*entity.User, error)
}

type Middleware struct {
	l    *slog.Logger
	auth AuthService
}

func NewMiddleware(l *slog.Logger, auth AuthService) *Middleware {
	return &Middleware{
		l:    l,
		auth: auth,
	}
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.SetRequestID(ctx, requestID)
		ctx = logger.SetMethod(ctx, r.Method)
		ctx = logger.SetURL(ctx, r.URL.Path)
		ctx = context.WithValue(ctx, entity.CtxKeyLogger{}, m.l)

		w.Header().Set("X-Request-Id", requestID)

		if _, ok := skipLogging[r.URL.Path]; !ok {
			m.l.InfoContext(ctx, "incoming request")
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec != nil {
				m.l.ErrorContext(ctx, "recovered from panic", "panic", rec, "stack", string(debug.Stack()))

				SendJSON(ctx, w, http.StatusInternalServerError,
					Response{Success: false, Message: "internal server error"})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) WithIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err == nil {
				ip = host
			}
		}

		ctx = context.WithValue(ctx, entity.CtxKeyIP{}, ip)
		ctx = logger.SetIP(ctx, ip)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth extracts the bearer token, verifies it and re-fetches the account.
// Deactivated accounts fail here regardless of token validity.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendErr(ctx, w, entity.ErrUnauthorized)
			return
		}

		user, err := m.auth.ValidateToken(ctx, token)
		if err != nil {
			SendErr(ctx, w, err)
			return
		}

		ctx = entity.SetUserToContext(ctx, user)
		ctx = logger.SetUserID(ctx, user.ID.String())
		ctx = context.WithValue(ctx, entity.CtxKeyToken{}, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a subtree on the re-fetched role.
func (m *Middleware) RequireRoles(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := entity.UserFromContext(ctx)
			if err != nil {
				SendErr(ctx, w, err)
				return
			}

			if !slices.Contains(roles, user.Role) {
				SendErr(ctx, w, entity.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePortals gates a subtree on portal membership. Admins pass always.
func (m *Middleware) RequirePortals(portals ...entity.Portal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := entity.UserFromContext(ctx)
			if err != nil {
				SendErr(ctx, w, err)
				return
			}

			if user.Role != entity.RoleAdmin && !slices.Contains(portals, user.Portal) {
				SendErr(ctx, w, entity.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
