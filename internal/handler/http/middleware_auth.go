package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/service"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/go-chi/chi/v5"
)

const sessionCookie = "jwt"

type kindCtxKey struct{}

// withKind resolves the {kind} path segment and stores it in the request
// context. Unknown kinds are answered with 404.
func (h *Handler) withKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			h.notFound(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), kindCtxKey{}, kind)))
	})
}

// withFixedKind stores kind for routes whose path names it statically.
func (h *Handler) withFixedKind(kind models.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), kindCtxKey{}, kind)))
		})
	}
}

func kindFromContext(ctx context.Context) models.Kind {
	kind, ok := ctx.Value(kindCtxKey{}).(models.Kind)
	if !ok {
		return models.KindUser
	}
	return kind
}

// protect authenticates the request with the bearer token or the session
// cookie and stores the resolved identity and token in the request context.
// On {kind} routes the identity must be of the route's kind.
func (h *Handler) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		identity, token, err := h.services.AuthService.Authenticate(r.Context(), tokenFromRequest(r))
		if err != nil {
			log.Debug().Err(err).Msg("request is not authenticated")
			h.writeError(w, r, err)
			return
		}

		if kind, ok := r.Context().Value(kindCtxKey{}).(models.Kind); ok && identity.Kind != kind {
			log.Debug().Str("identity_kind", identity.Kind.String()).Str("route_kind", kind.String()).Msg("kind mismatch")
			h.writeError(w, r, service.ErrForbidden)
			return
		}

		ctx := utils.WithIdentity(r.Context(), identity)
		ctx = utils.WithToken(ctx, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restrictTo admits only identities carrying one of roles. It must run
// after protect.
func (h *Handler) restrictTo(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok || !slices.Contains(roles, identity.Role) {
				h.writeError(w, r, service.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest prefers "Authorization: Bearer <token>" over the jwt
// cookie. It returns an empty string when neither is present.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// identityFromRequest returns the identity stored by protect.
func identityFromRequest(r *http.Request) (*models.Identity, error) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return identity, nil
}
