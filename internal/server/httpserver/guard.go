package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/logging"
	"github.com/dmitrijs2005/knowledgehub/internal/server/auth"
)

// SessionVerifier checks a session token.
type SessionVerifier interface {
	Verify(token string) (*auth.SessionClaims, error)
}

// AuthGuard gates the admin area on a valid session cookie.
//
//   - no cookie: 302 to the login page
//   - cookie that fails verification: cookie cleared, 302 to the login page
//   - valid cookie: claims attached to the request context
//
// Paths in the allow-list pass through untouched.
type AuthGuard struct {
	verifier     SessionVerifier
	logger       logging.Logger
	allowedPaths map[string]bool
}

func NewAuthGuard(v SessionVerifier, l logging.Logger) *AuthGuard {
	return &AuthGuard{
		verifier: v,
		logger:   l.With("module", "auth_guard"),
		allowedPaths: map[string]bool{
			common.LoginPath:     true,
			common.LoginPostPath: true,
			common.LogoutPath:    true,
		},
	}
}

func (g *AuthGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.allowedPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := auth.SessionToken(r)
		if !ok {
			http.Redirect(w, r, common.LoginPath, http.StatusFound)
			return
		}

		claims, err := g.verifier.Verify(token)
		if err != nil {
			g.logger.Debug(r.Context(), "rejected session", "path", r.URL.Path)
			auth.ClearSession(w)
			http.Redirect(w, r, common.LoginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), claims)))
	})
}
