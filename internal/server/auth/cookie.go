package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
)

// SessionMaxAge is the cookie lifetime in seconds; it matches SessionTTL.
const SessionMaxAge = int(SessionTTL / time.Second)

// SessionCookie renders the Set-Cookie value carrying token.
func SessionCookie(token string) string {
	return fmt.Sprintf("%s=%s; HttpOnly; Secure; SameSite=Strict; Path=/; Max-Age=%d",
		common.SessionCookieName, token, SessionMaxAge)
}

// ClearSessionCookie renders the Set-Cookie value that removes the session.
func ClearSessionCookie() string {
	return fmt.Sprintf("%s=; HttpOnly; Secure; SameSite=Strict; Path=/; Max-Age=0", common.SessionCookieName)
}

// SetSession replaces any Set-Cookie header on w with the session cookie.
func SetSession(w http.ResponseWriter, token string) {
	w.Header().Set("Set-Cookie", SessionCookie(token))
}

// ClearSession replaces any Set-Cookie header on w with the clearing cookie.
func ClearSession(w http.ResponseWriter) {
	w.Header().Set("Set-Cookie", ClearSessionCookie())
}

// SessionToken returns the session cookie value of r, if any.
func SessionToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
