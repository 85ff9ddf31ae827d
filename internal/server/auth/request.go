package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/linkmark/internal/common"
)

// FromRequest extracts the session token from an inbound request. The
// cookie carrier is checked first and takes precedence over the
// Authorization header; the second return value is false when neither
// carrier holds a token.
func FromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	header := r.Header.Get(common.AuthorizationHeader)
	if strings.HasPrefix(header, common.BearerPrefix) {
		if token := strings.TrimPrefix(header, common.BearerPrefix); token != "" {
			return token, true
		}
	}

	return "", false
}
