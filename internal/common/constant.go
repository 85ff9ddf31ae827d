package common

// SessionCookieName is the httpOnly cookie carrying the session token.
const SessionCookieName = "session_token"

// AuthorizationHeader and BearerPrefix describe the header-style token
// carrier. The cookie carrier takes precedence over the header.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
