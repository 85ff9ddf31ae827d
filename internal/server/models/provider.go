package models

import "time"

// OIDCProvider is a third-party identity provider configuration.
// ClientSecret is stored encrypted at rest in the 4-segment
// salt:iv:tag:ciphertext hex format (see the secrets package).
type OIDCProvider struct {
	ID           string
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	CreatedAt    time.Time
}
