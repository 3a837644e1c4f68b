package auth

import "time"

// Identity is a verified external principal, keyed by the identity
// provider's subject identifier. The email was verified by the provider
// before the record was first stored.
type Identity struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}
