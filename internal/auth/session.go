// Package auth issues and verifies forum sessions and signs users in through GitHub OAuth.
package auth

import "time"

// Session identifies the signed-in user of a request. Actions receive it
// explicitly; a nil *Session means the caller is anonymous.
type Session struct {
	UserID    uint      `json:"user_id"`
	Name      *string   `json:"name"`
	Image     *string   `json:"image"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
