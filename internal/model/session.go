package model

import "time"

// Session is the outcome of a login-family call or a refresh: a token pair
// plus the identity it was minted for.
type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             User
}
