package models

import "time"

// Token is a time-limited bearer credential bound to one account.
type Token struct {
	Phone   string `json:"phone"`
	ID      string `json:"id"`
	Expires int64  `json:"expires"` // milliseconds since epoch
}

// Expired reports whether the token's expiry is at or before now.
func (t Token) Expired(now time.Time) bool {
	return t.Expires <= now.UnixMilli()
}
