package domain

import "time"

// User is created on first contact and never deleted. The identifier comes
// from the front end (for chat transports, the chat user id).
type User struct {
	ID        string
	Name      string
	Balance   int64
	CreatedAt time.Time
}
