package auth

import "time"

// User is an operator account. Passwords are stored as bcrypt hashes.
type User struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// Session binds a Telegram chat to a logged-in user.
type Session struct {
	ChatID    int64
	UserID    int64
	CreatedAt time.Time
}
