package model

import "time"

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the server; handlers build their own
// response types.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name, 3 to 50 characters.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash including cost and salt.
//	CreatedAt    – timestamp of creation, never updated.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
