// Package models defines the persistent domain records of the
// authentication service.
package models

import "time"

// UserStatus enumerates the lifecycle states of a user account.
type UserStatus string

const (
	UserStatusPendingVerification UserStatus = "pending_verification"
	UserStatusActive              UserStatus = "active"
	UserStatusInactive            UserStatus = "inactive"
)

// User is the identity aggregate stored in the "users" table. Email is
// unique and kept case-normalized; PasswordHash is never empty once set.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Status            UserStatus
	EmailVerifiedAt   *time.Time
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// Activate moves the account into the active state.
func (u *User) Activate() { u.Status = UserStatusActive }

// Deactivate suspends the account without deleting it.
func (u *User) Deactivate() { u.Status = UserStatusInactive }

// VerifyEmail marks the email as verified and activates a pending account.
// Calling it on an already verified account changes nothing.
func (u *User) VerifyEmail(now time.Time) {
	if u.EmailVerifiedAt == nil {
		u.EmailVerifiedAt = &now
	}
	if u.Status == UserStatusPendingVerification {
		u.Status = UserStatusActive
	}
}

// RecordLogin stores the timestamp of a successful authentication.
func (u *User) RecordLogin(now time.Time) { u.LastLoginAt = &now }

// ChangePassword replaces the stored hash and records when it happened.
func (u *User) ChangePassword(hash string, now time.Time) {
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
}
