// Package models defines server-side records and the request/response
// shapes the services exchange with the HTTP boundary.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"fname"`
	LastName     string    `json:"lname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          *float64  `json:"age,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch carries the profile fields to change; nil means unchanged.
// PasswordHash is filled by the service, never from input.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Age          *float64
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Age == nil && p.PasswordHash == nil
}

// AuthenticatedUser is returned by a successful login: the user record plus
// a freshly issued token pair.
type AuthenticatedUser struct {
	User
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
