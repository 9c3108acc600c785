// Package models holds the client-side view of API payloads.
package models

import (
	"fmt"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"fname"`
	LastName  string    `json:"lname"`
	Email     string    `json:"email"`
	Age       *float64  `json:"age,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthenticatedUser is the login response: the user plus a token pair.
type AuthenticatedUser struct {
	User
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Description string    `json:"desc"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// String renders one list line.
func (t Task) String() string {
	return fmt.Sprintf("%s  [%s]  %s", t.ID, t.Status, t.Title)
}
