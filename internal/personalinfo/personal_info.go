package personalinfo

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("personal info not found")

// PersonalInfo is the single profile record shown on the public pages.
type PersonalInfo struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	Intro     string    `json:"intro"`
	Avatar    string    `json:"avatar"`
	Github    string    `json:"github"`
	Linkedin  string    `json:"linkedin"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
