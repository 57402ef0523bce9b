package experience

import (
	"errors"
	"time"
)

var ErrExperienceNotFound = errors.New("experience not found")

type Experience struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Period       string    `json:"period"`
	Description  string    `json:"description"`
	Achievements []string  `json:"achievements"`
	Technologies []string  `json:"technologies"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Experience) normalize() {
	if e.Achievements == nil {
		e.Achievements = []string{}
	}
	if e.Technologies == nil {
		e.Technologies = []string{}
	}
}
