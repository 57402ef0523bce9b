package contact

import (
	"errors"
	"strings"
	"time"

	"github.com/shoileazeez/portfolio/internal/notify"
)

const (
	DefaultSubject = "Contact Form Submission"
	StatusNew      = "new"
)

var ErrContactNotFound = errors.New("contact not found")

type Contact struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Receipt is what the submitter gets back; message body and status stay private.
type Receipt struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Contact) Validate() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		strings.TrimSpace(c.Message) != ""
}

func (c *Contact) Receipt() Receipt {
	return Receipt{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		CreatedAt: c.CreatedAt,
	}
}

func (c *Contact) notification(submittedSubject string) notify.ContactMessage {
	return notify.ContactMessage{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   submittedSubject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}
