package project

import (
	"errors"
	"time"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrSlugTaken       = errors.New("project slug already taken")
)

type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Duration    string    `json:"duration"`
	Year        string    `json:"year"`
	Tags        []string  `json:"tags"`
	Slug        string    `json:"slug"`
	Link        string    `json:"link"`
	LiveDemo    string    `json:"live_demo"`
	Github      string    `json:"github"`
	Image       string    `json:"image"`
	DemoLink    string    `json:"demo_link"`
	CoverImage  string    `json:"cover_image"`
	Content     string    `json:"content"`
	Overview    string    `json:"overview"`
	Challenge   string    `json:"challenge"`
	Solution    string    `json:"solution"`
	Impact      string    `json:"impact"`
	Platform    string    `json:"platform"`
	PypiURL     string    `json:"pypi_url"`
	APIDocsURL  string    `json:"api_docs_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the fields the store cannot default.
func (p *Project) Validate() error {
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.Slug == "" {
		return errors.New("slug is required")
	}
	return nil
}

func (p *Project) normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}
