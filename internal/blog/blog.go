package blog

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrBlogNotFound = errors.New("blog not found")
	ErrSlugTaken    = errors.New("blog slug already taken")
)

// Date is a calendar day, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts a bare date or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		d.Time = time.Time{}
		return nil
	}

	value := *raw
	if len(value) > len(dateLayout) && strings.Contains(value, "T") {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return err
		}
		d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type Blog struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Excerpt     string    `json:"excerpt"`
	Date        Date      `json:"date"`
	Year        string    `json:"year"`
	Slug        string    `json:"slug"`
	Link        string    `json:"link"`
	CoverImage  string    `json:"cover_image"`
	Tags        []string  `json:"tags"`
	ReadTime    string    `json:"read_time"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *Blog) Validate() error {
	if b.Title == "" {
		return errors.New("title is required")
	}
	if b.Slug == "" {
		return errors.New("slug is required")
	}
	return nil
}

func (b *Blog) normalize() {
	if b.Tags == nil {
		b.Tags = []string{}
	}
}

// View is a single recorded read of a blog post.
type View struct {
	BlogID           int
	ViewerIdentifier string
	IPAddress        string
	UserAgent        string
}

type PostsResponse struct {
	Posts []*Blog `json:"posts"`
	Total int     `json:"total"`
}
