//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoileazeez/portfolio/internal/blog"
	"github.com/shoileazeez/portfolio/internal/contact"
	"github.com/shoileazeez/portfolio/internal/pagedata"
	"github.com/shoileazeez/portfolio/internal/project"
)

func fakeSlug() string {
	return fmt.Sprintf("%s-%d", gofakeit.Word(), gofakeit.Number(1, 1_000_000_000))
}

func (s *IntegrationTestSuite) TestProjects() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	anonymous := s.newHttpClient()
	admin := s.adminClient(ctx)

	newProject := map[string]any{
		"title":       gofakeit.Sentence(3),
		"slug":        fakeSlug(),
		"description": gofakeit.Sentence(12),
		"tags":        []string{"go", "postgres"},
	}

	resp := s.do(ctx, anonymous, http.MethodPost, "/api/projects", newProject)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, string(resp.Body))

	resp = s.do(ctx, admin, http.MethodPost, "/api/projects", newProject)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))
	var created project.Project
	require.NoError(t, resp.decode(&created))
	assert.Positive(t, created.ID)

	resp = s.do(ctx, admin, http.MethodPost, "/api/projects", newProject)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(ctx, anonymous, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "max-age=300")
	var projects []project.Project
	require.NoError(t, resp.decode(&projects))
	require.NotEmpty(t, projects)
	assert.Equal(t, created.ID, projects[0].ID)

	resp = s.do(ctx, anonymous, http.MethodGet, "/api/projects/slug/"+created.Slug, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(ctx, admin, http.MethodDelete, "/api/projects/"+strconv.Itoa(created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(ctx, anonymous, http.MethodGet, "/api/projects/"+strconv.Itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestBlogsAndViews() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	anonymous := s.newHttpClient()
	admin := s.adminClient(ctx)

	resp := s.do(ctx, admin, http.MethodPost, "/api/blogs", map[string]any{
		"title":   gofakeit.Sentence(4),
		"slug":    fakeSlug(),
		"content": gofakeit.Paragraph(2, 3, 10, " "),
		"date":    "2025-02-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))
	var created blog.Blog
	require.NoError(t, resp.decode(&created))

	viewPath := fmt.Sprintf("/api/blogs/%d/view", created.ID)
	for i := 0; i < 3; i++ {
		resp = s.do(ctx, anonymous, http.MethodPost, viewPath, map[string]string{"viewer_identifier": "reader-1"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = s.do(ctx, anonymous, http.MethodGet, viewPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"views":3}`, string(resp.Body))

	resp = s.do(ctx, anonymous, http.MethodPost, "/api/blogs/999999/view", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(ctx, anonymous, http.MethodGet, "/api/blogs/page/1/size/10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page blog.PostsResponse
	require.NoError(t, resp.decode(&page))
	assert.GreaterOrEqual(t, page.Total, 1)

	resp = s.do(ctx, admin, http.MethodDelete, viewPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(ctx, anonymous, http.MethodGet, viewPath, nil)
	assert.JSONEq(t, `{"views":0}`, string(resp.Body))
}

func (s *IntegrationTestSuite) TestContacts() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	anonymous := s.newHttpClient()
	admin := s.adminClient(ctx)

	resp := s.do(ctx, anonymous, http.MethodPost, "/api/contacts", map[string]string{
		"name":    gofakeit.Name(),
		"email":   gofakeit.Email(),
		"message": gofakeit.Sentence(10),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))
	var submitted struct {
		Message string          `json:"message"`
		Contact contact.Receipt `json:"contact"`
	}
	require.NoError(t, resp.decode(&submitted))
	assert.Equal(t, "Contact form submitted successfully", submitted.Message)
	assert.Equal(t, contact.DefaultSubject, submitted.Contact.Subject)

	contactPath := "/api/contacts/" + strconv.Itoa(submitted.Contact.ID)

	resp = s.do(ctx, anonymous, http.MethodGet, contactPath, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(ctx, admin, http.MethodPut, contactPath, map[string]string{"status": "read"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated contact.Contact
	require.NoError(t, resp.decode(&updated))
	assert.Equal(t, "read", updated.Status)

	resp = s.do(ctx, admin, http.MethodDelete, contactPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(ctx, admin, http.MethodGet, contactPath, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAboutPage() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	anonymous := s.newHttpClient()
	admin := s.adminClient(ctx)

	name := gofakeit.Name()
	resp := s.do(ctx, admin, http.MethodPut, "/api/personal-info", map[string]string{
		"name":  name,
		"title": "Engineer",
		"bio":   gofakeit.Sentence(8),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

	resp = s.do(ctx, admin, http.MethodPost, "/api/experience", map[string]any{
		"title":   "Backend Engineer",
		"company": gofakeit.Company(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))

	resp = s.do(ctx, admin, http.MethodDelete, "/api/pages/cache", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(ctx, anonymous, http.MethodGet, "/api/pages/about", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))
	var about pagedata.About
	require.NoError(t, resp.decode(&about))
	require.NotNil(t, about.PersonalInfo)
	assert.Equal(t, name, about.PersonalInfo.Name)
	assert.NotEmpty(t, about.Experience)

	resp = s.do(ctx, anonymous, http.MethodGet, "/api/pages/metadata", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var md pagedata.Metadata
	require.NoError(t, resp.decode(&md))
	assert.Equal(t, name+" - Engineer", md.Title)
}

func (s *IntegrationTestSuite) TestHealth() {
	t := s.T()
	resp := s.do(context.Background(), s.newHttpClient(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","postgres":"ok","redis":"ok"}`, string(resp.Body))
}
