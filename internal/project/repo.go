package project

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const projectColumns = `id, title, description, date, duration, year, tags, slug, link, live_demo, github, image,
	demo_link, cover_image, content, overview, challenge, solution, impact, platform, pypi_url, api_docs_url,
	created_at, updated_at`

var _ projectRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context, limit int) ([]*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.List")
	span.SetAttributes(attribute.Int("limit", limit))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return notFoundOr(scanProject(row))
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.GetBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	return notFoundOr(scanProject(row))
}

func (r *Repo) Create(ctx context.Context, p *Project) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.Create")
	defer span.End()

	p.normalize()
	err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO projects (
				title, description, date, duration, year, tags, slug, link, live_demo, github, image,
				demo_link, cover_image, content, overview, challenge, solution, impact, platform, pypi_url, api_docs_url
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			RETURNING id, created_at, updated_at
		`,
		p.Title, p.Description, p.Date, p.Duration, p.Year, p.Tags, p.Slug, p.Link, p.LiveDemo, p.Github, p.Image,
		p.DemoLink, p.CoverImage, p.Content, p.Overview, p.Challenge, p.Solution, p.Impact, p.Platform, p.PypiURL, p.APIDocsURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert project: %w", err)
	}

	span.SetAttributes(attribute.Int("id", p.ID))
	return nil
}

// Update overwrites every editable field of project id; created_at is kept.
func (r *Repo) Update(ctx context.Context, id int, p *Project) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.Update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	p.normalize()
	err := r.db.QueryRow(
		ctx,
		`
			UPDATE projects SET
				title = $1, description = $2, date = $3, duration = $4, year = $5, tags = $6, slug = $7,
				link = $8, live_demo = $9, github = $10, image = $11, demo_link = $12, cover_image = $13,
				content = $14, overview = $15, challenge = $16, solution = $17, impact = $18, platform = $19,
				pypi_url = $20, api_docs_url = $21, updated_at = NOW()
			WHERE id = $22
			RETURNING id, created_at, updated_at
		`,
		p.Title, p.Description, p.Date, p.Duration, p.Year, p.Tags, p.Slug, p.Link, p.LiveDemo, p.Github, p.Image,
		p.DemoLink, p.CoverImage, p.Content, p.Overview, p.Challenge, p.Solution, p.Impact, p.Platform, p.PypiURL, p.APIDocsURL,
		id,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case pkg.IsNoRowsError(err):
			return ErrProjectNotFound
		case pkg.IsUniqueViolationError(err):
			return ErrSlugTaken
		}
		return fmt.Errorf("update project %d: %w", id, err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Date, &p.Duration, &p.Year, &p.Tags, &p.Slug, &p.Link,
		&p.LiveDemo, &p.Github, &p.Image, &p.DemoLink, &p.CoverImage, &p.Content, &p.Overview,
		&p.Challenge, &p.Solution, &p.Impact, &p.Platform, &p.PypiURL, &p.APIDocsURL,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.normalize()
	return p, nil
}

func notFoundOr(p *Project, err error) (*Project, error) {
	if pkg.IsNoRowsError(err) {
		return nil, ErrProjectNotFound
	}
	return p, err
}
