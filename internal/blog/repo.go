package blog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

// manual caching of blog posts not needed (at least for this use case):
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

const blogColumns = `id, title, description, excerpt, date, year, slug, link, cover_image, tags, read_time, content,
	created_at, updated_at`

var _ blogRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Latest(ctx context.Context, limit int) ([]*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Latest")
	span.SetAttributes(attribute.Int("limit", limit))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+blogColumns+` FROM blogs ORDER BY date DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2blogs(rows)
}

func (r *Repo) BlogsCount(ctx context.Context) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.BlogsCount")
	defer span.End()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

// GetBlogsPage returns the posts of the 1-based page, newest first.
func (r *Repo) GetBlogsPage(ctx context.Context, page, size int) ([]*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetBlogsPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	offset := (page - 1) * size
	log.Tracef("getting blogs, limit %d, offset %d", size, offset)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+blogColumns+` FROM blogs
			ORDER BY date DESC, id DESC
			LIMIT $1
			OFFSET $2;
		`,
		size,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2blogs(rows)
}

func (r *Repo) GetBlog(ctx context.Context, id int) (*Blog, error) {
	log.Tracef("getting blog %d", id)

	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetBlog")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	row := r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id)
	return notFoundOr(scanBlog(row))
}

func (r *Repo) GetBlogBySlug(ctx context.Context, slug string) (*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetBlogBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	row := r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug)
	return notFoundOr(scanBlog(row))
}

// AddBlog inserts the post; an unset date defaults to today.
func (r *Repo) AddBlog(ctx context.Context, blog *Blog) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.AddBlog")
	defer span.End()

	blog.normalize()
	err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO blogs (title, description, excerpt, date, year, slug, link, cover_image, tags, read_time, content)
			VALUES ($1, $2, $3, COALESCE($4, CURRENT_DATE), $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, date, created_at, updated_at
		`,
		blog.Title, blog.Description, blog.Excerpt, toPgDate(blog.Date), blog.Year, blog.Slug, blog.Link,
		blog.CoverImage, blog.Tags, blog.ReadTime, blog.Content,
	).Scan(&blog.ID, &blog.Date.Time, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert blog: %w", err)
	}

	span.SetAttributes(attribute.Int("id", blog.ID))
	return nil
}

// UpdateBlog overwrites the editable fields of the blog; created_at is kept and
// an unset date keeps the stored one.
func (r *Repo) UpdateBlog(ctx context.Context, id int, blog *Blog) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.UpdateBlog")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	blog.normalize()
	err := r.db.QueryRow(
		ctx,
		`
			UPDATE blogs SET
				title = $1, description = $2, excerpt = $3, date = COALESCE($4, date), year = $5, slug = $6,
				link = $7, cover_image = $8, tags = $9, read_time = $10, content = $11, updated_at = NOW()
			WHERE id = $12
			RETURNING id, date, created_at, updated_at
		`,
		blog.Title, blog.Description, blog.Excerpt, toPgDate(blog.Date), blog.Year, blog.Slug,
		blog.Link, blog.CoverImage, blog.Tags, blog.ReadTime, blog.Content,
		id,
	).Scan(&blog.ID, &blog.Date.Time, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case pkg.IsNoRowsError(err):
			return ErrBlogNotFound
		case pkg.IsUniqueViolationError(err):
			return ErrSlugTaken
		}
		return fmt.Errorf("update blog %d: %w", id, err)
	}

	return nil
}

func (r *Repo) DeleteBlog(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.DeleteBlog")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// AddView records a view; a missing blog surfaces as ErrBlogNotFound through the foreign key.
func (r *Repo) AddView(ctx context.Context, view View) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.AddView")
	span.SetAttributes(attribute.Int("blog.id", view.BlogID))
	defer span.End()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO blog_views (blog_id, viewer_identifier, ip_address, user_agent) VALUES ($1, $2, $3, $4)`,
		view.BlogID, view.ViewerIdentifier, view.IPAddress, view.UserAgent,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("insert blog view: %w", err)
	}
	return nil
}

func (r *Repo) ViewsCount(ctx context.Context, blogID int) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.ViewsCount")
	span.SetAttributes(attribute.Int("blog.id", blogID))
	defer span.End()

	var views int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blog_views WHERE blog_id = $1`, blogID).Scan(&views); err != nil {
		return -1, err
	}
	return views, nil
}

func (r *Repo) ClearViews(ctx context.Context, blogID int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.ClearViews")
	span.SetAttributes(attribute.Int("blog.id", blogID))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM blog_views WHERE blog_id = $1`, blogID)
	if err != nil {
		return err
	}
	log.Tracef("cleared %d views of blog %d", tag.RowsAffected(), blogID)
	return nil
}

func (r *Repo) rows2blogs(rows pgx.Rows) ([]*Blog, error) {
	blogs := []*Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

func scanBlog(row pgx.Row) (*Blog, error) {
	b := &Blog{}
	if err := row.Scan(
		&b.ID, &b.Title, &b.Description, &b.Excerpt, &b.Date.Time, &b.Year, &b.Slug, &b.Link,
		&b.CoverImage, &b.Tags, &b.ReadTime, &b.Content, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.normalize()
	return b, nil
}

func notFoundOr(b *Blog, err error) (*Blog, error) {
	if pkg.IsNoRowsError(err) {
		return nil, ErrBlogNotFound
	}
	return b, err
}

func toPgDate(d Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}
