package contact

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const contactColumns = `id, name, email, subject, message, status, created_at, updated_at`

var _ contactRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores a submission. An empty subject gets DefaultSubject.
func (r *Repo) Add(ctx context.Context, c *Contact) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.Add")
	defer span.End()

	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO contacts (name, email, subject, message)
			VALUES ($1, $2, $3, $4)
			RETURNING id, status, created_at, updated_at
		`,
		c.Name, c.Email, c.Subject, c.Message,
	).Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Contact, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.All")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int) (*Contact, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return c, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id int, status string) (*Contact, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.UpdateStatus")
	span.SetAttributes(attribute.Int("id", id), attribute.String("status", status))
	defer span.End()

	c, err := scanContact(r.db.QueryRow(
		ctx,
		`UPDATE contacts SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+contactColumns,
		status, id,
	))
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("update contact %d status: %w", id, err)
	}
	return c, nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*Contact, error) {
	c := &Contact{}
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return c, nil
}
