package experience

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const experienceColumns = `id, title, company, period, description, achievements, technologies, created_at, updated_at`

var _ experienceRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// All returns every entry, newest first.
func (r *Repo) All(ctx context.Context) ([]*Experience, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "experienceRepo.All")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+experienceColumns+` FROM experience ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repo) Add(ctx context.Context, e *Experience) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "experienceRepo.Add")
	defer span.End()

	e.normalize()
	if err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO experience (title, company, period, description, achievements, technologies)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`,
		e.Title, e.Company, e.Period, e.Description, e.Achievements, e.Technologies,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, id int, e *Experience) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "experienceRepo.Update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	e.normalize()
	err := r.db.QueryRow(
		ctx,
		`
			UPDATE experience SET
				title = $1, company = $2, period = $3, description = $4,
				achievements = $5, technologies = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING id, created_at, updated_at
		`,
		e.Title, e.Company, e.Period, e.Description, e.Achievements, e.Technologies, id,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return ErrExperienceNotFound
		}
		return fmt.Errorf("update experience %d: %w", id, err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "experienceRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM experience WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

func scanExperience(row pgx.Row) (*Experience, error) {
	e := &Experience{}
	if err := row.Scan(
		&e.ID, &e.Title, &e.Company, &e.Period, &e.Description,
		&e.Achievements, &e.Technologies, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.normalize()
	return e, nil
}
