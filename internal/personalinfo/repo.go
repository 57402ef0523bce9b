package personalinfo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

const infoColumns = `id, name, title, bio, intro, avatar, github, linkedin, email, created_at, updated_at`

var _ infoRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Get returns the most recent record, or ErrNotFound.
func (r *Repo) Get(ctx context.Context) (*PersonalInfo, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "personalInfoRepo.Get")
	defer span.End()

	info := &PersonalInfo{}
	err := r.db.QueryRow(ctx, `SELECT `+infoColumns+` FROM personal_info ORDER BY id DESC LIMIT 1`).Scan(
		&info.ID, &info.Name, &info.Title, &info.Bio, &info.Intro, &info.Avatar,
		&info.Github, &info.Linkedin, &info.Email, &info.CreatedAt, &info.UpdatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return info, nil
}

// Upsert updates the existing record or creates the first one, in one transaction.
func (r *Repo) Upsert(ctx context.Context, info *PersonalInfo) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "personalInfoRepo.Upsert")
	defer span.End()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var existingID int
		err := tx.QueryRow(ctx, `SELECT id FROM personal_info ORDER BY id DESC LIMIT 1 FOR UPDATE`).Scan(&existingID)
		switch {
		case pkg.IsNoRowsError(err):
			err = tx.QueryRow(
				ctx,
				`
					INSERT INTO personal_info (name, title, bio, intro, avatar, github, linkedin, email)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
					RETURNING id, created_at, updated_at
				`,
				info.Name, info.Title, info.Bio, info.Intro, info.Avatar, info.Github, info.Linkedin, info.Email,
			).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert personal info: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("select personal info: %w", err)
		}

		err = tx.QueryRow(
			ctx,
			`
				UPDATE personal_info SET
					name = $1, title = $2, bio = $3, intro = $4, avatar = $5,
					github = $6, linkedin = $7, email = $8, updated_at = NOW()
				WHERE id = $9
				RETURNING id, created_at, updated_at
			`,
			info.Name, info.Title, info.Bio, info.Intro, info.Avatar, info.Github, info.Linkedin, info.Email,
			existingID,
		).Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update personal info %d: %w", existingID, err)
		}
		return nil
	})
}
