package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
	"github.com/shoileazeez/portfolio/pkg"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

type Admin struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

var _ adminStore = (*AdminRepo)(nil)

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{
		db: db,
	}
}

// GetByEmail matches the email exactly, case included.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "adminRepo.GetByEmail")
	defer span.End()

	admin := &Admin{}
	err := r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at FROM admin_users WHERE email = $1`,
		email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrAdminNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	return admin, nil
}

func (r *AdminRepo) Create(ctx context.Context, email, passwordHash string) (*Admin, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "adminRepo.Create")
	defer span.End()

	admin := &Admin{
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.db.QueryRow(
		ctx,
		`INSERT INTO admin_users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		email, passwordHash,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrAdminExists
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	span.SetAttributes(attribute.Int("admin.id", admin.ID))
	return admin, nil
}
