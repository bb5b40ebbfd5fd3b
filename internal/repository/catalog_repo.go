package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"coffee-reco/internal/domain"
)

// CatalogRepository entrega los perfiles del catalogo en orden de insercion.
type CatalogRepository interface {
	FetchProfiles(ctx context.Context) ([]domain.CoffeeProfile, error)
	GetProfile(ctx context.Context, coffeeID int64) (domain.CoffeeProfile, error)
}

type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

func (r *PgCatalogRepository) FetchProfiles(ctx context.Context) ([]domain.CoffeeProfile, error) {
	const query = `
		SELECT coffee_id, name, description, category, origin, attributes
		FROM coffee_profiles
		WHERE active
		ORDER BY coffee_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func (r *PgCatalogRepository) GetProfile(ctx context.Context, coffeeID int64) (domain.CoffeeProfile, error) {
	const query = `
		SELECT coffee_id, name, description, category, origin, attributes
		FROM coffee_profiles
		WHERE coffee_id = $1 AND active
	`
	var (
		p   domain.CoffeeProfile
		vec pgvector.Vector
	)
	err := r.pool.QueryRow(ctx, query, coffeeID).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Origin,
		&vec,
	)
	if err != nil {
		return domain.CoffeeProfile{}, err
	}
	p.Attributes, err = vectorToPreferences(vec)
	if err != nil {
		return domain.CoffeeProfile{}, err
	}
	return p, nil
}

func scanProfiles(rows pgxRows) ([]domain.CoffeeProfile, error) {
	var profiles []domain.CoffeeProfile
	for rows.Next() {
		var (
			p   domain.CoffeeProfile
			vec pgvector.Vector
		)
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Origin,
			&vec,
		); err != nil {
			return nil, err
		}
		attrs, err := vectorToPreferences(vec)
		if err != nil {
			return nil, err
		}
		p.Attributes = attrs
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
