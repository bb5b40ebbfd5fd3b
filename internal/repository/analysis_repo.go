package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"coffee-reco/internal/domain"
)

// AnalysisRepository define el contrato de persistencia para analisis.
type AnalysisRepository interface {
	Insert(ctx context.Context, analysis domain.Analysis) (int64, error)
	GetByID(ctx context.Context, analysisID int64) (domain.Analysis, error)
	ListUnsavedSince(ctx context.Context, userID int64, since time.Time) ([]domain.Analysis, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type PgAnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnalysisRepository(pool *pgxpool.Pool) *PgAnalysisRepository {
	return &PgAnalysisRepository{pool: pool}
}

func (r *PgAnalysisRepository) Insert(ctx context.Context, analysis domain.Analysis) (int64, error) {
	const query = `
		INSERT INTO analyses (user_id, preferences, saved, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING analysis_id
	`
	var userID interface{}
	if analysis.UserID != nil {
		userID = *analysis.UserID
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		userID,
		pgvector.NewVector(analysis.Preferences.Floats()),
		analysis.Saved,
		analysis.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *PgAnalysisRepository) GetByID(ctx context.Context, analysisID int64) (domain.Analysis, error) {
	const query = `
		SELECT analysis_id, user_id, preferences, saved, created_at
		FROM analyses
		WHERE analysis_id = $1
	`
	var (
		a   domain.Analysis
		vec pgvector.Vector
	)
	err := r.pool.QueryRow(ctx, query, analysisID).Scan(&a.ID, &a.UserID, &vec, &a.Saved, &a.CreatedAt)
	if err != nil {
		return domain.Analysis{}, err
	}
	a.Preferences, err = vectorToPreferences(vec)
	if err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

// ListUnsavedSince devuelve los analisis efimeros creados desde since, mas recientes primero.
func (r *PgAnalysisRepository) ListUnsavedSince(ctx context.Context, userID int64, since time.Time) ([]domain.Analysis, error) {
	const query = `
		SELECT analysis_id, user_id, preferences, saved, created_at
		FROM analyses
		WHERE user_id = $1 AND saved = FALSE AND created_at >= $2
		ORDER BY created_at DESC, analysis_id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// DeleteExpired borra los analisis no guardados creados estrictamente antes de before.
func (r *PgAnalysisRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `
		DELETE FROM analyses a
		WHERE a.saved = FALSE
		  AND a.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM collections c WHERE c.analysis_id = a.analysis_id)
	`
	tag, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanAnalyses(rows pgxRows) ([]domain.Analysis, error) {
	var analyses []domain.Analysis
	for rows.Next() {
		var (
			a      domain.Analysis
			userID *int64
			vec    pgvector.Vector
		)
		if err := rows.Scan(&a.ID, &userID, &vec, &a.Saved, &a.CreatedAt); err != nil {
			return nil, err
		}
		prefs, err := vectorToPreferences(vec)
		if err != nil {
			return nil, err
		}
		a.UserID = userID
		a.Preferences = prefs
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return analyses, nil
}
