package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"coffee-reco/internal/domain"
)

// CollectionRepository define el contrato de persistencia para colecciones.
// Insert y Update devuelven ErrDuplicateName si el indice unico rechaza el nombre.
// Insert devuelve pgx.ErrNoRows si el analisis no existe o no esta guardado y fue creado antes de liveSince.
type CollectionRepository interface {
	Insert(ctx context.Context, collection domain.Collection, liveSince time.Time) (int64, error)
	Update(ctx context.Context, collection domain.Collection) error
	Delete(ctx context.Context, userID, collectionID int64) error
	GetByID(ctx context.Context, collectionID int64) (domain.Collection, error)
	FindForUser(ctx context.Context, userID int64, collectionID *int64) ([]domain.Collection, error)
	NameExists(ctx context.Context, userID int64, name string, excludeID int64) (bool, error)
	FindSaveStatus(ctx context.Context, userID, analysisID int64) ([]map[string]any, error)
}

type PgCollectionRepository struct {
	pool *pgxpool.Pool
}

func NewPgCollectionRepository(pool *pgxpool.Pool) *PgCollectionRepository {
	return &PgCollectionRepository{pool: pool}
}

// Insert marca el analisis como guardado y crea la coleccion en la misma transaccion.
// La marca va primero: bloquea la fila, asi un sweep concurrente o ya la borro o la ve guardada.
func (r *PgCollectionRepository) Insert(ctx context.Context, collection domain.Collection, liveSince time.Time) (int64, error) {
	const markQuery = `
		UPDATE analyses
		SET saved = TRUE
		WHERE analysis_id = $1 AND (saved OR created_at >= $2)
	`
	const insertQuery = `
		INSERT INTO collections (user_id, analysis_id, collection_name, personal_comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING collection_id
	`

	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, markQuery, collection.AnalysisID, liveSince)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return tx.QueryRow(ctx, insertQuery,
			collection.UserID,
			collection.AnalysisID,
			collection.Name,
			collection.Comment,
			collection.CreatedAt,
			collection.UpdatedAt,
		).Scan(&id)
	})
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func (r *PgCollectionRepository) Update(ctx context.Context, collection domain.Collection) error {
	const query = `
		UPDATE collections
		SET collection_name = $3, personal_comment = $4, updated_at = $5
		WHERE collection_id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		collection.ID,
		collection.UserID,
		collection.Name,
		collection.Comment,
		collection.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete borra la coleccion y recalcula la marca saved del analisis que envolvia.
func (r *PgCollectionRepository) Delete(ctx context.Context, userID, collectionID int64) error {
	const deleteQuery = `
		DELETE FROM collections
		WHERE collection_id = $1 AND user_id = $2
		RETURNING analysis_id
	`
	const unlinkQuery = `
		UPDATE analyses
		SET saved = EXISTS (SELECT 1 FROM collections WHERE analysis_id = $1)
		WHERE analysis_id = $1
	`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var analysisID int64
		if err := tx.QueryRow(ctx, deleteQuery, collectionID, userID).Scan(&analysisID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, unlinkQuery, analysisID)
		return err
	})
}

func (r *PgCollectionRepository) GetByID(ctx context.Context, collectionID int64) (domain.Collection, error) {
	const query = `
		SELECT c.collection_id, c.user_id, c.analysis_id, c.collection_name, c.personal_comment,
		       a.preferences, c.created_at, c.updated_at
		FROM collections c
		JOIN analyses a ON a.analysis_id = c.analysis_id
		WHERE c.collection_id = $1
	`
	rows, err := r.pool.Query(ctx, query, collectionID)
	if err != nil {
		return domain.Collection{}, err
	}
	defer rows.Close()

	collections, err := scanCollections(rows)
	if err != nil {
		return domain.Collection{}, err
	}
	if len(collections) == 0 {
		return domain.Collection{}, pgx.ErrNoRows
	}
	return collections[0], nil
}

// FindForUser devuelve la lista del usuario (collectionID nil) o el detalle si le pertenece.
func (r *PgCollectionRepository) FindForUser(ctx context.Context, userID int64, collectionID *int64) ([]domain.Collection, error) {
	const query = `
		SELECT c.collection_id, c.user_id, c.analysis_id, c.collection_name, c.personal_comment,
		       a.preferences, c.created_at, c.updated_at
		FROM collections c
		JOIN analyses a ON a.analysis_id = c.analysis_id
		WHERE c.user_id = $1 AND ($2::BIGINT IS NULL OR c.collection_id = $2)
		ORDER BY c.created_at DESC, c.collection_id DESC
	`
	var id interface{}
	if collectionID != nil {
		id = *collectionID
	}
	rows, err := r.pool.Query(ctx, query, userID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCollections(rows)
}

func (r *PgCollectionRepository) NameExists(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM collections
			WHERE user_id = $1 AND lower(collection_name) = lower($2) AND collection_id <> $3
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, name, excludeID).Scan(&exists)
	return exists, err
}

// FindSaveStatus devuelve las filas crudas; la normalizacion de is_saved queda a cargo del servicio.
func (r *PgCollectionRepository) FindSaveStatus(ctx context.Context, userID, analysisID int64) ([]map[string]any, error) {
	const query = `
		SELECT a.analysis_id,
		       EXISTS (
		           SELECT 1 FROM collections c
		           WHERE c.analysis_id = a.analysis_id AND c.user_id = $1
		       ) AS is_saved
		FROM analyses a
		WHERE a.analysis_id = $2 AND a.user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToMap)
}

func scanCollections(rows pgxRows) ([]domain.Collection, error) {
	var collections []domain.Collection
	for rows.Next() {
		var (
			c   domain.Collection
			vec pgvector.Vector
		)
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.AnalysisID,
			&c.Name,
			&c.Comment,
			&vec,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		prefs, err := vectorToPreferences(vec)
		if err != nil {
			return nil, err
		}
		c.Preferences = &prefs
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collections, nil
}
