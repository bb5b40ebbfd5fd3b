package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	pgvector "github.com/pgvector/pgvector-go"

	"coffee-reco/internal/domain"
)

// ErrDuplicateName se devuelve cuando el indice unico (user_id, lower(nombre)) rechaza la escritura.
var ErrDuplicateName = errors.New("duplicate collection name")

const (
	pgUniqueViolation   = "23505"
	collectionNameIndex = "uq_collections_user_name"
)

// mapUniqueViolation traduce la violacion del indice de nombres a ErrDuplicateName.
// Se decide por codigo SQLSTATE y nombre de constraint, nunca por el texto del mensaje.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == collectionNameIndex {
		return ErrDuplicateName
	}
	return err
}

func vectorToPreferences(v pgvector.Vector) (domain.PreferenceVector, error) {
	prefs, ok := domain.PreferenceVectorFromFloats(v.Slice())
	if !ok {
		return domain.PreferenceVector{}, errors.New("unexpected vector dimension")
	}
	return prefs, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
