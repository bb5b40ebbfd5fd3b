package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coffee-reco/internal/domain"
	"coffee-reco/internal/repository"
)

// CollectionService promueve analisis a colecciones con nombre y hace cumplir propiedad y unicidad.
type CollectionService struct {
	analyses    repository.AnalysisRepository
	collections repository.CollectionRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewCollectionService(
	analyses repository.AnalysisRepository,
	collections repository.CollectionRepository,
	logger *zap.Logger,
) *CollectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService{
		analyses:    analyses,
		collections: collections,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type SaveCollectionInput struct {
	UserID     int64
	AnalysisID int64
	Name       string
	Comment    string
}

type UpdateCollectionInput struct {
	UserID       int64
	CollectionID int64
	Name         string
	Comment      string
}

// Save crea la coleccion y devuelve su id. Un analisis vencido ya no se puede guardar (NOT_FOUND).
// El pre-chequeo de nombre no alcanza bajo concurrencia: la violacion del indice unico
// al insertar tambien se traduce a ErrDuplicateName.
func (s *CollectionService) Save(ctx context.Context, in SaveCollectionInput) (int64, error) {
	if in.UserID <= 0 || in.AnalysisID <= 0 {
		return 0, invalidParam("user_id and analysis_id must be positive")
	}
	name, comment, err := validateEntry(in.Name, in.Comment)
	if err != nil {
		return 0, err
	}

	analysis, err := s.analyses.GetByID(ctx, in.AnalysisID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		s.logger.Error("get analysis failed", zap.Error(err), zap.Int64("analysis_id", in.AnalysisID))
		return 0, storeErr("get analysis", err)
	}
	if !analysis.OwnedBy(in.UserID) {
		return 0, ErrNoPermission
	}
	now := s.now()
	if analysis.State(now, domain.AnalysisTTL) == domain.AnalysisExpired {
		return 0, ErrNotFound
	}

	if err := s.ensureNameFree(ctx, in.UserID, name, 0); err != nil {
		return 0, err
	}

	id, err := s.collections.Insert(ctx, domain.Collection{
		UserID:     in.UserID,
		AnalysisID: in.AnalysisID,
		Name:       name,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, now.Add(-domain.AnalysisTTL))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return 0, ErrDuplicateName
		}
		if errors.Is(err, pgx.ErrNoRows) {
			// el sweep lo borro o vencio entre la lectura y la transaccion
			return 0, ErrNotFound
		}
		s.logger.Error("insert collection failed", zap.Error(err), zap.Int64("user_id", in.UserID), zap.Int64("analysis_id", in.AnalysisID))
		return 0, storeErr("insert collection", err)
	}
	return id, nil
}

// Get devuelve la lista del usuario (collectionID nil) o el detalle de una coleccion propia.
// Una coleccion ajena se informa como NOT_FOUND en esta lectura.
func (s *CollectionService) Get(ctx context.Context, userID int64, collectionID *int64) ([]domain.Collection, error) {
	if userID <= 0 {
		return nil, invalidParam("user_id must be positive")
	}
	if collectionID != nil && *collectionID <= 0 {
		return nil, invalidParam("collection_id must be positive")
	}

	found, err := s.collections.FindForUser(ctx, userID, collectionID)
	if err != nil {
		s.logger.Error("find collections failed", zap.Error(err), zap.Int64("user_id", userID))
		return nil, storeErr("find collections", err)
	}
	if collectionID != nil && len(found) == 0 {
		return nil, ErrNotFound
	}
	if found == nil {
		found = []domain.Collection{}
	}
	return found, nil
}

func (s *CollectionService) Update(ctx context.Context, in UpdateCollectionInput) error {
	if in.UserID <= 0 || in.CollectionID <= 0 {
		return invalidParam("user_id and collection_id must be positive")
	}
	name, comment, err := validateEntry(in.Name, in.Comment)
	if err != nil {
		return err
	}
	if err := s.ensureOwner(ctx, in.UserID, in.CollectionID); err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, in.UserID, name, in.CollectionID); err != nil {
		return err
	}

	err = s.collections.Update(ctx, domain.Collection{
		ID:        in.CollectionID,
		UserID:    in.UserID,
		Name:      name,
		Comment:   comment,
		UpdatedAt: s.now(),
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateName):
		return ErrDuplicateName
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	default:
		s.logger.Error("update collection failed", zap.Error(err), zap.Int64("collection_id", in.CollectionID))
		return storeErr("update collection", err)
	}
}

// Delete borra la coleccion; el analisis envuelto deja de contar como guardado si nada mas lo referencia.
func (s *CollectionService) Delete(ctx context.Context, userID, collectionID int64) error {
	if userID <= 0 || collectionID <= 0 {
		return invalidParam("user_id and collection_id must be positive")
	}
	if err := s.ensureOwner(ctx, userID, collectionID); err != nil {
		return err
	}

	err := s.collections.Delete(ctx, userID, collectionID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	default:
		s.logger.Error("delete collection failed", zap.Error(err), zap.Int64("collection_id", collectionID))
		return storeErr("delete collection", err)
	}
}

// NameAvailable indica si el usuario puede usar name en una coleccion nueva.
func (s *CollectionService) NameAvailable(ctx context.Context, userID int64, name string) (bool, error) {
	if userID <= 0 {
		return false, invalidParam("user_id must be positive")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrMissingName
	}
	if utf8.RuneCountInString(name) > domain.CollectionNameMaxLen {
		return false, invalidParam("collection_name exceeds %d characters", domain.CollectionNameMaxLen)
	}

	exists, err := s.collections.NameExists(ctx, userID, name, 0)
	if err != nil {
		s.logger.Error("check collection name failed", zap.Error(err), zap.Int64("user_id", userID))
		return false, storeErr("check collection name", err)
	}
	return !exists, nil
}

func (s *CollectionService) ensureOwner(ctx context.Context, userID, collectionID int64) error {
	existing, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		s.logger.Error("get collection failed", zap.Error(err), zap.Int64("collection_id", collectionID))
		return storeErr("get collection", err)
	}
	if existing.UserID != userID {
		return ErrNoPermission
	}
	return nil
}

func (s *CollectionService) ensureNameFree(ctx context.Context, userID int64, name string, excludeID int64) error {
	exists, err := s.collections.NameExists(ctx, userID, name, excludeID)
	if err != nil {
		s.logger.Error("check collection name failed", zap.Error(err), zap.Int64("user_id", userID))
		return storeErr("check collection name", err)
	}
	if exists {
		return ErrDuplicateName
	}
	return nil
}

// validateEntry recorta y valida nombre y comentario. Los vacios tienen codigos propios.
func validateEntry(name, comment string) (string, string, error) {
	name = strings.TrimSpace(name)
	comment = strings.TrimSpace(comment)
	if name == "" {
		return "", "", ErrMissingName
	}
	if comment == "" {
		return "", "", ErrMissingComment
	}
	if utf8.RuneCountInString(name) > domain.CollectionNameMaxLen {
		return "", "", invalidParam("collection_name exceeds %d characters", domain.CollectionNameMaxLen)
	}
	if utf8.RuneCountInString(comment) > domain.CollectionCommentMaxLen {
		return "", "", invalidParam("personal_comment exceeds %d characters", domain.CollectionCommentMaxLen)
	}
	return name, comment, nil
}
