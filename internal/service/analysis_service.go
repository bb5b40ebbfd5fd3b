package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"coffee-reco/internal/domain"
	"coffee-reco/internal/repository"
)

// AnalysisMetrics recibe las observaciones del motor de ranking y del sweep.
type AnalysisMetrics interface {
	ObserveRank(op string, elapsed time.Duration)
	AddSwept(n int64)
}

type nopAnalysisMetrics struct{}

func (nopAnalysisMetrics) ObserveRank(string, time.Duration) {}
func (nopAnalysisMetrics) AddSwept(int64)                    {}

// AnalysisService rankea el catalogo y gobierna el ciclo de vida de los analisis.
type AnalysisService struct {
	catalog  repository.CatalogRepository
	analyses repository.AnalysisRepository
	logger   *zap.Logger
	metrics  AnalysisMetrics
	now      func() time.Time
}

func NewAnalysisService(
	catalog repository.CatalogRepository,
	analyses repository.AnalysisRepository,
	logger *zap.Logger,
	metrics AnalysisMetrics,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopAnalysisMetrics{}
	}
	return &AnalysisService{
		catalog:  catalog,
		analyses: analyses,
		logger:   logger,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type RecommendInput struct {
	Preferences   domain.PreferenceInput
	UserID        *int64
	SaveRequested bool
}

type RecommendResult struct {
	Analysis domain.Analysis      `json:"analysis"`
	Matches  []domain.RankedMatch `json:"matches"`
}

// Recommend valida, rankea y registra el analisis.
// Pedir guardado sin usuario es una violacion de politica; nunca se degrada a efimero.
func (s *AnalysisService) Recommend(ctx context.Context, in RecommendInput) (RecommendResult, error) {
	prefs, err := ParsePreferences(in.Preferences, domain.StandardRange)
	if err != nil {
		return RecommendResult{}, err
	}
	if in.UserID != nil && *in.UserID <= 0 {
		return RecommendResult{}, invalidParam("user_id must be positive")
	}
	if in.SaveRequested && in.UserID == nil {
		return RecommendResult{}, invalidParam("saving an analysis requires a user")
	}

	catalog, err := s.catalog.FetchProfiles(ctx)
	if err != nil {
		s.logger.Error("fetch catalog failed", zap.Error(err))
		return RecommendResult{}, storeErr("fetch catalog", err)
	}

	start := time.Now()
	matches := Rank(prefs, domain.StandardRange, catalog)
	s.metrics.ObserveRank("recommend", time.Since(start))

	analysis := domain.Analysis{
		UserID:      in.UserID,
		Preferences: prefs,
		CreatedAt:   s.now(),
		Saved:       in.SaveRequested,
	}
	id, err := s.analyses.Insert(ctx, analysis)
	if err != nil {
		s.logger.Error("insert analysis failed", zap.Error(err), zap.Int64p("user_id", in.UserID))
		return RecommendResult{}, storeErr("insert analysis", err)
	}
	analysis.ID = id

	return RecommendResult{Analysis: analysis, Matches: matches}, nil
}

type TopInput struct {
	Preferences domain.PreferenceInput
	Limit       *int
}

// Top es la variante "primary + k similares" sobre el rango [0,5]. No registra analisis.
func (s *AnalysisService) Top(ctx context.Context, in TopInput) (domain.TopResult, error) {
	prefs, err := ParsePreferences(in.Preferences, domain.OpenRange)
	if err != nil {
		return domain.TopResult{}, err
	}
	k, err := resolveSimilarCount(in.Limit)
	if err != nil {
		return domain.TopResult{}, err
	}

	catalog, err := s.catalog.FetchProfiles(ctx)
	if err != nil {
		s.logger.Error("fetch catalog failed", zap.Error(err))
		return domain.TopResult{}, storeErr("fetch catalog", err)
	}

	start := time.Now()
	result := Select(prefs, catalog, k)
	s.metrics.ObserveRank("top", time.Since(start))
	return result, nil
}

// SimilarTo devuelve hasta limit cafes parecidos a coffeeID, sin incluirlo.
func (s *AnalysisService) SimilarTo(ctx context.Context, coffeeID int64, limit *int) ([]domain.RankedMatch, error) {
	if coffeeID <= 0 {
		return nil, invalidParam("coffee_id must be positive")
	}
	k, err := resolveSimilarCount(limit)
	if err != nil {
		return nil, err
	}

	reference, err := s.catalog.GetProfile(ctx, coffeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error("get coffee profile failed", zap.Error(err), zap.Int64("coffee_id", coffeeID))
		return nil, storeErr("get coffee profile", err)
	}
	catalog, err := s.catalog.FetchProfiles(ctx)
	if err != nil {
		s.logger.Error("fetch catalog failed", zap.Error(err))
		return nil, storeErr("fetch catalog", err)
	}

	start := time.Now()
	matches := similarTo(reference, catalog, k)
	s.metrics.ObserveRank("similar", time.Since(start))
	return matches, nil
}

// ListPast devuelve los analisis efimeros vigentes del usuario, mas recientes primero.
// La ventana se vuelve a aplicar aqui aunque el sweep todavia no haya corrido.
func (s *AnalysisService) ListPast(ctx context.Context, userID int64) ([]domain.Analysis, error) {
	if userID <= 0 {
		return nil, invalidParam("user_id must be positive")
	}

	now := s.now()
	found, err := s.analyses.ListUnsavedSince(ctx, userID, now.Add(-domain.AnalysisTTL))
	if err != nil {
		s.logger.Error("list analyses failed", zap.Error(err), zap.Int64("user_id", userID))
		return nil, storeErr("list analyses", err)
	}

	past := make([]domain.Analysis, 0, len(found))
	for _, a := range found {
		if a.State(now, domain.AnalysisTTL) == domain.AnalysisEphemeral {
			past = append(past, a)
		}
	}
	return past, nil
}

// SweepExpired borra los analisis no guardados con mas de 24h de antiguedad. Cero filas es exito.
func (s *AnalysisService) SweepExpired(ctx context.Context) (int64, error) {
	deleted, err := s.analyses.DeleteExpired(ctx, s.now().Add(-domain.AnalysisTTL))
	if err != nil {
		s.logger.Error("sweep expired analyses failed", zap.Error(err))
		return 0, storeErr("delete expired analyses", err)
	}
	s.metrics.AddSwept(deleted)
	if deleted > 0 {
		s.logger.Info("expired analyses swept", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}
