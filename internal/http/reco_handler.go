package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coffee-reco/internal/domain"
	"coffee-reco/internal/service"
)

// RecoHandler expone el ranking y el ciclo de vida de los analisis.
type RecoHandler struct {
	logger   *zap.Logger
	analyses *service.AnalysisService
	results  ResultRecorder
}

func NewRecoHandler(logger *zap.Logger, analyses *service.AnalysisService, results ResultRecorder) *RecoHandler {
	if results == nil {
		results = nopRecorder{}
	}
	return &RecoHandler{logger: logger, analyses: analyses, results: results}
}

type preferenceRequest struct {
	Aroma     flexInt `json:"aroma"`
	Acidity   flexInt `json:"acidity"`
	Nutty     flexInt `json:"nutty"`
	Body      flexInt `json:"body"`
	Sweetness flexInt `json:"sweetness"`
}

func (p preferenceRequest) input() domain.PreferenceInput {
	return domain.PreferenceInput{
		Aroma:     p.Aroma.IntPtr(),
		Acidity:   p.Acidity.IntPtr(),
		Nutty:     p.Nutty.IntPtr(),
		Body:      p.Body.IntPtr(),
		Sweetness: p.Sweetness.IntPtr(),
	}
}

// Recommend maneja POST /reco.
func (h *RecoHandler) Recommend(c *gin.Context) {
	const op = "recommend"
	var req struct {
		preferenceRequest
		UserID       flexInt `json:"userId"`
		SaveAnalysis flexInt `json:"saveAnalysis"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommend request", zap.Error(err))
		respondBadRequest(c, h.results, op)
		return
	}

	userID := req.UserID.Int64Ptr()
	if userID != nil && !ownerAllowed(c, *userID) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	res, err := h.analyses.Recommend(c.Request.Context(), service.RecommendInput{
		Preferences:   req.input(),
		UserID:        userID,
		SaveRequested: req.SaveAnalysis.Int64() != 0,
	})
	respond(c, h.results, op, res, err)
}

// Top maneja POST /reco/top5.
func (h *RecoHandler) Top(c *gin.Context) {
	const op = "top5"
	var req struct {
		preferenceRequest
		LimitSimilar flexInt `json:"limitSimilar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid top5 request", zap.Error(err))
		respondBadRequest(c, h.results, op)
		return
	}

	res, err := h.analyses.Top(c.Request.Context(), service.TopInput{
		Preferences: req.input(),
		Limit:       limitPtr(req.LimitSimilar),
	})
	respond(c, h.results, op, res, err)
}

// Similar maneja GET /reco/similar/:coffee_id?limit=.
func (h *RecoHandler) Similar(c *gin.Context) {
	const op = "similar"
	coffeeID, _ := parseFlexInt(c.Param("coffee_id"))

	raw, present := c.GetQuery("limit")
	limit := limitPtr(queryFlexInt(raw, present))

	matches, err := h.analyses.SimilarTo(c.Request.Context(), coffeeID, limit)
	respond(c, h.results, op, matches, err)
}

// ListPast maneja GET /analyses/past?user_id=.
func (h *RecoHandler) ListPast(c *gin.Context) {
	const op = "list_past"
	userID, _ := parseFlexInt(c.Query("user_id"))
	if !ownerAllowed(c, userID) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	past, err := h.analyses.ListPast(c.Request.Context(), userID)
	respond(c, h.results, op, past, err)
}

// limitPtr mantiene "ausente" como nil para aplicar el default; un valor ilegible o que
// no entra en int se convierte en -1 para que falle la validacion de rango.
func limitPtr(f flexInt) *int {
	if f.Invalid {
		invalid := -1
		return &invalid
	}
	if !f.Set {
		return nil
	}
	if v := f.IntPtr(); v != nil {
		return v
	}
	invalid := -1
	return &invalid
}
