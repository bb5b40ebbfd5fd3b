package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coffee-reco/internal/service"
)

// Pinger verifica la conectividad con la base.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogInvalidator descarta el catalogo cacheado; lo implementa la cache de redis.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AdminHandler expone el healthcheck y los disparadores manuales (sweep, refresco del catalogo).
type AdminHandler struct {
	logger     *zap.Logger
	pinger     Pinger
	analyses   *service.AnalysisService
	catalog    CatalogInvalidator
	adminToken string
	results    ResultRecorder
}

// NewAdminHandler acepta catalog nil cuando no hay cache configurada.
func NewAdminHandler(
	logger *zap.Logger,
	pinger Pinger,
	analyses *service.AnalysisService,
	catalog CatalogInvalidator,
	adminToken string,
	results ResultRecorder,
) *AdminHandler {
	if results == nil {
		results = nopRecorder{}
	}
	return &AdminHandler{
		logger:     logger,
		pinger:     pinger,
		analyses:   analyses,
		catalog:    catalog,
		adminToken: adminToken,
		results:    results,
	}
}

// Health maneja GET /healthz.
func (h *AdminHandler) Health(c *gin.Context) {
	if h.pinger == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Sweep maneja POST /analyses/sweep. Requiere X-Admin-Token; sin token configurado queda deshabilitado.
func (h *AdminHandler) Sweep(c *gin.Context) {
	const op = "sweep_expired"
	if !h.authorized(c, op) {
		return
	}

	deleted, err := h.analyses.SweepExpired(c.Request.Context())
	respond(c, h.results, op, gin.H{"deleted": deleted}, err)
}

// RefreshCatalog maneja POST /catalog/refresh. Sin cache configurada no hay nada que descartar.
func (h *AdminHandler) RefreshCatalog(c *gin.Context) {
	const op = "refresh_catalog"
	if !h.authorized(c, op) {
		return
	}
	if h.catalog == nil {
		respond(c, h.results, op, gin.H{"invalidated": false}, nil)
		return
	}

	if err := h.catalog.Invalidate(c.Request.Context()); err != nil {
		h.logger.Error("catalog cache invalidation failed", zap.Error(err))
		respond(c, h.results, op, nil, &service.StoreError{Op: "invalidate catalog cache", Err: err})
		return
	}
	respond(c, h.results, op, gin.H{"invalidated": true}, nil)
}

// authorized exige X-Admin-Token; sin token configurado las rutas admin quedan deshabilitadas.
func (h *AdminHandler) authorized(c *gin.Context, op string) bool {
	given := c.GetHeader("X-Admin-Token")
	if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.adminToken)) != 1 {
		abortForbidden(c, h.results, op, "admin token required")
		return false
	}
	return true
}
