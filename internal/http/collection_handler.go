package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coffee-reco/internal/service"
)

// CollectionHandler expone las colecciones del usuario y el estado de guardado.
type CollectionHandler struct {
	logger      *zap.Logger
	collections *service.CollectionService
	saveStatus  *service.SaveStatusResolver
	results     ResultRecorder
}

func NewCollectionHandler(
	logger *zap.Logger,
	collections *service.CollectionService,
	saveStatus *service.SaveStatusResolver,
	results ResultRecorder,
) *CollectionHandler {
	if results == nil {
		results = nopRecorder{}
	}
	return &CollectionHandler{
		logger:      logger,
		collections: collections,
		saveStatus:  saveStatus,
		results:     results,
	}
}

// Save maneja POST /collections/save.
func (h *CollectionHandler) Save(c *gin.Context) {
	const op = "save_collection"
	var req struct {
		UserID     flexInt    `json:"p_user_id"`
		AnalysisID flexInt    `json:"p_analysis_id"`
		Name       flexString `json:"p_collection_name"`
		Comment    flexString `json:"p_personal_comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save collection request", zap.Error(err))
		respondBadRequest(c, h.results, op)
		return
	}
	if !ownerAllowed(c, req.UserID.Int64()) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	id, err := h.collections.Save(c.Request.Context(), service.SaveCollectionInput{
		UserID:     req.UserID.Int64(),
		AnalysisID: req.AnalysisID.Int64(),
		Name:       string(req.Name),
		Comment:    string(req.Comment),
	})
	respond(c, h.results, op, gin.H{"p_collection_id": id}, err)
}

// Get maneja GET /collections?user_id=&collection_id=.
func (h *CollectionHandler) Get(c *gin.Context) {
	const op = "get_collections"
	userID, _ := parseFlexInt(c.Query("user_id"))
	if !ownerAllowed(c, userID) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	var collectionID *int64
	if raw := c.Query("collection_id"); raw != "" {
		v, _ := parseFlexInt(raw)
		collectionID = &v
	}

	found, err := h.collections.Get(c.Request.Context(), userID, collectionID)
	respond(c, h.results, op, found, err)
}

// Update maneja PUT /collections/update.
func (h *CollectionHandler) Update(c *gin.Context) {
	const op = "update_collection"
	var req struct {
		UserID       flexInt    `json:"p_user_id"`
		CollectionID flexInt    `json:"p_collection_id"`
		Name         flexString `json:"p_collection_name"`
		Comment      flexString `json:"p_personal_comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update collection request", zap.Error(err))
		respondBadRequest(c, h.results, op)
		return
	}
	if !ownerAllowed(c, req.UserID.Int64()) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	err := h.collections.Update(c.Request.Context(), service.UpdateCollectionInput{
		UserID:       req.UserID.Int64(),
		CollectionID: req.CollectionID.Int64(),
		Name:         string(req.Name),
		Comment:      string(req.Comment),
	})
	respond(c, h.results, op, nil, err)
}

// Delete maneja DELETE /collections/:collection_id con p_user_id en el cuerpo.
func (h *CollectionHandler) Delete(c *gin.Context) {
	const op = "delete_collection"
	var req struct {
		UserID flexInt `json:"p_user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid delete collection request", zap.Error(err))
		respondBadRequest(c, h.results, op)
		return
	}
	if !ownerAllowed(c, req.UserID.Int64()) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	collectionID, _ := parseFlexInt(c.Param("collection_id"))
	err := h.collections.Delete(c.Request.Context(), req.UserID.Int64(), collectionID)
	respond(c, h.results, op, nil, err)
}

// SaveStatus maneja GET /collections/save-status?user_id=&analysis_id=.
func (h *CollectionHandler) SaveStatus(c *gin.Context) {
	const op = "save_status"
	userID, _ := parseFlexInt(c.Query("user_id"))
	analysisID, _ := parseFlexInt(c.Query("analysis_id"))
	if !ownerAllowed(c, userID) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	status, err := h.saveStatus.Resolve(c.Request.Context(), userID, analysisID)
	respond(c, h.results, op, status, err)
}

// NameCheck maneja GET /collections/name-check?user_id=&name=.
func (h *CollectionHandler) NameCheck(c *gin.Context) {
	const op = "name_check"
	userID, _ := parseFlexInt(c.Query("user_id"))
	if !ownerAllowed(c, userID) {
		abortForbidden(c, h.results, op, ownerMismatchMsg)
		return
	}

	available, err := h.collections.NameAvailable(c.Request.Context(), userID, c.Query("name"))
	respond(c, h.results, op, gin.H{"available": available}, err)
}
