package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"coffee-reco/internal/domain"
	"coffee-reco/internal/repository"
)

// saveFlagAliases son los nombres bajo los que la fuente puede devolver la marca.
var saveFlagAliases = []string{"is_saved", "isSaved", "saved"}

var (
	truthyFlags = map[string]struct{}{"1": {}, "y": {}, "yes": {}, "true": {}, "t": {}}
	falsyFlags  = map[string]struct{}{"0": {}, "n": {}, "no": {}, "false": {}, "f": {}}
)

// SaveStatusResolver calcula si un analisis esta representado en las colecciones del usuario.
type SaveStatusResolver struct {
	collections repository.CollectionRepository
	logger      *zap.Logger
}

func NewSaveStatusResolver(collections repository.CollectionRepository, logger *zap.Logger) *SaveStatusResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaveStatusResolver{collections: collections, logger: logger}
}

// Resolve devuelve IsSaved nil cuando no hay filas o la marca no se puede interpretar.
func (r *SaveStatusResolver) Resolve(ctx context.Context, userID, analysisID int64) (domain.SaveStatus, error) {
	if userID <= 0 || analysisID <= 0 {
		return domain.SaveStatus{}, invalidParam("user_id and analysis_id must be positive")
	}

	rows, err := r.collections.FindSaveStatus(ctx, userID, analysisID)
	if err != nil {
		r.logger.Error("find save status failed", zap.Error(err), zap.Int64("user_id", userID), zap.Int64("analysis_id", analysisID))
		return domain.SaveStatus{}, storeErr("find save status", err)
	}

	if rows == nil {
		rows = []map[string]any{}
	}
	status := domain.SaveStatus{RowCount: len(rows), Records: rows}
	if len(rows) == 0 {
		return status, nil
	}
	for _, alias := range saveFlagAliases {
		if v, ok := rows[0][alias]; ok {
			status.IsSaved = NormalizeSaveFlag(v)
			break
		}
	}
	return status, nil
}

// NormalizeSaveFlag convierte cualquier codificacion de verdad a 1, 0 o nil. Nunca falla.
func NormalizeSaveFlag(v any) *int {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return flag(x)
	case int:
		return flag(x != 0)
	case int8:
		return flag(x != 0)
	case int16:
		return flag(x != 0)
	case int32:
		return flag(x != 0)
	case int64:
		return flag(x != 0)
	case uint:
		return flag(x != 0)
	case uint8:
		return flag(x != 0)
	case uint16:
		return flag(x != 0)
	case uint32:
		return flag(x != 0)
	case uint64:
		return flag(x != 0)
	case float32:
		return numericFlag(float64(x))
	case float64:
		return numericFlag(x)
	case []byte:
		return stringFlag(string(x))
	case string:
		return stringFlag(x)
	default:
		return nil
	}
}

func stringFlag(s string) *int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	if _, ok := truthyFlags[s]; ok {
		return flag(true)
	}
	if _, ok := falsyFlags[s]; ok {
		return flag(false)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return flag(f != 0)
}

// numericFlag trata NaN como falso.
func numericFlag(f float64) *int {
	if math.IsNaN(f) {
		return flag(false)
	}
	return flag(f != 0)
}

func flag(b bool) *int {
	v := 0
	if b {
		v = 1
	}
	return &v
}
