package domain

import "time"

// AnalysisTTL es la ventana de validez de un analisis efimero.
const AnalysisTTL = 24 * time.Hour

type AnalysisState string

const (
	AnalysisEphemeral AnalysisState = "EPHEMERAL"
	AnalysisExpired   AnalysisState = "EXPIRED"
	AnalysisSaved     AnalysisState = "SAVED"
)

// Analysis registra un evento de recomendacion.
type Analysis struct {
	ID          int64            `json:"analysis_id"`
	UserID      *int64           `json:"user_id,omitempty"`
	Preferences PreferenceVector `json:"preferences"`
	CreatedAt   time.Time        `json:"created_at"`
	Saved       bool             `json:"saved"`
}

// ExpiredAt indica si el analisis quedo fuera de la ventana ttl en now.
// El borde es estricto: con exactamente ttl transcurrido sigue vigente.
func (a Analysis) ExpiredAt(now time.Time, ttl time.Duration) bool {
	if a.Saved {
		return false
	}
	return now.Sub(a.CreatedAt) > ttl
}

func (a Analysis) State(now time.Time, ttl time.Duration) AnalysisState {
	switch {
	case a.Saved:
		return AnalysisSaved
	case a.ExpiredAt(now, ttl):
		return AnalysisExpired
	default:
		return AnalysisEphemeral
	}
}

// OwnedBy indica si el analisis pertenece al usuario. Los anonimos no pertenecen a nadie.
func (a Analysis) OwnedBy(userID int64) bool {
	return a.UserID != nil && *a.UserID == userID
}
