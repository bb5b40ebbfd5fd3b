package domain

import "time"

const (
	CollectionNameMaxLen    = 100
	CollectionCommentMaxLen = 255
)

// Collection envuelve un analisis guardado con nombre y comentario del usuario.
type Collection struct {
	ID          int64             `json:"collection_id"`
	UserID      int64             `json:"user_id"`
	AnalysisID  int64             `json:"analysis_id"`
	Name        string            `json:"collection_name"`
	Comment     string            `json:"personal_comment"`
	Preferences *PreferenceVector `json:"preferences,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SaveStatus es el estado del boton "guardar" para un analisis.
// Records lleva las filas tal como las devolvio la fuente.
type SaveStatus struct {
	IsSaved  *int             `json:"is_saved_norm"`
	RowCount int              `json:"rows"`
	Records  []map[string]any `json:"records"`
}
