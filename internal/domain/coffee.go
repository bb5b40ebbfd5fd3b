package domain

const (
	CategorySingleOrigin = "single_origin"
	CategoryBlend        = "blend"

	OriginEthiopia = "ethiopia"
	OriginColombia = "colombia"
)

// CoffeeProfile es un cafe del catalogo. Solo lectura para este servicio.
type CoffeeProfile struct {
	ID          int64            `json:"coffee_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Origin      string           `json:"origin,omitempty"`
	Attributes  PreferenceVector `json:"attributes"`
}

// RankedMatch es un resultado de ranking; nunca se persiste.
type RankedMatch struct {
	CoffeeID int64    `json:"coffee_id"`
	Name     string   `json:"name"`
	Score    int      `json:"match_score"`
	Reasons  []string `json:"reasons"`
}

// TopResult es la salida de la variante Top-5.
type TopResult struct {
	Primary *RankedMatch  `json:"primary"`
	Similar []RankedMatch `json:"similar"`
}
