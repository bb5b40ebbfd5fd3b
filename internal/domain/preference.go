package domain

// Atributos del vector de preferencias. El orden es el que se usa para
// generar los motivos de una recomendacion.
const (
	AttrAroma     = "aroma"
	AttrAcidity   = "acidity"
	AttrNutty     = "nutty"
	AttrSweetness = "sweetness"
	AttrBody      = "body"
)

// Attributes lista los atributos en orden estable.
var Attributes = []string{AttrAroma, AttrAcidity, AttrNutty, AttrSweetness, AttrBody}

// ScoreRange es el rango inclusivo valido para cada atributo.
type ScoreRange struct {
	Min int
	Max int
}

var (
	// StandardRange aplica a la recomendacion estandar.
	StandardRange = ScoreRange{Min: 1, Max: 5}
	// OpenRange aplica al Top-5; 0 significa "sin preferencia".
	OpenRange = ScoreRange{Min: 0, Max: 5}
)

func (r ScoreRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// PreferenceVector es la entrada de gustos del usuario (o el perfil de un cafe).
type PreferenceVector struct {
	Aroma     int `json:"aroma"`
	Acidity   int `json:"acidity"`
	Nutty     int `json:"nutty"`
	Body      int `json:"body"`
	Sweetness int `json:"sweetness"`
}

// Get devuelve el valor de un atributo por nombre.
func (p PreferenceVector) Get(attr string) int {
	switch attr {
	case AttrAroma:
		return p.Aroma
	case AttrAcidity:
		return p.Acidity
	case AttrNutty:
		return p.Nutty
	case AttrBody:
		return p.Body
	case AttrSweetness:
		return p.Sweetness
	}
	return 0
}

// Floats devuelve el vector en el orden de columnas de la base (aroma, acidity, nutty, body, sweetness).
func (p PreferenceVector) Floats() []float32 {
	return []float32{
		float32(p.Aroma),
		float32(p.Acidity),
		float32(p.Nutty),
		float32(p.Body),
		float32(p.Sweetness),
	}
}

// PreferenceVectorFromFloats es la inversa de Floats. Devuelve false si la longitud no es 5.
func PreferenceVectorFromFloats(v []float32) (PreferenceVector, bool) {
	if len(v) != 5 {
		return PreferenceVector{}, false
	}
	return PreferenceVector{
		Aroma:     int(v[0]),
		Acidity:   int(v[1]),
		Nutty:     int(v[2]),
		Body:      int(v[3]),
		Sweetness: int(v[4]),
	}, true
}

// PreferenceInput es la entrada cruda; nil significa atributo ausente.
type PreferenceInput struct {
	Aroma     *int
	Acidity   *int
	Nutty     *int
	Body      *int
	Sweetness *int
}
