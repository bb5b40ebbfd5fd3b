package service

import "coffee-reco/internal/domain"

// ParsePreferences construye un PreferenceVector validando presencia y rango de los cinco atributos.
func ParsePreferences(in domain.PreferenceInput, rng domain.ScoreRange) (domain.PreferenceVector, error) {
	var prefs domain.PreferenceVector
	fields := []struct {
		name string
		val  *int
		dst  *int
	}{
		{domain.AttrAroma, in.Aroma, &prefs.Aroma},
		{domain.AttrAcidity, in.Acidity, &prefs.Acidity},
		{domain.AttrNutty, in.Nutty, &prefs.Nutty},
		{domain.AttrBody, in.Body, &prefs.Body},
		{domain.AttrSweetness, in.Sweetness, &prefs.Sweetness},
	}

	for _, f := range fields {
		if f.val == nil {
			return domain.PreferenceVector{}, invalidParam("%s is required", f.name)
		}
		if !rng.Contains(*f.val) {
			return domain.PreferenceVector{}, invalidParam("%s must be between %d and %d", f.name, rng.Min, rng.Max)
		}
		*f.dst = *f.val
	}
	return prefs, nil
}
