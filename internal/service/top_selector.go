package service

import "coffee-reco/internal/domain"

const (
	defaultSimilarCount = 4
	maxSimilarCount     = 10
)

// resolveSimilarCount aplica el valor por defecto y valida k en [0,10].
func resolveSimilarCount(k *int) (int, error) {
	if k == nil {
		return defaultSimilarCount, nil
	}
	if *k < 0 || *k > maxSimilarCount {
		return 0, invalidParam("limit must be between 0 and %d", maxSimilarCount)
	}
	return *k, nil
}

// Select devuelve la mejor coincidencia mas hasta k similares distintas, sobre el rango [0,5].
// Un catalogo vacio produce Primary nil y una lista vacia.
func Select(prefs domain.PreferenceVector, catalog []domain.CoffeeProfile, k int) domain.TopResult {
	ranked := Rank(prefs, domain.OpenRange, uniqueProfiles(catalog))
	result := domain.TopResult{Similar: []domain.RankedMatch{}}
	if len(ranked) == 0 {
		return result
	}

	primary := ranked[0]
	result.Primary = &primary
	result.Similar = takeMatches(ranked[1:], k)
	return result
}

// similarTo rankea el catalogo contra el perfil de referencia, excluyendolo.
func similarTo(reference domain.CoffeeProfile, catalog []domain.CoffeeProfile, k int) []domain.RankedMatch {
	candidates := make([]domain.CoffeeProfile, 0, len(catalog))
	for _, p := range uniqueProfiles(catalog) {
		if p.ID != reference.ID {
			candidates = append(candidates, p)
		}
	}
	return takeMatches(Rank(reference.Attributes, domain.StandardRange, candidates), k)
}

func takeMatches(ranked []domain.RankedMatch, k int) []domain.RankedMatch {
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]domain.RankedMatch, k)
	copy(out, ranked[:k])
	return out
}

// uniqueProfiles colapsa ids repetidos quedandose con la primera aparicion.
func uniqueProfiles(catalog []domain.CoffeeProfile) []domain.CoffeeProfile {
	seen := make(map[int64]struct{}, len(catalog))
	out := make([]domain.CoffeeProfile, 0, len(catalog))
	for _, p := range catalog {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
