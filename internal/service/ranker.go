package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"coffee-reco/internal/domain"
)

const maxReasons = 3

var categoryNotes = map[string]string{
	domain.CategorySingleOrigin: "Single origin coffee for pure flavor experience",
	domain.CategoryBlend:        "Expertly crafted blend for complex flavor profile",
}

var originNotes = map[string]string{
	domain.OriginEthiopia: "Ethiopian beans known for bright acidity and floral notes",
	domain.OriginColombia: "Colombian beans with balanced flavor and medium body",
}

// Rank ordena el catalogo por similitud con prefs. Los empates conservan el orden del catalogo.
func Rank(prefs domain.PreferenceVector, rng domain.ScoreRange, catalog []domain.CoffeeProfile) []domain.RankedMatch {
	maxDistance := math.Sqrt(5 * math.Pow(float64(rng.Max-rng.Min), 2))

	matches := make([]domain.RankedMatch, 0, len(catalog))
	for _, coffee := range catalog {
		matches = append(matches, domain.RankedMatch{
			CoffeeID: coffee.ID,
			Name:     coffee.Name,
			Score:    similarityScore(distance(prefs, coffee.Attributes), maxDistance),
			Reasons:  matchReasons(prefs, coffee),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func distance(a, b domain.PreferenceVector) float64 {
	var sum float64
	for _, attr := range domain.Attributes {
		d := float64(a.Get(attr) - b.Get(attr))
		sum += d * d
	}
	return math.Sqrt(sum)
}

func similarityScore(d, maxDistance float64) int {
	if maxDistance <= 0 {
		if d == 0 {
			return 100
		}
		return 0
	}
	score := int(math.Round((1 - d/maxDistance) * 100))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

func matchReasons(prefs domain.PreferenceVector, coffee domain.CoffeeProfile) []string {
	reasons := make([]string, 0, maxReasons)
	for _, attr := range domain.Attributes {
		user := prefs.Get(attr)
		gap := user - coffee.Attributes.Get(attr)
		if gap < 0 {
			gap = -gap
		}
		switch {
		case gap <= 1:
			reasons = append(reasons, fmt.Sprintf("Perfect %s %s that matches your preference", intensityBand(user), attr))
		case gap == 2:
			reasons = append(reasons, fmt.Sprintf("Good %s balance for your taste", attr))
		}
	}

	if note, ok := categoryNotes[normalizeTag(coffee.Category)]; ok {
		reasons = append(reasons, note)
	}
	if note, ok := originNotes[normalizeTag(coffee.Origin)]; ok {
		reasons = append(reasons, note)
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

func intensityBand(score int) string {
	switch {
	case score >= 4:
		return "strong"
	case score <= 2:
		return "mild"
	default:
		return "moderate"
	}
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
