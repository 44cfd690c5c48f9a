package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"greenbasket/internal/domain"
)

const (
	baseRatingFactor = 10.0
	baseScoreFactor  = 0.5

	surveyCategoryBonus  = 40.0
	surveyPriceBandBonus = 20.0
	surveyEcoGradeBonus  = 20.0
	surveyNoPrefBonus    = 10.0
	surveyInterestBonus  = 20.0

	categoryWeightFactor    = 2.0
	interactionCountBonus   = 5.0
	recentInteractionBonus  = 10.0
	recentInteractionWindow = 7 * 24 * time.Hour
	searchMatchBonus        = 3.0

	decayFactor = 0.1
)

// ScoredProduct pairs a candidate with its computed score.
type ScoredProduct struct {
	Product domain.Product `json:"product"`
	Score   float64        `json:"score"`
}

// Score computes the weighted relevance of one product for one profile.
// All bonuses are additive; the recency decay multiplies the total last.
func Score(profile *domain.PreferenceProfile, product domain.Product, now time.Time) float64 {
	score := product.Rating*baseRatingFactor + product.SustainabilityScore*baseScoreFactor

	if profile.Survey.Completed {
		score += surveyAlignment(profile, product)
	}
	if profile.HasSignificantHistory() {
		score += interactionAlignment(profile, product, now)
	}

	ageDays := now.Sub(product.CreatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return score * math.Exp(-decayFactor*ageDays)
}

func surveyAlignment(profile *domain.PreferenceProfile, product domain.Product) float64 {
	var bonus float64
	survey := profile.Survey

	for _, c := range survey.Categories {
		if c == product.Category {
			bonus += surveyCategoryBonus
			break
		}
	}

	if domain.PriceBandFor(product.Price) == survey.PriceRange {
		bonus += surveyPriceBandBonus
	}

	isEcoGrade := product.SustainabilityGrade == domain.GradeA || product.SustainabilityGrade == domain.GradeB
	if survey.EcoPreference == domain.EcoNoPreference {
		bonus += surveyNoPrefBonus
	} else if isEcoGrade {
		bonus += surveyEcoGradeBonus
	}

	haystack := strings.ToLower(product.Name + " " + product.Description)
	for _, interest := range survey.Interests {
		if interest != "" && strings.Contains(haystack, strings.ToLower(interest)) {
			bonus += surveyInterestBonus
			break
		}
	}

	return bonus
}

func interactionAlignment(profile *domain.PreferenceProfile, product domain.Product, now time.Time) float64 {
	var bonus float64

	bonus += profile.CategoryFrequency[product.Category] * categoryWeightFactor

	for _, pi := range profile.ProductInteractions {
		if pi.ProductID != product.ID {
			continue
		}
		bonus += float64(pi.Count) * interactionCountBonus
		if now.Sub(pi.LastInteraction) <= recentInteractionWindow {
			bonus += recentInteractionBonus
		}
		break
	}

	haystack := strings.ToLower(product.Name + " " + product.Description)
	for _, search := range profile.SearchHistory {
		if search.Query != "" && strings.Contains(haystack, strings.ToLower(search.Query)) {
			bonus += searchMatchBonus
		}
	}

	return bonus
}

// Rank scores every candidate and returns the top limit products in
// descending score order. Equal scores keep the candidates' original
// order.
func Rank(profile *domain.PreferenceProfile, candidates []domain.Product, limit int, now time.Time) []ScoredProduct {
	scored := make([]ScoredProduct, len(candidates))
	for i, p := range candidates {
		scored[i] = ScoredProduct{Product: p, Score: Score(profile, p, now)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// InferredGradePreference returns the majority sustainability grade
// among the user's interacted products.
func InferredGradePreference(products []domain.Product) *domain.SustainabilityGrade {
	if len(products) == 0 {
		return nil
	}

	counts := map[domain.SustainabilityGrade]int{}
	for _, p := range products {
		counts[p.SustainabilityGrade]++
	}

	var best domain.SustainabilityGrade
	bestCount := 0
	for _, p := range products {
		// iterate products, not the map, to keep the winner deterministic
		if counts[p.SustainabilityGrade] > bestCount {
			best = p.SustainabilityGrade
			bestCount = counts[p.SustainabilityGrade]
		}
	}
	return &best
}

// InferredPriceBand buckets the average price of interacted products.
func InferredPriceBand(products []domain.Product) *domain.PriceBand {
	if len(products) == 0 {
		return nil
	}

	var sum float64
	for _, p := range products {
		sum += p.Price
	}
	band := domain.PriceBandFor(sum / float64(len(products)))
	return &band
}
