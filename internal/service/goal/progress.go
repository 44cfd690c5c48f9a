package goal

import (
	"fmt"
	"math"

	"greenbasket/internal/domain"
)

// purchaseContribution counts a single purchase's items against the
// goal. Quantities weigh in: a line item of quantity n counts n items.
func purchaseContribution(g *domain.SustainabilityGoal, purchase domain.Purchase) (totalItems, metItems int) {
	for _, item := range purchase.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		totalItems += qty
		if g.MeetsGoal(item) {
			metItems += qty
		}
	}
	return totalItems, metItems
}

// purchaseMeetsGoal judges one purchase against the goal's own target:
// the purchase counts toward the streak when its item percentage
// reaches the goal's target percentage.
func purchaseMeetsGoal(g *domain.SustainabilityGoal, purchase domain.Purchase) bool {
	total, met := purchaseContribution(g, purchase)
	if total == 0 {
		return false
	}
	return percentage(met, total) >= g.TargetPercentage
}

func percentage(met, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(met) / float64(total) * 100
}

// Recompute walks the entire purchase history and derives the goal's
// aggregate counters, streaks and breakdowns from scratch.
func Recompute(g *domain.SustainabilityGoal, purchases []domain.Purchase) domain.GoalStats {
	stats := domain.GoalStats{
		GoalID:        g.ID,
		ByCategory:    map[string]int{},
		ByGrade:       map[string]int{},
		ByScoreBucket: map[string]int{},
		ByMonth:       map[string]int{},
	}

	currentStreak := 0
	for _, purchase := range purchases {
		total, met := purchaseContribution(g, purchase)
		stats.TotalPurchases++
		stats.TotalItems += total
		stats.GoalMetItems += met

		if purchaseMeetsGoal(g, purchase) {
			currentStreak++
			if currentStreak > stats.Streak.Longest {
				stats.Streak.Longest = currentStreak
			}
		} else {
			currentStreak = 0
		}

		month := purchase.PurchasedAt.Format("2006-01")
		for _, item := range purchase.Items {
			if !g.MeetsGoal(item) {
				continue
			}
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			stats.ByCategory[item.Category] += qty
			stats.ByGrade[string(item.SustainabilityGrade)] += qty
			stats.ByScoreBucket[scoreBucket(item.SustainabilityScore)] += qty
			stats.ByMonth[month] += qty
		}
	}
	stats.Streak.Current = currentStreak

	stats.CurrentPercentage = percentage(stats.GoalMetItems, stats.TotalItems)
	stats.Status = domain.StatusFor(stats.CurrentPercentage, g.TargetPercentage)
	stats.IsAchieved = stats.CurrentPercentage >= g.TargetPercentage
	return stats
}

// FoldPurchase adds one purchase's contribution to existing counters.
// The goal repository's ApplyDelta performs the same fold in SQL;
// folding purchases one at a time converges to the same counters a
// full Recompute yields over the same set.
func FoldPurchase(g *domain.SustainabilityGoal, progress domain.GoalProgress, purchase domain.Purchase) domain.GoalProgress {
	total, met := purchaseContribution(g, purchase)

	progress.TotalPurchases++
	progress.TotalItems += total
	progress.GoalMetItems += met
	progress.CurrentPercentage = percentage(progress.GoalMetItems, progress.TotalItems)
	return progress
}

func scoreBucket(score float64) string {
	if score >= 100 {
		return "80-100"
	}
	if score < 0 {
		score = 0
	}
	low := int(math.Floor(score/20)) * 20
	if low >= 80 {
		return "80-100"
	}
	return fmt.Sprintf("%d-%d", low, low+19)
}
