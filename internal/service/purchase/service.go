package purchase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"greenbasket/internal/cache"
	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
	"greenbasket/internal/service/goal"
	"greenbasket/internal/service/milestone"
	"greenbasket/internal/service/tracker"
)

type Service interface {
	// TrackPurchase persists the purchase, folds it into every active
	// goal's progress and fires any crossed milestones. Milestone
	// creation failures are surfaced but never roll the progress back.
	TrackPurchase(ctx context.Context, userID uuid.UUID, input domain.CreatePurchaseInput) (*domain.Purchase, error)
	History(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error)
}

type service struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	goalRepo     repository.GoalRepository
	goalSvc      goal.Service
	milestoneSvc milestone.Service
	trackerSvc   tracker.Service
	cache        *cache.Cache
}

func NewService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	goalRepo repository.GoalRepository,
	goalSvc goal.Service,
	milestoneSvc milestone.Service,
	trackerSvc tracker.Service,
	c *cache.Cache,
) Service {
	return &service{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		goalRepo:     goalRepo,
		goalSvc:      goalSvc,
		milestoneSvc: milestoneSvc,
		trackerSvc:   trackerSvc,
		cache:        c,
	}
}

func (s *service) TrackPurchase(ctx context.Context, userID uuid.UUID, input domain.CreatePurchaseInput) (*domain.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, domain.NewValidationError("items", "at least one item is required")
	}

	purchase, err := s.buildPurchase(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.recordInteractions(ctx, userID, purchase)

	goalErr := s.updateGoals(ctx, userID, *purchase)
	s.cache.Invalidate("getUserGoals", "getGoalStats", "getRecommendations", "getPreferences")
	if goalErr != nil {
		// progress rows already written stay written; the caller just
		// learns a milestone notification may be missing
		return purchase, goalErr
	}
	return purchase, nil
}

// buildPurchase snapshots current product attributes into line items.
// Unknown or inactive products are skipped silently.
func (s *service) buildPurchase(ctx context.Context, userID uuid.UUID, input domain.CreatePurchaseInput) (*domain.Purchase, error) {
	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	purchase := &domain.Purchase{
		ID:          uuid.New(),
		UserID:      userID,
		PurchasedAt: time.Now(),
	}
	for _, item := range input.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		purchase.Items = append(purchase.Items, domain.PurchaseItem{
			ProductID:           product.ID,
			ProductName:         product.Name,
			Category:            product.Category,
			Quantity:            qty,
			UnitPrice:           product.Price,
			SustainabilityGrade: product.SustainabilityGrade,
			SustainabilityScore: product.SustainabilityScore,
		})
		purchase.Total += product.Price * float64(qty)
	}

	if len(purchase.Items) == 0 {
		return nil, domain.NewValidationError("items", "no purchasable products in the order")
	}
	return purchase, nil
}

// recordInteractions feeds each line item into the preference tracker
// as a purchase interaction. Tracker failures never fail the purchase.
func (s *service) recordInteractions(ctx context.Context, userID uuid.UUID, purchase *domain.Purchase) {
	for _, item := range purchase.Items {
		productID := item.ProductID
		category := item.Category
		err := s.trackerSvc.Track(ctx, userID, domain.TrackInteractionInput{
			Type:      domain.InteractionPurchase,
			ProductID: &productID,
			Category:  &category,
		})
		if err != nil {
			log.Printf("Failed to record purchase interaction for product %s: %v", productID, err)
		}
	}
}

func (s *service) updateGoals(ctx context.Context, userID uuid.UUID, purchase domain.Purchase) error {
	goals, err := s.goalRepo.ListByUser(ctx, userID, true)
	if err != nil {
		return err
	}

	var firstErr error
	for i := range goals {
		g := &goals[i]

		// previous comes from the atomic fold, not the snapshot read
		// above, so concurrent purchases see disjoint crossing windows
		previous, progress, err := s.goalSvc.ApplyPurchase(ctx, g, purchase)
		if err != nil {
			log.Printf("Failed to update progress for goal %s: %v", g.ID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if _, err := s.milestoneSvc.CheckMilestones(ctx, g, previous, progress.CurrentPercentage); err != nil {
			log.Printf("Milestone check failed for goal %s: %v", g.ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	return s.purchaseRepo.ListByUser(ctx, userID)
}
