package order

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/farmlink/farm-market-backend/internal/product"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "order").Logger()

// Reconciler turns unpersisted order lines into order-item rows, resolving
// the owning farmer for each line from the product catalog.
type Reconciler struct {
	repo     Repository
	products product.ServiceInterface
}

func NewReconciler(repo Repository, products product.ServiceInterface) *Reconciler {
	return &Reconciler{repo: repo, products: products}
}

// Resolve maps lines to items without persisting them. Lines whose product
// cannot be found are skipped: in the post-payment path the buyer has
// already been charged, so a partial item list beats blocking confirmation.
func (r *Reconciler) Resolve(lines []Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			logger.Warn().Int("product_id", line.ProductID).Int("quantity", line.Quantity).
				Msg("skipping line with non-positive quantity")
			continue
		}
		p, err := r.products.GetByID(line.ProductID)
		if err != nil {
			logger.Warn().Int("product_id", line.ProductID).Err(err).
				Msg("skipping line, product not found")
			continue
		}
		items = append(items, Item{
			ProductID: line.ProductID,
			FarmerID:  p.FarmerID,
			Quantity:  line.Quantity,
			// price comes from the line, not the live catalog, so a later
			// catalog price change never rewrites history
			Price: line.Price,
		})
	}
	return items
}

// Reconcile persists the resolved items against an existing order and
// returns how many were added. Individual insert failures are logged and
// skipped rather than aborting the batch.
func (r *Reconciler) Reconcile(orderID string, lines []Line) int {
	added := 0
	for _, item := range r.Resolve(lines) {
		item.OrderID = orderID
		if _, err := r.repo.AddItem(item); err != nil {
			logger.Error().Str("order_id", orderID).Int("product_id", item.ProductID).Err(err).
				Msg("could not add order item")
			continue
		}
		added++
	}
	return added
}
