package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

// SelectBestRate picks, among the rates applicable to the vehicle class at
// the given instant, the one that yields the lowest subtotal for the dwell
// time. The customer is always charged the cheapest legally-applicable
// option, which protects against a misconfigured catalog producing unfairly
// high charges. Ties keep the input order (first one wins); callers that
// need cross-engine determinism must feed the catalog in a stable order.
func SelectBestRate(class domain.VehicleClass, hours decimal.Decimal, rates []domain.Rate, now time.Time) (*domain.Rate, error) {
	var candidates []*domain.Rate
	for i := range rates {
		if rates[i].ApplicableAt(class, now) {
			candidates = append(candidates, &rates[i])
		}
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoApplicableRate.WithMessage(
			fmt.Sprintf("No active rate configured for vehicle class %s, create one before billing", class))
	}

	// Single match: no cost comparison needed.
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	subtotals := make([]decimal.Decimal, len(candidates))
	for i, rate := range candidates {
		calc, err := CalculateAmount(hours, rate)
		if err != nil {
			return nil, err
		}
		subtotals[i] = calc.Subtotal
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return subtotals[order[a]].LessThan(subtotals[order[b]])
	})

	return candidates[order[0]], nil
}
