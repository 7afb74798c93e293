package kpi

import (
	apperrors "kpicli/internal/errors"
	"kpicli/pkg/contracts/domain"
)

// ClassifyOrders assigns the customer loyalty flags. This is a
// whole-dataset operation: repeat status depends on every order a customer
// placed, so the orders are first grouped by customer and the flags are
// assigned in a second pass over the grouping index.
//
// Within a customer group the earliest-timestamped order is the first
// order; when several orders share the exact minimum timestamp the one
// earliest in the input wins.
func ClassifyOrders(orders []domain.EnrichedOrder) []domain.ClassifiedOrder {
	groups := make(map[string][]int)
	for i, order := range orders {
		groups[order.CustomerID] = append(groups[order.CustomerID], i)
	}

	firstOrder := make(map[string]int, len(groups))
	for customer, indices := range groups {
		first := indices[0]
		for _, i := range indices[1:] {
			if orders[i].OrderedAt.Before(orders[first].OrderedAt) {
				first = i
			}
		}
		firstOrder[customer] = first
	}

	classified := make([]domain.ClassifiedOrder, 0, len(orders))
	for i, order := range orders {
		classified = append(classified, domain.ClassifiedOrder{
			EnrichedOrder:    order,
			IsRepeatCustomer: len(groups[order.CustomerID]) >= 2,
			IsFirstOrder:     firstOrder[order.CustomerID] == i,
		})
	}

	return classified
}

// Summarize computes the dataset-wide customer figures. The repeat rate
// here is (total orders - unique customers) / unique customers, the
// average number of extra orders per customer. It is a different metric
// from the monthly repeat-order percentage and is labeled distinctly in
// every output. Returns NoCustomersError for an empty dataset, the one
// aggregate where a zero denominator is an input-data error.
func Summarize(orders []domain.ClassifiedOrder) (domain.CustomerSummary, error) {
	customers := make(map[string]struct{}, len(orders))
	for _, order := range orders {
		customers[order.CustomerID] = struct{}{}
	}

	if len(customers) == 0 {
		return domain.CustomerSummary{}, &apperrors.NoCustomersError{}
	}

	rate := float64(len(orders)-len(customers)) / float64(len(customers))
	return domain.CustomerSummary{
		UniqueCustomers: len(customers),
		TotalOrders:     len(orders),
		RepeatRate:      rate,
		UniqueRate:      1 - rate,
	}, nil
}
