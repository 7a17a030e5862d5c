// Package metrics derives summary statistics and month-bucketed time series
// from the customer store. Everything is computed on demand from current
// state; nothing is cached or pushed.
package metrics

import (
	"context"
	"math"
	"strconv"

	"winsbygroup.com/leadserver/internal/customer"
)

// Summary is the dashboard headline block.
//
// RepeatCustomers is a deliberately simplistic placeholder: the dataset has
// no purchase history, so the upstream product decided to show
// max(unique-1, 0) until real order data lands. Keep it as-is; it is not a
// bug to fix.
type Summary struct {
	UniqueCustomers int    `json:"unique_customers"`
	TotalOrders     int    `json:"total_orders"`
	RepeatCustomers int    `json:"repeat_customers"`
	RepeatRate      string `json:"repeat_rate"` // e.g. "66.67%"
}

type Service struct {
	customers *customer.Service
}

func NewService(customers *customer.Service) *Service {
	return &Service{customers: customers}
}

// Summary computes the headline metrics. An empty store yields zero counts
// and a "0%" rate (no division by zero).
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	unique, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}

	repeat := unique - 1
	if repeat < 0 {
		repeat = 0
	}

	rate := 0.0
	if unique > 0 {
		rate = math.Round(float64(repeat)/float64(unique)*100*100) / 100
	}

	return &Summary{
		UniqueCustomers: unique,
		TotalOrders:     unique, // placeholder until order data exists
		RepeatCustomers: repeat,
		RepeatRate:      strconv.FormatFloat(rate, 'f', -1, 64) + "%",
	}, nil
}

// Monthly buckets every record's created_at by calendar year-month.
// Months with no records are absent (sparse, not zero-filled), and map
// iteration order carries no meaning.
func (s *Service) Monthly(ctx context.Context) (map[string]int, error) {
	records, err := s.customers.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int)
	for _, r := range records {
		if len(r.CreatedAt) < 7 {
			continue // malformed date, skip rather than abort the series
		}
		buckets[r.CreatedAt[:7]]++ // "YYYY-MM"
	}
	return buckets, nil
}
