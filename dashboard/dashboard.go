package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
)

// Range selects how far back the dashboard looks.
type Range string

const (
	RangeAll Range = "all"
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
)

var rangeDays = map[Range]int{Range7d: 7, Range30d: 30, Range90d: 90}

// ParseRange accepts all, 7d, 30d or 90d. Empty means all.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return RangeAll, nil
	}
	r := Range(s)
	if r == RangeAll {
		return r, nil
	}
	if _, ok := rangeDays[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q", s)
}

// Since returns the start of the day N days before now. ok is false for
// RangeAll.
func (r Range) Since(now time.Time) (since time.Time, ok bool) {
	days, ok := rangeDays[r]
	if !ok {
		return time.Time{}, false
	}
	d := now.AddDate(0, 0, -days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()), true
}

// Contains reports whether t falls inside the range as seen at now.
func (r Range) Contains(t, now time.Time) bool {
	since, ok := r.Since(now)
	return !ok || !t.Before(since)
}

var palette = []string{"#3b82f6", "#22c55e", "#f97316", "#8b5cf6", "#ec4899", "#14b8a6"}

type ServiceRevenue struct {
	Name    string `json:"name"`
	Revenue int64  `json:"revenue"`
	Fill    string `json:"fill"`
}

type StatusCount struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalRevenue     int64             `json:"total_revenue"`
	TotalOrders      int               `json:"total_orders"`
	SuccessfulOrders int               `json:"successful_orders"`
	PendingOrders    int               `json:"pending_orders"`
	RevenueByService []ServiceRevenue  `json:"revenue_by_service"`
	OrdersByStatus   []StatusCount     `json:"orders_by_status"`
	RecentOrders     []models.CartItem `json:"recent_orders"`
}

const recentLimit = 5

// Summarize computes the dashboard figures. items must be newest first.
// Revenue only counts completed orders; pending counts received and
// in-progress orders.
func Summarize(items []models.CartItem) Summary {
	s := Summary{
		TotalOrders:      len(items),
		RevenueByService: []ServiceRevenue{},
		OrdersByStatus:   []StatusCount{},
		RecentOrders:     []models.CartItem{},
	}

	byService := map[string]int{}
	byStatus := map[string]int{}
	var extraStatuses []string

	for _, it := range items {
		status := models.OrderStatus(it.Status)
		if it.Status == "" {
			status = models.OrderStatusPending
		}
		if _, seen := byStatus[string(status)]; !seen && !status.Valid() {
			extraStatuses = append(extraStatuses, string(status))
		}
		byStatus[string(status)]++

		if status.Open() {
			s.PendingOrders++
		}
		if status != models.OrderStatusSuccess {
			continue
		}
		s.SuccessfulOrders++
		revenue := it.Subtotal()
		s.TotalRevenue += revenue
		if idx, ok := byService[it.ServiceTitle]; ok {
			s.RevenueByService[idx].Revenue += revenue
			continue
		}
		byService[it.ServiceTitle] = len(s.RevenueByService)
		s.RevenueByService = append(s.RevenueByService, ServiceRevenue{
			Name:    it.ServiceTitle,
			Revenue: revenue,
			Fill:    palette[len(s.RevenueByService)%len(palette)],
		})
	}

	sort.SliceStable(s.RevenueByService, func(i, j int) bool {
		return s.RevenueByService[i].Revenue > s.RevenueByService[j].Revenue
	})

	names := make([]string, 0, len(models.OrderStatuses)+len(extraStatuses))
	for _, st := range models.OrderStatuses {
		names = append(names, string(st))
	}
	for _, name := range append(names, extraStatuses...) {
		if n := byStatus[name]; n > 0 {
			s.OrdersByStatus = append(s.OrdersByStatus, StatusCount{
				Name:  name,
				Label: models.OrderStatus(name).Label(),
				Count: n,
			})
		}
	}

	if len(items) > recentLimit {
		items = items[:recentLimit]
	}
	s.RecentOrders = append(s.RecentOrders, items...)
	return s
}
