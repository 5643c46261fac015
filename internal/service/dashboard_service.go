package service

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

const (
	dashboardRecentOrders = 3
	dashboardPopularItems = 3
	salesWindowDays       = 30
	weekDays              = 7
)

// DaySales is the order total of one calendar day.
type DaySales struct {
	Day   string          `json:"day"`
	Date  string          `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

// Summary is the back-office overview.
type Summary struct {
	OrdersToday     int64                       `json:"orders_today"`
	SalesLast30Days decimal.Decimal             `json:"sales_last_30_days"`
	WeeklySales     []DaySales                  `json:"weekly_sales"`
	RegisteredUsers int64                       `json:"registered_users"`
	RecentOrders    []model.Order               `json:"recent_orders"`
	PopularItems    []repository.ItemPopularity `json:"popular_items"`
}

// DashboardService aggregates store activity for administrators.
type DashboardService interface {
	Summary(ctx context.Context) (*Summary, error)
}

type dashboardService struct {
	orderRepo   repository.OrderRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(orderRepo repository.OrderRepository, profileRepo repository.ProfileRepository) DashboardService {
	return &dashboardService{orderRepo: orderRepo, profileRepo: profileRepo, now: time.Now}
}

// Summary runs the dashboard queries concurrently. Sales are line totals,
// delivery fees excluded.
func (s *dashboardService) Summary(ctx context.Context) (*Summary, error) {
	now := s.now()
	today := startOfDay(now)
	out := &Summary{}

	var recent []model.Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.orderRepo.CountSince(gctx, today)
		out.OrdersToday = n
		return err
	})
	g.Go(func() error {
		n, err := s.profileRepo.Count(gctx)
		out.RegisteredUsers = n
		return err
	})
	g.Go(func() error {
		orders, err := s.orderRepo.ListSince(gctx, today.AddDate(0, 0, -salesWindowDays))
		if err != nil {
			return err
		}
		out.SalesLast30Days, out.WeeklySales = aggregateSales(orders, today)
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = s.orderRepo.ListRecent(gctx, dashboardRecentOrders)
		return err
	})
	g.Go(func() error {
		items, err := s.orderRepo.PopularItems(gctx, dashboardPopularItems)
		out.PopularItems = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.RecentOrders = recent
	if out.RecentOrders == nil {
		out.RecentOrders = []model.Order{}
	}
	if out.PopularItems == nil {
		out.PopularItems = []repository.ItemPopularity{}
	}
	return out, nil
}

// aggregateSales sums all orders and buckets the last seven days, oldest first.
func aggregateSales(orders []model.Order, today time.Time) (decimal.Decimal, []DaySales) {
	total := decimal.Zero
	week := make([]DaySales, weekDays)
	first := today.AddDate(0, 0, -(weekDays - 1))
	for i := range week {
		day := first.AddDate(0, 0, i)
		week[i] = DaySales{Day: day.Weekday().String()[:3], Date: day.Format("2006-01-02"), Sales: decimal.Zero}
	}

	for _, o := range orders {
		total = total.Add(o.Total)
		created := o.CreatedAt.In(today.Location())
		if created.Before(first) {
			continue
		}
		idx := int(math.Round(startOfDay(created).Sub(first).Hours() / 24))
		if idx >= 0 && idx < weekDays {
			week[idx].Sales = week[idx].Sales.Add(o.Total)
		}
	}
	return total, week
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
