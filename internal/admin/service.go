package admin

import (
	"context"
	"sort"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
)

// Service aggregates back-office views over the order, user and product
// stores. It holds no state of its own.
type Service struct {
	orders   order.Store
	users    user.Store
	products product.Store
}

func NewService(orders order.Store, users user.Store, products product.Store) *Service {
	return &Service{orders: orders, users: users, products: products}
}

type Stats struct {
	Revenue         float64 `json:"revenue"`
	Orders          int     `json:"orders"`
	Users           int     `json:"users"`
	Products        int     `json:"products"`
	PendingOrders   int     `json:"pendingOrders"`
	ConfirmedOrders int     `json:"confirmedOrders"`
	ShippedOrders   int     `json:"shippedOrders"`
	DeliveredOrders int     `json:"deliveredOrders"`
}

type RecentOrder struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	User        string       `json:"user"`
	UserEmail   string       `json:"userEmail"`
	Amount      float64      `json:"amount"`
	Status      order.Status `json:"status"`
	Time        time.Time    `json:"time"`
}

type Dashboard struct {
	Stats        Stats         `json:"stats"`
	RecentOrders []RecentOrder `json:"recentOrders"`
}

// DashboardStats builds the admin landing page numbers.
func (s *Service) DashboardStats(ctx context.Context) (*Dashboard, error) {
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.orders.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}
	recentOrders := make([]RecentOrder, 0, len(recent))
	for _, o := range recent {
		name, email := s.userLabel(ctx, o.UserID)
		recentOrders = append(recentOrders, RecentOrder{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			User:        name,
			UserEmail:   email,
			Amount:      o.TotalAmount,
			Status:      o.OrderStatus,
			Time:        o.CreatedAt,
		})
	}

	return &Dashboard{
		Stats: Stats{
			Revenue:         revenue,
			Orders:          totalOrders,
			Users:           totalUsers,
			Products:        totalProducts,
			PendingOrders:   byStatus[order.StatusPending],
			ConfirmedOrders: byStatus[order.StatusConfirmed],
			ShippedOrders:   byStatus[order.StatusShipped],
			DeliveredOrders: byStatus[order.StatusDelivered],
		},
		RecentOrders: recentOrders,
	}, nil
}

type CustomerSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	JoinDate      time.Time `json:"joinDate"`
	TotalOrders   int       `json:"totalOrders"`
	TotalSpent    float64   `json:"totalSpent"`
	MostPurchased string    `json:"mostPurchased"`
	Status        string    `json:"status"`
}

// ListCustomers returns every non-admin user with purchase stats.
func (s *Service) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	users, err := s.users.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CustomerSummary, 0, len(users))
	for _, u := range users {
		orders, err := s.orders.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}

		var totalSpent float64
		productCounts := map[string]int{}
		for _, o := range orders {
			totalSpent += o.TotalAmount
			for _, item := range o.Items {
				productCounts[item.Name] += item.Quantity
			}
		}

		status := "inactive"
		if len(orders) > 0 {
			status = "active"
		}

		summaries = append(summaries, CustomerSummary{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			Phone:         u.Phone,
			JoinDate:      u.CreatedAt,
			TotalOrders:   len(orders),
			TotalSpent:    totalSpent,
			MostPurchased: mostPurchased(productCounts),
			Status:        status,
		})
	}
	return summaries, nil
}

func mostPurchased(counts map[string]int) string {
	best, bestCount := "N/A", 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && bestCount > 0 && name < best) {
			best, bestCount = name, count
		}
	}
	return best
}

type CustomerOrder struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	Date        time.Time    `json:"date"`
	Status      order.Status `json:"status"`
	Total       float64      `json:"total"`
	Items       int          `json:"items"`
}

type CustomerDetails struct {
	CustomerSummary
	Orders []CustomerOrder `json:"orders"`
}

// GetCustomer returns one customer with full order history.
func (s *Service) GetCustomer(ctx context.Context, id string) (*CustomerDetails, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	var totalSpent float64
	history := make([]CustomerOrder, 0, len(orders))
	for _, o := range orders {
		totalSpent += o.TotalAmount
		history = append(history, CustomerOrder{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Date:        o.CreatedAt,
			Status:      o.OrderStatus,
			Total:       o.TotalAmount,
			Items:       len(o.Items),
		})
	}

	return &CustomerDetails{
		CustomerSummary: CustomerSummary{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Phone:       u.Phone,
			JoinDate:    u.CreatedAt,
			TotalOrders: len(orders),
			TotalSpent:  totalSpent,
		},
		Orders: history,
	}, nil
}

type RevenuePoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
	AvgOrder float64 `json:"avgOrder"`
}

type CategorySales struct {
	Name  string  `json:"name"`
	Sales float64 `json:"sales"`
	Value int     `json:"value"` // percentage share of revenue
}

type TopProduct struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

type Metrics struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalOrders    int     `json:"totalOrders"`
	TotalUsers     int     `json:"totalUsers"`
	TotalProducts  int     `json:"totalProducts"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
	ConversionRate float64 `json:"conversionRate"`
}

type Analytics struct {
	Metrics      Metrics         `json:"metrics"`
	RevenueData  []RevenuePoint  `json:"revenueData"`
	CategoryData []CategorySales `json:"categoryData"`
	TopProducts  []TopProduct    `json:"topProducts"`
}

// analyticsDays maps a time range parameter to its day count.
var analyticsDays = map[string]int{
	"24h": 1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// GetAnalytics builds the time-ranged sales report.
func (s *Service) GetAnalytics(ctx context.Context, timeRange string) (*Analytics, error) {
	days, ok := analyticsDays[timeRange]
	if !ok {
		days = 7
	}

	now := time.Now()
	start := now.Add(-time.Duration(days) * 24 * time.Hour)
	orders, err := s.orders.ListSince(ctx, start)
	if err != nil {
		return nil, err
	}

	var totalRevenue float64
	for _, o := range orders {
		totalRevenue += o.TotalAmount
	}

	totalUsers, err := s.users.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	avgOrder := 0.0
	if len(orders) > 0 {
		avgOrder = totalRevenue / float64(len(orders))
	}

	return &Analytics{
		Metrics: Metrics{
			TotalRevenue:  totalRevenue,
			TotalOrders:   len(orders),
			TotalUsers:    totalUsers,
			TotalProducts: totalProducts,
			AvgOrderValue: avgOrder,
			// Needs cart session tracking; fixed placeholder as in the
			// dashboard's first release.
			ConversionRate: 3.24,
		},
		RevenueData:  s.revenueByDay(orders, now, days),
		CategoryData: s.categorySales(ctx, orders, totalRevenue),
		TopProducts:  topProducts(orders, 5),
	}, nil
}

func (s *Service) revenueByDay(orders []order.Order, now time.Time, days int) []RevenuePoint {
	points := make([]RevenuePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.Add(24 * time.Hour)

		var revenue float64
		count := 0
		for _, o := range orders {
			if !o.CreatedAt.Before(dayStart) && o.CreatedAt.Before(dayEnd) {
				revenue += o.TotalAmount
				count++
			}
		}

		avg := 0.0
		if count > 0 {
			avg = revenue / float64(count)
		}
		points = append(points, RevenuePoint{
			Date:     dayStart.Format("Mon Jan 2"),
			Revenue:  revenue,
			Orders:   count,
			AvgOrder: avg,
		})
	}
	return points
}

func (s *Service) categorySales(ctx context.Context, orders []order.Order, totalRevenue float64) []CategorySales {
	byCategory := map[string]float64{}
	categoryOf := map[string]string{}
	for _, o := range orders {
		for _, item := range o.Items {
			category, ok := categoryOf[item.ProductID]
			if !ok {
				category = "Other"
				if p, err := s.products.GetByID(ctx, item.ProductID); err == nil {
					category = p.Category
				}
				categoryOf[item.ProductID] = category
			}
			byCategory[category] += item.Price * float64(item.Quantity)
		}
	}

	result := make([]CategorySales, 0, len(byCategory))
	for name, sales := range byCategory {
		share := 0
		if totalRevenue > 0 {
			share = int(sales/totalRevenue*100 + 0.5)
		}
		result = append(result, CategorySales{Name: name, Sales: sales, Value: share})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sales > result[j].Sales })
	return result
}

func topProducts(orders []order.Order, limit int) []TopProduct {
	sales := map[string]*TopProduct{}
	for _, o := range orders {
		for _, item := range o.Items {
			entry, ok := sales[item.Name]
			if !ok {
				entry = &TopProduct{Name: item.Name}
				sales[item.Name] = entry
			}
			entry.Sales += item.Quantity
			entry.Revenue += item.Price * float64(item.Quantity)
		}
	}

	result := make([]TopProduct, 0, len(sales))
	for _, entry := range sales {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Revenue > result[j].Revenue })
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// userLabel resolves a display name and email, tolerating deleted users.
func (s *Service) userLabel(ctx context.Context, userID string) (string, string) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "Guest", ""
	}
	return u.Name, u.Email
}
