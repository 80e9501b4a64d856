package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/storefront/internal/admin"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *admin.Service
	orders   *mocks.MockOrderStore
	users    *mocks.MockUserStore
	products *mocks.MockProductStore
}

func newFixture() *fixture {
	orders := mocks.NewMockOrderStore()
	users := mocks.NewMockUserStore()
	products := mocks.NewMockProductStore()
	return &fixture{
		svc:      admin.NewService(orders, users, products),
		orders:   orders,
		users:    users,
		products: products,
	}
}

func (f *fixture) seedUser(t *testing.T, u user.User) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &u))
}

func (f *fixture) seedOrder(t *testing.T, o order.Order) {
	t.Helper()
	require.NoError(t, f.orders.Create(context.Background(), &o))
}

func (f *fixture) seedProduct(t *testing.T, p product.Product) {
	t.Helper()
	require.NoError(t, f.products.Create(context.Background(), &p))
}

// ============================================
// DashboardStats
// ============================================

func TestDashboardStats(t *testing.T) {
	f := newFixture()
	f.seedUser(t, user.User{ID: "u1", Name: "Jane Doe", Email: "jane@example.com"})
	f.seedUser(t, user.User{ID: "admin", Role: user.RoleAdmin})
	f.seedProduct(t, product.Product{ID: "p1", Name: "Shirt", Price: 1299, Stock: 10})

	now := time.Now()
	f.seedOrder(t, order.Order{
		ID: "o1", OrderNumber: "ORD-1", UserID: "u1", TotalAmount: 100,
		OrderStatus: order.StatusPending, CreatedAt: now.Add(-2 * time.Hour),
	})
	f.seedOrder(t, order.Order{
		ID: "o2", OrderNumber: "ORD-2", UserID: "u1", TotalAmount: 250,
		OrderStatus: order.StatusDelivered, CreatedAt: now.Add(-1 * time.Hour),
	})

	dash, err := f.svc.DashboardStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 350.0, dash.Stats.Revenue)
	assert.Equal(t, 2, dash.Stats.Orders)
	assert.Equal(t, 2, dash.Stats.Users)
	assert.Equal(t, 1, dash.Stats.Products)
	assert.Equal(t, 1, dash.Stats.PendingOrders)
	assert.Equal(t, 1, dash.Stats.DeliveredOrders)
	assert.Zero(t, dash.Stats.ShippedOrders)

	require.Len(t, dash.RecentOrders, 2)
	// Newest first.
	assert.Equal(t, "ORD-2", dash.RecentOrders[0].OrderNumber)
	assert.Equal(t, "Jane Doe", dash.RecentOrders[0].User)
	assert.Equal(t, "jane@example.com", dash.RecentOrders[0].UserEmail)
}

func TestDashboardStats_ToleratesDeletedUser(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, order.Order{
		ID: "o1", OrderNumber: "ORD-1", UserID: "gone", TotalAmount: 50,
		OrderStatus: order.StatusPending, CreatedAt: time.Now(),
	})

	dash, err := f.svc.DashboardStats(context.Background())

	require.NoError(t, err)
	require.Len(t, dash.RecentOrders, 1)
	assert.Equal(t, "Guest", dash.RecentOrders[0].User)
	assert.Empty(t, dash.RecentOrders[0].UserEmail)
}

// ============================================
// ListCustomers / GetCustomer
// ============================================

func TestListCustomers(t *testing.T) {
	f := newFixture()
	f.seedUser(t, user.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Phone: "555-0101"})
	f.seedUser(t, user.User{ID: "u2", Name: "Bob", Email: "bob@example.com"})
	f.seedUser(t, user.User{ID: "admin", Role: user.RoleAdmin})

	f.seedOrder(t, order.Order{
		ID: "o1", UserID: "u1", TotalAmount: 100, CreatedAt: time.Now(),
		Items: []order.OrderItem{
			{ProductID: "p1", Name: "Shirt", Quantity: 2, Price: 40},
			{ProductID: "p2", Name: "Chinos", Quantity: 1, Price: 20},
		},
	})
	f.seedOrder(t, order.Order{
		ID: "o2", UserID: "u1", TotalAmount: 60, CreatedAt: time.Now(),
		Items: []order.OrderItem{
			{ProductID: "p2", Name: "Chinos", Quantity: 3, Price: 20},
		},
	})

	summaries, err := f.svc.ListCustomers(context.Background())

	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]admin.CustomerSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}

	jane := byID["u1"]
	assert.Equal(t, 2, jane.TotalOrders)
	assert.Equal(t, 160.0, jane.TotalSpent)
	assert.Equal(t, "Chinos", jane.MostPurchased)
	assert.Equal(t, "active", jane.Status)

	bob := byID["u2"]
	assert.Zero(t, bob.TotalOrders)
	assert.Equal(t, "N/A", bob.MostPurchased)
	assert.Equal(t, "inactive", bob.Status)
}

func TestGetCustomer(t *testing.T) {
	f := newFixture()
	f.seedUser(t, user.User{ID: "u1", Name: "Jane", Email: "jane@example.com"})
	f.seedOrder(t, order.Order{
		ID: "o1", OrderNumber: "ORD-1", UserID: "u1", TotalAmount: 100,
		OrderStatus: order.StatusDelivered, CreatedAt: time.Now(),
		Items: []order.OrderItem{{ProductID: "p1", Name: "Shirt", Quantity: 2, Price: 50}},
	})

	details, err := f.svc.GetCustomer(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "Jane", details.Name)
	assert.Equal(t, 1, details.TotalOrders)
	assert.Equal(t, 100.0, details.TotalSpent)
	require.Len(t, details.Orders, 1)
	assert.Equal(t, "ORD-1", details.Orders[0].OrderNumber)
	assert.Equal(t, 1, details.Orders[0].Items)
}

func TestGetCustomer_Unknown(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetCustomer(context.Background(), "missing")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

// ============================================
// GetAnalytics
// ============================================

func TestGetAnalytics(t *testing.T) {
	f := newFixture()
	f.seedUser(t, user.User{ID: "u1"})
	f.seedProduct(t, product.Product{ID: "p1", Name: "Shirt", Category: "men", Price: 50, Stock: 10})
	f.seedProduct(t, product.Product{ID: "p2", Name: "Dress", Category: "women", Price: 80, Stock: 10})

	now := time.Now()
	// Pin orders relative to local midnight so day buckets are stable no
	// matter when the test runs.
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	f.seedOrder(t, order.Order{
		ID: "o1", UserID: "u1", TotalAmount: 100, CreatedAt: todayStart.Add(time.Minute),
		Items: []order.OrderItem{{ProductID: "p1", Name: "Shirt", Quantity: 2, Price: 50}},
	})
	f.seedOrder(t, order.Order{
		ID: "o2", UserID: "u1", TotalAmount: 80, CreatedAt: todayStart.Add(-12 * time.Hour),
		Items: []order.OrderItem{{ProductID: "p2", Name: "Dress", Quantity: 1, Price: 80}},
	})
	// Outside the 7 day window.
	f.seedOrder(t, order.Order{
		ID: "o3", UserID: "u1", TotalAmount: 500, CreatedAt: now.Add(-10 * 24 * time.Hour),
		Items: []order.OrderItem{{ProductID: "p1", Name: "Shirt", Quantity: 10, Price: 50}},
	})

	analytics, err := f.svc.GetAnalytics(context.Background(), "7d")

	require.NoError(t, err)
	assert.Equal(t, 180.0, analytics.Metrics.TotalRevenue)
	assert.Equal(t, 2, analytics.Metrics.TotalOrders)
	assert.Equal(t, 1, analytics.Metrics.TotalUsers)
	assert.Equal(t, 2, analytics.Metrics.TotalProducts)
	assert.InDelta(t, 90.0, analytics.Metrics.AvgOrderValue, 0.001)

	// One bucket per day in the window.
	require.Len(t, analytics.RevenueData, 7)
	today := analytics.RevenueData[6]
	assert.Equal(t, 100.0, today.Revenue)
	assert.Equal(t, 1, today.Orders)

	// Category shares sorted by sales, percentages of window revenue.
	require.Len(t, analytics.CategoryData, 2)
	assert.Equal(t, "men", analytics.CategoryData[0].Name)
	assert.Equal(t, 100.0, analytics.CategoryData[0].Sales)
	assert.Equal(t, 56, analytics.CategoryData[0].Value)
	assert.Equal(t, "women", analytics.CategoryData[1].Name)
	assert.Equal(t, 44, analytics.CategoryData[1].Value)

	// Top products ranked by revenue within the window.
	require.Len(t, analytics.TopProducts, 2)
	assert.Equal(t, "Shirt", analytics.TopProducts[0].Name)
	assert.Equal(t, 2, analytics.TopProducts[0].Sales)
	assert.Equal(t, 100.0, analytics.TopProducts[0].Revenue)
}

func TestGetAnalytics_UnknownRangeDefaultsToWeek(t *testing.T) {
	f := newFixture()

	analytics, err := f.svc.GetAnalytics(context.Background(), "bogus")

	require.NoError(t, err)
	assert.Len(t, analytics.RevenueData, 7)
}

func TestGetAnalytics_UncataloguedProductFallsToOther(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, order.Order{
		ID: "o1", UserID: "u1", TotalAmount: 30, CreatedAt: time.Now(),
		Items: []order.OrderItem{{ProductID: "deleted", Name: "Old Item", Quantity: 1, Price: 30}},
	})

	analytics, err := f.svc.GetAnalytics(context.Background(), "24h")

	require.NoError(t, err)
	require.Len(t, analytics.CategoryData, 1)
	assert.Equal(t, "Other", analytics.CategoryData[0].Name)
}
