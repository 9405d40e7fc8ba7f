package postgres

import (
	"context"
	"fmt"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Upstream tables are owned by the order-management system and only read here.
const (
	ordersQuery = `
		SELECT id, address, status
		FROM foodcartapp_order
		WHERE status <> 4
		ORDER BY status, id`

	orderItemsQuery = `
		SELECT oi.order_id, oi.product_id, oi.quantity, COALESCE(oi.price, 0)::text
		FROM foodcartapp_orderitem oi
		JOIN foodcartapp_order o ON o.id = oi.order_id
		WHERE o.status <> 4
		ORDER BY oi.order_id, oi.id`

	restaurantsQuery = `
		SELECT id, name, address
		FROM foodcartapp_restaurant
		ORDER BY name, id`

	productsQuery = `
		SELECT id, name
		FROM foodcartapp_product
		ORDER BY id`

	availabilityQuery = `
		SELECT restaurant_id, product_id, availability
		FROM foodcartapp_restaurantmenuitem
		ORDER BY restaurant_id, product_id`
)

// CatalogRepository reads open orders, restaurants, products and menu
// availability from the order-management database.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a CatalogRepository backed by the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Snapshot reads everything a fulfillment pass needs. Completed orders are
// excluded and the rest are ordered by status, then id.
func (r *CatalogRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		snap domain.Snapshot
		err  error
	)
	if snap.Orders, err = r.orders(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Restaurants, err = queryAll(ctx, r.pool, "restaurants", restaurantsQuery, scanRestaurant); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Products, err = queryAll(ctx, r.pool, "products", productsQuery, scanProduct); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Availability, err = queryAll(ctx, r.pool, "availability", availabilityQuery, scanAvailability); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (r *CatalogRepository) orders(ctx context.Context) ([]domain.Order, error) {
	orders, err := queryAll(ctx, r.pool, "orders", ordersQuery, scanOrder)
	if err != nil {
		return nil, err
	}

	byID := make(map[domain.OrderID]int, len(orders))
	for i, o := range orders {
		byID[o.ID] = i
	}

	type itemRow struct {
		orderID domain.OrderID
		item    domain.OrderItem
	}
	items, err := queryAll(ctx, r.pool, "order items", orderItemsQuery, func(row pgx.Rows) (itemRow, error) {
		var (
			ir    itemRow
			price string
		)
		if err := row.Scan(&ir.orderID, &ir.item.ProductID, &ir.item.Quantity, &price); err != nil {
			return ir, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return ir, fmt.Errorf("parse price %q: %w", price, err)
		}
		ir.item.Price = p
		return ir, nil
	})
	if err != nil {
		return nil, err
	}

	for _, ir := range items {
		// Items for orders that changed status between the two queries are dropped.
		if i, ok := byID[ir.orderID]; ok {
			orders[i].Items = append(orders[i].Items, ir.item)
		}
	}
	return orders, nil
}

func queryAll[T any](ctx context.Context, pool *pgxpool.Pool, what, q string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", what, err)
	}
	return out, nil
}

func scanOrder(row pgx.Rows) (domain.Order, error) {
	var (
		o       domain.Order
		address string
		status  int
	)
	err := row.Scan(&o.ID, &address, &status)
	o.Address = domain.Address(address)
	o.Status = domain.OrderStatus(status)
	return o, err
}

func scanRestaurant(row pgx.Rows) (domain.Restaurant, error) {
	var (
		r       domain.Restaurant
		address string
	)
	err := row.Scan(&r.ID, &r.Name, &address)
	r.Address = domain.Address(address)
	return r, err
}

func scanProduct(row pgx.Rows) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name)
	return p, err
}

func scanAvailability(row pgx.Rows) (domain.MenuAvailability, error) {
	var m domain.MenuAvailability
	err := row.Scan(&m.RestaurantID, &m.ProductID, &m.Available)
	return m, err
}
