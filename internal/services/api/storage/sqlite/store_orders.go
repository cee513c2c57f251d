package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/pricing"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

const orderColumns = `id, user_id, is_guest, first_name, last_name, email, phone,
address_line1, address_line2, company, postal_code, city, cart_json,
payment_method, status, subtotal, shipping_fee, total, created_at, updated_at`

// orderSortColumns whitelists columns accepted in OrderQuery.OrderBy.
var orderSortColumns = map[string]bool{
	"created_at": true,
	"total":      true,
	"status":     true,
}

func scanOrder(row rowScanner) (storage.Order, error) {
	var (
		o                    storage.Order
		userID               sql.NullString
		isGuest              int
		cartJSON             string
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&o.ID, &userID, &isGuest, &o.FirstName, &o.LastName, &o.Email, &o.Phone,
		&o.AddressLine1, &o.AddressLine2, &o.Company, &o.PostalCode, &o.City, &cartJSON,
		&o.PaymentMethod, &status, &o.Subtotal, &o.ShippingFee, &o.Total, &createdAt, &updatedAt,
	); err != nil {
		return storage.Order{}, err
	}
	o.UserID = userID.String
	o.IsGuest = isGuest == 1
	o.Status = storage.OrderStatus(status)
	o.Cart = []pricing.CartItem{}
	if err := json.Unmarshal([]byte(cartJSON), &o.Cart); err != nil {
		return storage.Order{}, fmt.Errorf("decode cart: %w", err)
	}
	o.CreatedAt = fromMillis(createdAt)
	o.UpdatedAt = fromMillis(updatedAt)
	return o, nil
}

// CreateOrder inserts an order with its cart snapshot.
func (s *Store) CreateOrder(ctx context.Context, o storage.Order) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("order id is required")
	}
	cartJSON, err := json.Marshal(o.Cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		"INSERT INTO orders ("+orderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		o.ID, nullString(o.UserID), boolToInt(o.IsGuest), o.FirstName, o.LastName, o.Email, o.Phone,
		o.AddressLine1, o.AddressLine2, o.Company, o.PostalCode, o.City, string(cartJSON),
		o.PaymentMethod, string(o.Status), o.Subtotal, o.ShippingFee, o.Total,
		toMillis(o.CreatedAt), toMillis(o.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrder fetches an order by id.
func (s *Store) GetOrder(ctx context.Context, id string) (storage.Order, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Order{}, err
	}
	order, err := scanOrder(s.sqlDB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Order{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]storage.Order, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
}

// ListOrders returns one filtered, ordered page and the filtered total.
func (s *Store) ListOrders(ctx context.Context, query storage.OrderQuery) (storage.OrderPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.OrderPage{}, err
	}

	where := ""
	params := append([]any(nil), query.Condition.Params...)
	if clause := strings.TrimSpace(query.Condition.Clause); clause != "" {
		where = " WHERE " + clause
	}

	orderBy, err := orderByClause(query.OrderBy)
	if err != nil {
		return storage.OrderPage{}, err
	}

	var page storage.OrderPage
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, params...).Scan(&page.Total); err != nil {
		return storage.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	sqlText := "SELECT " + orderColumns + " FROM orders" + where + orderBy
	if query.Limit > 0 {
		sqlText += " LIMIT ? OFFSET ?"
		params = append(params, query.Limit, max(query.Offset, 0))
	}
	page.Orders, err = s.queryOrders(ctx, sqlText, params...)
	if err != nil {
		return storage.OrderPage{}, err
	}
	return page, nil
}

func orderByClause(fields []storage.OrderField) (string, error) {
	if len(fields) == 0 {
		return " ORDER BY created_at DESC, id DESC", nil
	}
	terms := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		if !orderSortColumns[field.Column] {
			return "", fmt.Errorf("unsupported order column: %s", field.Column)
		}
		direction := "ASC"
		if field.Desc {
			direction = "DESC"
		}
		terms = append(terms, field.Column+" "+direction)
	}
	terms = append(terms, "id DESC")
	return " ORDER BY " + strings.Join(terms, ", "), nil
}

func (s *Store) queryOrders(ctx context.Context, sqlText string, params ...any) ([]storage.Order, error) {
	rows, err := s.sqlDB.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]storage.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder overwrites the mutable fields of an order. Cart and totals
// are fixed at placement.
func (s *Store) UpdateOrder(ctx context.Context, o storage.Order) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE orders SET
    first_name = ?, last_name = ?, email = ?, phone = ?,
    address_line1 = ?, address_line2 = ?, company = ?, postal_code = ?, city = ?,
    payment_method = ?, status = ?, updated_at = ?
WHERE id = ?`,
		o.FirstName, o.LastName, o.Email, o.Phone,
		o.AddressLine1, o.AddressLine2, o.Company, o.PostalCode, o.City,
		o.PaymentMethod, string(o.Status), toMillis(o.UpdatedAt), o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return requireAffected(result, "update order")
}

// DeleteOrder removes an order.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireAffected(result, "delete order")
}
