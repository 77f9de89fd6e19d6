package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Get joins every cart entry with its product. Entries whose product is gone
// come back as dangling references instead of failing the whole read.
func (r *CartRepository) Get(ctx context.Context) (domain.Cart, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.product_id, c.quantity, p.id, p.name, p.price, p.image, p.description
		FROM cart_entries c
		LEFT JOIN products p ON p.id = c.product_id
		ORDER BY c.created_at, c.id
	`)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("query cart: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []domain.CartLine
	var dangling []domain.DanglingReference

	for rows.Next() {
		var (
			line        domain.CartLine
			foundID     sql.NullString
			name        sql.NullString
			price       sql.NullInt64
			image       sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(&line.CartID, &line.ProductID, &line.Quantity, &foundID, &name, &price, &image, &description); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart entry: %w", err)
		}

		if !foundID.Valid {
			dangling = append(dangling, domain.DanglingReference{
				CartID:    line.CartID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
			continue
		}

		line.Name = name.String
		line.Price = price.Int64
		line.Image = image.String
		line.Description = description.String
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("iterate cart: %w", err)
	}

	cart, err := domain.NewCart(lines, dangling)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("total cart: %w", err)
	}
	return cart, nil
}

// Add puts quantity units of the product in the cart. A product already in
// the cart has its quantity incremented by the same statement that would
// have inserted it, so concurrent adds never create a second entry.
func (r *CartRepository) Add(ctx context.Context, productID string, quantity int) (domain.AddOutcome, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return domain.AddOutcome{}, domain.ErrNotFound
	}

	var (
		outcome  domain.AddOutcome
		inserted bool
	)
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_entries (id, product_id, quantity)
		SELECT $1::uuid, p.id, $3::integer
		FROM products p
		WHERE p.id = $2
		ON CONFLICT (product_id) DO UPDATE
		SET quantity = cart_entries.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, (xmax = 0)
	`, uuid.New().String(), productID, quantity).Scan(&outcome.CartID, &outcome.Quantity, &inserted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AddOutcome{}, domain.ErrNotFound
		}
		if isOutOfRange(err) {
			return domain.AddOutcome{}, domain.NewValidationError("quantity", "cart quantity would exceed the maximum")
		}
		return domain.AddOutcome{}, fmt.Errorf("upsert cart entry for product %s: %w", productID, err)
	}

	outcome.Result = domain.AddResultUpdated
	if inserted {
		outcome.Result = domain.AddResultCreated
	}

	return outcome, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, domain.ErrNotFound
	}

	var updated int
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_entries SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING quantity
	`, quantity, id).Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		if isOutOfRange(err) {
			return 0, domain.NewValidationError("quantity", "must be at most 2147483647")
		}
		return 0, fmt.Errorf("update cart entry %s: %w", id, err)
	}

	return updated, nil
}

func (r *CartRepository) Remove(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart entry %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Clear deletes every cart entry and reports how many were removed.
func (r *CartRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_entries`)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return result.RowsAffected()
}

// isOutOfRange reports a Postgres numeric_value_out_of_range error, raised
// when a quantity no longer fits its INTEGER column.
func isOutOfRange(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22003"
}
