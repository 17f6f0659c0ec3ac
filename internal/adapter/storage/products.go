package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/vip-store/internal/core/domain"
)

const productColumns = `
	id, name_en, name_ar, category, price, image,
	stock, sold, rating, is_premium, is_limited,
	created_at, updated_at`

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) StoreProduct(ctx context.Context, p domain.Product) error {
	const op = "ProductsRepository.StoreProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	_, err := r.sqldb.ExecContext(ctx, query, productArgs(p)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
		return storageErr(op, err)
	}
	return nil
}

// ReplaceCatalog deletes every product and stores ps in one transaction.
func (r ProductsRepository) ReplaceCatalog(
	ctx context.Context, ps []domain.Product,
) (storeErr error) {
	const op = "ProductsRepository.ReplaceCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products;`); err != nil {
		return storageErr(op, err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, p := range ps {
		if _, err := stmt.ExecContext(ctx, productArgs(p)...); err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

func (r ProductsRepository) ReadProducts(
	ctx context.Context, category *domain.Category,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ReadProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, string(*category))
	}
	query += ` ORDER BY created_at DESC, id DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	ps := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductsRepository.ReadProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: product %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) ReplaceProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "ProductsRepository.ReplaceProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products SET
			name_en = $2,
			name_ar = $3,
			category = $4,
			price = $5,
			image = $6,
			stock = $7,
			sold = $8,
			rating = $9,
			is_premium = $10,
			is_limited = $11,
			updated_at = $12
		WHERE id = $1
		RETURNING ` + productColumns + `;`

	args := productArgs(p)
	args = append(args[:11], p.UpdatedAt)

	stored, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: product %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return stored, nil
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductsRepository.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: product %w", op, domain.ErrNotFound)
	}
	return nil
}

func productArgs(p domain.Product) []any {
	return []any{
		p.ID, p.NameEn, p.NameAr, string(p.Category), p.Price, p.Image,
		p.Stock, p.Sold, p.Rating, p.IsPremium, p.IsLimited,
		p.CreatedAt, p.UpdatedAt,
	}
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p        domain.Product
		category string
	)
	err := row.Scan(
		&p.ID, &p.NameEn, &p.NameAr, &category, &p.Price, &p.Image,
		&p.Stock, &p.Sold, &p.Rating, &p.IsPremium, &p.IsLimited,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	p.Category = domain.Category(category)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
