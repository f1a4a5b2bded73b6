package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/resale-catalog-service/internal/entity"
	"github.com/user/resale-catalog-service/internal/repository"
)

// CatalogRepoImpl provides a concrete implementation for the CatalogRepository interface using PostgreSQL.
type CatalogRepoImpl struct {
	db *pgxpool.Pool
}

// NewCatalogRepo creates a new instance of CatalogRepoImpl.
func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepoImpl {
	return &CatalogRepoImpl{db: db}
}

// Migrate creates the products table if it does not exist yet. The seq
// column preserves insertion order across the wholesale catalog swap.
func (r *CatalogRepoImpl) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			seq                 BIGSERIAL,
			id                  TEXT PRIMARY KEY,
			title               TEXT NOT NULL,
			brand               TEXT NOT NULL,
			category            TEXT NOT NULL,
			subcategory         TEXT NOT NULL DEFAULT '',
			size                TEXT NOT NULL DEFAULT '',
			price               DOUBLE PRECISION NOT NULL,
			condition           TEXT NOT NULL DEFAULT '',
			url                 TEXT NOT NULL,
			images              JSONB NOT NULL DEFAULT '[]',
			measurements        JSONB NOT NULL DEFAULT '{}',
			measurements_source TEXT NOT NULL DEFAULT '',
			brand_fit_notes     TEXT NOT NULL DEFAULT '',
			description         TEXT NOT NULL DEFAULT '',
			availability        TEXT NOT NULL DEFAULT 'available',
			scraped_at          TIMESTAMPTZ NOT NULL,
			processed_at        TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_products_brand ON products (brand);
		CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);
		CREATE INDEX IF NOT EXISTS idx_products_price ON products (price);
	`
	_, err := r.db.Exec(ctx, query)
	return err
}

const productColumns = `id, title, brand, category, subcategory, size, price, condition, url,
	images, measurements, measurements_source, brand_fit_notes, description, availability,
	scraped_at, processed_at`

// ReplaceAll swaps the stored catalog for the given record set inside a
// single transaction, so readers never observe a half-written catalog.
func (r *CatalogRepoImpl) ReplaceAll(ctx context.Context, products []entity.NormalizedProduct) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM products;`); err != nil {
		return err
	}

	insert := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		imagesJSON, err := json.Marshal(p.Images)
		if err != nil {
			return err
		}
		measurementsJSON, err := json.Marshal(p.Measurements)
		if err != nil {
			return err
		}
		batch.Queue(insert,
			p.ID, p.Title, p.Brand, string(p.Category), p.Subcategory, p.Size,
			p.Price, p.Condition, p.URL, imagesJSON, measurementsJSON,
			p.MeasurementsSource, p.BrandFitNotes, p.Description,
			string(p.Availability), p.ScrapedAt, p.ProcessedAt,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// List returns one page of records matching the filter plus the total match
// count before pagination.
func (r *CatalogRepoImpl) List(ctx context.Context, filter repository.ProductFilter) ([]entity.NormalizedProduct, int, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + orderClause(filter.Sort)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByID retrieves a single record by its identifier.
func (r *CatalogRepoImpl) FindByID(ctx context.Context, id string) (*entity.NormalizedProduct, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	row := r.db.QueryRow(ctx, query, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// FetchAll returns every stored record in insertion order.
func (r *CatalogRepoImpl) FetchAll(ctx context.Context) ([]entity.NormalizedProduct, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY seq;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func buildWhere(filter repository.ProductFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", string(filter.Category))
	}
	if len(filter.Brands) > 0 {
		add("brand = ANY($%d)", filter.Brands)
	}
	if filter.Condition != "" {
		add("condition = $%d", filter.Condition)
	}
	if filter.Size != "" {
		add("size = $%d", filter.Size)
	}
	if filter.MinPrice > 0 {
		add("price >= $%d", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		add("price <= $%d", filter.MaxPrice)
	}
	if filter.Search != "" {
		add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(sort string) string {
	switch sort {
	case repository.SortPriceLow:
		return " ORDER BY price ASC, seq"
	case repository.SortPriceHigh:
		return " ORDER BY price DESC, seq"
	default:
		// newest first: records are inserted in discovery order per run
		return " ORDER BY seq DESC"
	}
}

func scanProducts(rows pgx.Rows) ([]entity.NormalizedProduct, error) {
	products := []entity.NormalizedProduct{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.NormalizedProduct, error) {
	var p entity.NormalizedProduct
	var category, availability string
	var imagesJSON, measurementsJSON []byte

	err := row.Scan(
		&p.ID, &p.Title, &p.Brand, &category, &p.Subcategory, &p.Size,
		&p.Price, &p.Condition, &p.URL, &imagesJSON, &measurementsJSON,
		&p.MeasurementsSource, &p.BrandFitNotes, &p.Description,
		&availability, &p.ScrapedAt, &p.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Category = entity.Category(category)
	p.Availability = entity.Availability(availability)
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(measurementsJSON, &p.Measurements); err != nil {
		return nil, err
	}
	return &p, nil
}
