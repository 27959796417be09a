package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sweet-shop/internal/domain"
)

// SweetFilter captures catalog search parameters. Name takes precedence
// over category, which takes precedence over the price range, matching the
// shop's search semantics.
type SweetFilter struct {
	Name     *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
}

// SweetRepository encapsulates catalog persistence.
type SweetRepository interface {
	Create(ctx context.Context, sweet *domain.Sweet) error
	Update(ctx context.Context, sweet *domain.Sweet) error
	GetByID(ctx context.Context, id string) (*domain.Sweet, error)
	ListActive(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter SweetFilter) ([]domain.Sweet, error)
}

type sweetRepository struct {
	pool *pgxpool.Pool
}

// NewSweetRepository instantiates the repository.
func NewSweetRepository(pool *pgxpool.Pool) SweetRepository {
	return &sweetRepository{pool: pool}
}

const sweetColumns = `id, name, category, description, price, quantity, active, created_at, updated_at`

func (r *sweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	const query = `
        INSERT INTO sweets (id, name, category, description, price, quantity, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		sweet.ID,
		sweet.Name,
		sweet.Category,
		sweet.Description,
		sweet.Price,
		sweet.Quantity,
		sweet.Active,
	).Scan(&sweet.CreatedAt, &sweet.UpdatedAt)
}

func (r *sweetRepository) Update(ctx context.Context, sweet *domain.Sweet) error {
	const query = `
        UPDATE sweets SET name=$1, category=$2, description=$3, price=$4, quantity=$5, active=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		sweet.Name,
		sweet.Category,
		sweet.Description,
		sweet.Price,
		sweet.Quantity,
		sweet.Active,
		sweet.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sweetRepository) GetByID(ctx context.Context, id string) (*domain.Sweet, error) {
	query := fmt.Sprintf(`SELECT %s FROM sweets WHERE id=$1`, sweetColumns)

	var sweet domain.Sweet
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sweet.ID,
		&sweet.Name,
		&sweet.Category,
		&sweet.Description,
		&sweet.Price,
		&sweet.Quantity,
		&sweet.Active,
		&sweet.CreatedAt,
		&sweet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *sweetRepository) ListActive(ctx context.Context) ([]domain.Sweet, error) {
	query := fmt.Sprintf(`SELECT %s FROM sweets WHERE active ORDER BY name`, sweetColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSweets(rows)
}

func (r *sweetRepository) Search(ctx context.Context, filter SweetFilter) ([]domain.Sweet, error) {
	clauses := []string{"active"}
	args := []any{}

	switch {
	case filter.Name != nil && strings.TrimSpace(*filter.Name) != "":
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Name))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	case filter.Category != nil && strings.TrimSpace(*filter.Category) != "":
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Category)))
		clauses = append(clauses, fmt.Sprintf("LOWER(category) = $%d", len(args)))
	case filter.MinPrice != nil && filter.MaxPrice != nil:
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, fmt.Sprintf("price >= $%d", len(args)))
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM sweets WHERE %s ORDER BY name`,
		sweetColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSweets(rows)
}

func scanSweets(rows pgx.Rows) ([]domain.Sweet, error) {
	var result []domain.Sweet
	for rows.Next() {
		var sweet domain.Sweet
		if err := rows.Scan(
			&sweet.ID,
			&sweet.Name,
			&sweet.Category,
			&sweet.Description,
			&sweet.Price,
			&sweet.Quantity,
			&sweet.Active,
			&sweet.CreatedAt,
			&sweet.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sweet)
	}
	return result, rows.Err()
}
