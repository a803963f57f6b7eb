package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
	"github.com/jhoicas/scims-analytics/internal/domain/repository"
)

var _ repository.StoreDirectory = (*StoreRepo)(nil)

// StoreRepo directorio de negocios y tiendas sobre PostgreSQL.
type StoreRepo struct {
	pool *pgxpool.Pool
}

// NewStoreRepository construye el adaptador del directorio de tiendas.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepo {
	return &StoreRepo{pool: pool}
}

// ListStoreIDs lista las tiendas activas del negocio ordenadas por fecha de creación.
func (r *StoreRepo) ListStoreIDs(ctx context.Context, businessID string) ([]string, error) {
	if err := validateID("business_id", businessID); err != nil {
		return nil, err
	}
	const query = `
		SELECT id::TEXT FROM stores
		WHERE business_id = $1 AND is_active
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("stores.ListStoreIDs: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("stores.ListStoreIDs scan: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// GetBusiness obtiene un negocio por ID; (nil, nil) si no existe.
func (r *StoreRepo) GetBusiness(ctx context.Context, businessID string) (*entity.Business, error) {
	if err := validateID("business_id", businessID); err != nil {
		return nil, err
	}
	const query = `
		SELECT id::TEXT, name, COALESCE(timezone, ''), COALESCE(currency, ''), status, created_at, updated_at
		FROM businesses WHERE id = $1`
	var b entity.Business
	err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&b.ID, &b.Name, &b.Timezone, &b.Currency, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

