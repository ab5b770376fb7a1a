package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-rental-market/internal/geo"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
)

// nearbyLimit caps a single nearby search.
const nearbyLimit = 200

type productRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewProductRepository constructs a PostgreSQL-backed [ProductRepository].
func NewProductRepository(db *DB, logger *logger.Logger) ProductRepository {
	logger.Debug().Msg("creating product repository")
	return &productRepository{db: db, logger: logger, now: time.Now}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	log := logger.FromContext(ctx)

	if product.ID == "" {
		product.ID = utils.NewID()
	}
	product.CreatedAt = r.now().UTC()

	query, args, err := psql.Insert(productsTable).
		Columns(productColumns...).
		Values(
			product.ID,
			product.VendorID,
			product.ModelName,
			product.Description,
			product.PricePerDay,
			product.Approved,
			product.Location.Lng(),
			product.Location.Lat(),
			product.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "*productRepository.Create").
			Str("vendor_id", product.VendorID).
			Msg("failed to insert product")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindNearby returns approved products within query.RadiusKm of
// query.Center, newest first.
func (r *productRepository) FindNearby(ctx context.Context, query models.NearbyQuery) ([]models.Product, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := psql.Select(productColumns...).
		From(productsTable).
		Where(sq.Eq{"approved": true}).
		Where(geo.WithinRadius(query.Center, query.RadiusKm)).
		OrderBy("created_at DESC").
		Limit(nearbyLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var rows *sql.Rows
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		var queryErr error
		rows, queryErr = r.db.QueryContext(ctx, sqlQuery, args...)
		return queryErr
	})
	if err != nil {
		log.Err(err).Str("func", "*productRepository.FindNearby").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	products := make([]models.Product, 0, 16)
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*productRepository.FindNearby").Msg("failed to scan product row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		products = append(products, product)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return products, nil
}

func (r *productRepository) Approve(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if !utils.IsID(id) {
		return ErrProductNotFound
	}

	query, args, err := psql.Update(productsTable).
		Set("approved", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		result, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = result.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*productRepository.Approve").Str("product_id", id).Msg("failed to approve product")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
