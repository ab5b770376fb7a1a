package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/jackc/pgerrcode"
)

const (
	emailConstraint = "identities_email_key"
	phoneConstraint = "identities_phone_number_key"
)

// identityRepository is the PostgreSQL-backed implementation of
// [IdentityRepository]. Users and vendors share the "identities" table and
// are told apart by the kind column.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type identityRepository struct {
	db        *DB
	validator validators.Validator
	logger    *logger.Logger
	now       func() time.Time
}

// NewIdentityRepository constructs an [IdentityRepository]. The validator is
// applied on writes made with [FullValidation].
func NewIdentityRepository(db *DB, validator validators.Validator, logger *logger.Logger) IdentityRepository {
	logger.Debug().Msg("creating identity repository")
	return &identityRepository{
		db:        db,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *identityRepository) Create(ctx context.Context, identity *models.Identity, mode SaveMode) error {
	log := logger.FromContext(ctx)

	if identity.ID == "" {
		identity.ID = utils.NewID()
	}
	if err := r.validate(ctx, identity, mode); err != nil {
		return err
	}

	now := r.now().UTC()
	identity.Version = 1
	identity.CreatedAt = now
	identity.UpdatedAt = now

	query, args, err := buildInsertIdentityQuery(identity)
	if err != nil {
		identity.Version = 0
		log.Err(err).Str("func", "*identityRepository.Create").Msg("failed to build query")
		return err
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		identity.Version = 0
		log.Err(err).
			Str("func", "*identityRepository.Create").
			Str("kind", identity.Kind.String()).
			Msg("failed to insert identity")
		return uniqueViolation(err, ErrExecutingStatement)
	}

	return nil
}

func (r *identityRepository) FindByID(ctx context.Context, id string, scope Scope) (*models.Identity, error) {
	if !utils.IsID(id) {
		return nil, ErrIdentityNotFound
	}
	return r.findOne(ctx, "FindByID", sq.Eq{"id": id}, scope)
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string, scope Scope) (*models.Identity, error) {
	return r.findOne(ctx, "FindByEmail", sq.Eq{"email": models.NormalizeEmail(email)}, scope)
}

func (r *identityRepository) FindByPhone(ctx context.Context, phone string, scope Scope) (*models.Identity, error) {
	return r.findOne(ctx, "FindByPhone", sq.Eq{"phone_number": phone}, scope)
}

func (r *identityRepository) FindByEmailAndSecret(ctx context.Context, email string, purpose models.SecretPurpose, hash string, now time.Time, scope Scope) (*models.Identity, error) {
	log := logger.FromContext(ctx)

	if email == "" || hash == "" {
		return nil, ErrIdentityNotFound
	}

	query, args, err := buildFindBySecretQuery(models.NormalizeEmail(email), purpose, hash, now.UTC(), scope)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.FindByEmailAndSecret").Msg("failed to build query")
		return nil, err
	}

	return r.queryOne(ctx, "FindByEmailAndSecret", query, args)
}

func (r *identityRepository) FindBySecret(ctx context.Context, purpose models.SecretPurpose, hash string, now time.Time, scope Scope) (*models.Identity, error) {
	log := logger.FromContext(ctx)

	if hash == "" {
		return nil, ErrIdentityNotFound
	}

	query, args, err := buildFindBySecretQuery("", purpose, hash, now.UTC(), scope)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.FindBySecret").Msg("failed to build query")
		return nil, err
	}

	return r.queryOne(ctx, "FindBySecret", query, args)
}

// Save writes the full row. On success identity.Version and UpdatedAt hold
// the stored values.
func (r *identityRepository) Save(ctx context.Context, identity *models.Identity, mode SaveMode) error {
	log := logger.FromContext(ctx)

	if err := r.validate(ctx, identity, mode); err != nil {
		return err
	}

	previousUpdate := identity.UpdatedAt
	identity.UpdatedAt = r.now().UTC()

	query, args, err := buildSaveIdentityQuery(identity)
	if err != nil {
		identity.UpdatedAt = previousUpdate
		log.Err(err).Str("func", "*identityRepository.Save").Msg("failed to build query")
		return err
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
		identity.UpdatedAt = previousUpdate
		log.Err(err).
			Str("func", "*identityRepository.Save").
			Str("identity_id", identity.ID).
			Msg("failed to update identity")
		return uniqueViolation(err, ErrExecutingStatement)
	}

	if affected == 0 {
		identity.UpdatedAt = previousUpdate
		log.Warn().
			Str("func", "*identityRepository.Save").
			Str("identity_id", identity.ID).
			Int64("version", identity.Version).
			Msg("version conflict")
		return ErrVersionConflict
	}

	identity.Version++
	return nil
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := psql.Delete(identitiesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.Delete").Str("identity_id", id).Msg("failed to delete identity")
		return err
	}
	if affected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

// DeleteUnverifiedByEmail removes an unverified identity holding email. It is
// not an error when nothing matches.
func (r *identityRepository) DeleteUnverifiedByEmail(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	query, args, err := psql.Delete(identitiesTable).
		Where(sq.Eq{"email": models.NormalizeEmail(email), "is_verified": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.DeleteUnverifiedByEmail").Msg("failed to delete unverified identity")
		return err
	}

	log.Debug().Str("func", "*identityRepository.DeleteUnverifiedByEmail").Int64("deleted", affected).Send()
	return nil
}

func (r *identityRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := psql.Delete(identitiesTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.DeleteMany").Int("ids", len(ids)).Msg("failed to delete identities")
		return 0, err
	}

	return affected, nil
}

func (r *identityRepository) FindExpiredDeletions(ctx context.Context, now time.Time) ([]models.Identity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildExpiredDeletionsQuery(now.UTC())
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		var queryErr error
		rows, queryErr = r.db.QueryContext(ctx, query, args...)
		return queryErr
	})
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.FindExpiredDeletions").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	identities := make([]models.Identity, 0, 16)
	for rows.Next() {
		identity, scanErr := scanIdentity(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*identityRepository.FindExpiredDeletions").Msg("failed to scan identity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		identities = append(identities, *identity)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*identityRepository.FindExpiredDeletions").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return identities, nil
}

// PhoneTaken reports whether any identity other than exceptID holds phone.
func (r *identityRepository) PhoneTaken(ctx context.Context, phone string, exceptID string) (bool, error) {
	log := logger.FromContext(ctx)

	builder := psql.Select("COUNT(*)").From(identitiesTable).Where(sq.Eq{"phone_number": phone})
	if exceptID != "" {
		builder = builder.Where(sq.NotEq{"id": exceptID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.PhoneTaken").Msg("failed to count phone owners")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

func (r *identityRepository) ApproveVendor(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if !utils.IsID(id) {
		return ErrIdentityNotFound
	}

	query, args, err := psql.Update(identitiesTable).
		Set("is_approved", true).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", r.now().UTC()).
		Where(sq.Eq{"id": id, "kind": string(models.KindVendor)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.ApproveVendor").Str("identity_id", id).Msg("failed to approve vendor")
		return err
	}
	if affected == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

func (r *identityRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *identityRepository) validate(ctx context.Context, identity *models.Identity, mode SaveMode) error {
	if mode != FullValidation || r.validator == nil {
		return nil
	}
	if err := r.validator.Validate(ctx, identity); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*identityRepository.validate").
			Str("identity_id", identity.ID).
			Msg("identity failed validation")
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

func (r *identityRepository) findOne(ctx context.Context, caller string, where sq.Sqlizer, scope Scope) (*models.Identity, error) {
	query, args, err := buildFindIdentityQuery(where, scope)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*identityRepository."+caller).Msg("failed to build query")
		return nil, err
	}
	return r.queryOne(ctx, caller, query, args)
}

func (r *identityRepository) queryOne(ctx context.Context, caller, query string, args []any) (*models.Identity, error) {
	log := logger.FromContext(ctx)

	var identity *models.Identity
	err := r.db.withRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		identity, scanErr = scanIdentity(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIdentityNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*identityRepository."+caller).Msg("failed to query identity")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return identity, nil
}

func (r *identityRepository) exec(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := r.db.withRetry(ctx, func(ctx context.Context) error {
		result, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = result.RowsAffected()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected, nil
}

// uniqueViolation maps a unique_violation on the email or phone constraint
// to its sentinel and wraps anything else in fallback.
func uniqueViolation(err error, fallback error) error {
	if postgresError(err) == pgerrcode.UniqueViolation {
		switch postgresConstraint(err) {
		case emailConstraint:
			return ErrDuplicateEmail
		case phoneConstraint:
			return ErrDuplicatePhone
		}
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
