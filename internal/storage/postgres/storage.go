package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage relies on.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// newPool is a seam for tests; production always dials a real pgxpool.
var newPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type promoRepository struct {
	storage *Storage
}

type auditRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Promos() repository.PromoRepository {
	return &promoRepository{storage: s}
}

func (s *Storage) Audits() repository.AuditRepository {
	return &auditRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            email TEXT NOT NULL,
            user_id TEXT,
            status TEXT NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            promo_code_id TEXT,
            promo_discount DOUBLE PRECISION NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            product_id TEXT NOT NULL,
            category_id TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            encrypted_key BYTEA,
            signed_url TEXT,
            link_expires_at TIMESTAMPTZ,
            download_count INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
            id TEXT PRIMARY KEY,
            code TEXT NOT NULL,
            discount_type TEXT NOT NULL,
            discount_value DOUBLE PRECISION NOT NULL,
            min_order_value DOUBLE PRECISION,
            max_uses_total INT,
            max_uses_per_user INT,
            usage_count INT NOT NULL DEFAULT 0,
            scope_type TEXT NOT NULL DEFAULT 'global',
            scope_value TEXT NOT NULL DEFAULT '',
            starts_at TIMESTAMPTZ,
            expires_at TIMESTAMPTZ,
            stackable BOOLEAN NOT NULL DEFAULT FALSE,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            deleted_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS promo_redemptions (
            id TEXT PRIMARY KEY,
            promo_code_id TEXT NOT NULL REFERENCES promo_codes(id),
            order_id TEXT NOT NULL REFERENCES orders(id),
            user_id TEXT,
            email TEXT NOT NULL,
            discount_applied DOUBLE PRECISION NOT NULL,
            original_total DOUBLE PRECISION NOT NULL,
            final_total DOUBLE PRECISION NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (promo_code_id, order_id)
        )`,
		`CREATE TABLE IF NOT EXISTS delivery_audit (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL,
            item_id TEXT NOT NULL DEFAULT '',
            method TEXT NOT NULL,
            success BOOLEAN NOT NULL,
            ip_address TEXT NOT NULL DEFAULT '',
            user_agent TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_promo_codes_code ON promo_codes(UPPER(code)) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_delivery_audit_order ON delivery_audit(order_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, email, user_id, status, total, promo_code_id, promo_discount)
                             VALUES ($1, $2, $3, $4, $5, $6, $7)
                             RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.Email, order.UserID, order.Status,
			order.Total, order.PromoCodeID, order.PromoDiscount,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (id, order_id, product_id, category_id, quantity, unit_price)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for _, item := range items {
			if _, err := tx.Exec(ctx, insertItem,
				item.ID, order.ID, item.ProductID, item.CategoryID, item.Quantity, item.UnitPrice,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT id, email, user_id, status, total, promo_code_id, promo_discount, created_at, updated_at
                   FROM orders WHERE id=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Email, &o.UserID, &o.Status, &o.Total,
		&o.PromoCodeID, &o.PromoDiscount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, category_id, quantity, unit_price,
                          encrypted_key, signed_url, link_expires_at, download_count
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.CategoryID,
			&item.Quantity, &item.UnitPrice, &item.EncryptedKey,
			&item.SignedURL, &item.LinkExpiresAt, &item.DownloadCount,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) GetItem(ctx context.Context, orderID, itemID string) (*model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, category_id, quantity, unit_price,
                          encrypted_key, signed_url, link_expires_at, download_count
                   FROM order_items WHERE order_id=$1 AND id=$2`
	var item model.OrderItem
	err := r.storage.pool.QueryRow(ctx, query, orderID, itemID).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.CategoryID,
		&item.Quantity, &item.UnitPrice, &item.EncryptedKey,
		&item.SignedURL, &item.LinkExpiresAt, &item.DownloadCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// StoreItemKey relies on the encrypted_key IS NULL guard to make concurrent
// fulfillment safe: only one writer can claim the empty slot.
func (r *orderRepository) StoreItemKey(ctx context.Context, itemID string, ciphertext []byte) (bool, error) {
	const query = `UPDATE order_items SET encrypted_key=$1 WHERE id=$2 AND encrypted_key IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, ciphertext, itemID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	const existsQuery = `SELECT 1 FROM order_items WHERE id=$1`
	var one int
	if err := r.storage.pool.QueryRow(ctx, existsQuery, itemID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domainErrors.ErrNotFound
		}
		return false, err
	}
	return false, nil
}

func (r *orderRepository) SetItemLink(ctx context.Context, itemID, signedURL string, expiresAt time.Time) error {
	const query = `UPDATE order_items SET signed_url=$1, link_expires_at=$2 WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, signedURL, expiresAt, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) IncrementDownloadCount(ctx context.Context, itemID string) (int, error) {
	const query = `UPDATE order_items SET download_count = download_count + 1 WHERE id=$1 RETURNING download_count`
	var count int
	err := r.storage.pool.QueryRow(ctx, query, itemID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) SelectBatchForFulfillment(ctx context.Context, limit int) ([]model.Order, error) {
	const selectQuery = `SELECT id, email, user_id, status, total, promo_code_id, promo_discount, created_at, updated_at
                         FROM orders
                         WHERE status IN ('paid', 'confirming', 'confirmed', 'partially_paid', 'finished')
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var o model.Order
			if err := rows.Scan(
				&o.ID, &o.Email, &o.UserID, &o.Status, &o.Total,
				&o.PromoCodeID, &o.PromoDiscount, &o.CreatedAt, &o.UpdatedAt,
			); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET status='sending', updated_at=NOW() WHERE id=$1`, orders[i].ID); err != nil {
				return err
			}
			orders[i].Status = model.OrderStatusSending
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- PromoRepository implementation ---

func (r *promoRepository) Create(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error) {
	if promo.ID == "" {
		promo.ID = uuid.NewString()
	}
	const query = `INSERT INTO promo_codes
                       (id, code, discount_type, discount_value, min_order_value,
                        max_uses_total, max_uses_per_user, scope_type, scope_value,
                        starts_at, expires_at, stackable, is_active)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		promo.ID, promo.Code, promo.DiscountType, promo.DiscountValue, promo.MinOrderValue,
		promo.MaxUsesTotal, promo.MaxUsesPerUser, promo.ScopeType, promo.ScopeValue,
		promo.StartsAt, promo.ExpiresAt, promo.Stackable, promo.IsActive,
	).Scan(&promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return promo, nil
}

const promoColumns = `id, code, discount_type, discount_value, min_order_value,
                      max_uses_total, max_uses_per_user, usage_count, scope_type, scope_value,
                      starts_at, expires_at, stackable, is_active, created_at, updated_at, deleted_at`

func scanPromo(row pgx.Row) (*model.PromoCode, error) {
	var p model.PromoCode
	err := row.Scan(
		&p.ID, &p.Code, &p.DiscountType, &p.DiscountValue, &p.MinOrderValue,
		&p.MaxUsesTotal, &p.MaxUsesPerUser, &p.UsageCount, &p.ScopeType, &p.ScopeValue,
		&p.StartsAt, &p.ExpiresAt, &p.Stackable, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *promoRepository) GetByID(ctx context.Context, id string) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id=$1 AND deleted_at IS NULL`
	return scanPromo(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *promoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE UPPER(code)=UPPER($1) AND deleted_at IS NULL`
	return scanPromo(r.storage.pool.QueryRow(ctx, query, code))
}

func (r *promoRepository) List(ctx context.Context) ([]model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE deleted_at IS NULL ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PromoCode
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *promo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *promoRepository) Update(ctx context.Context, promo *model.PromoCode) error {
	const query = `UPDATE promo_codes
                   SET code=$1, discount_type=$2, discount_value=$3, min_order_value=$4,
                       max_uses_total=$5, max_uses_per_user=$6, scope_type=$7, scope_value=$8,
                       starts_at=$9, expires_at=$10, stackable=$11, is_active=$12, updated_at=NOW()
                   WHERE id=$13 AND deleted_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query,
		promo.Code, promo.DiscountType, promo.DiscountValue, promo.MinOrderValue,
		promo.MaxUsesTotal, promo.MaxUsesPerUser, promo.ScopeType, promo.ScopeValue,
		promo.StartsAt, promo.ExpiresAt, promo.Stackable, promo.IsActive, promo.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *promoRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE promo_codes SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *promoRepository) CountRedemptions(ctx context.Context, promoCodeID string, userID *string, email string) (int, error) {
	const query = `SELECT COUNT(*) FROM promo_redemptions
                   WHERE promo_code_id=$1
                     AND (($2::TEXT IS NOT NULL AND user_id=$2) OR LOWER(email)=LOWER($3))`
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, promoCodeID, userID, email).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CreateRedemption inserts the redemption and bumps the usage counter in one
// transaction. The (promo_code_id, order_id) unique constraint makes retried
// webhooks idempotent: the conflicting insert returns no row and the counter
// is left untouched.
func (r *promoRepository) CreateRedemption(ctx context.Context, redemption *model.PromoRedemption) (*model.PromoRedemption, bool, error) {
	if redemption.ID == "" {
		redemption.ID = uuid.NewString()
	}
	created := false
	result := redemption
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertQuery = `INSERT INTO promo_redemptions
                                 (id, promo_code_id, order_id, user_id, email,
                                  discount_applied, original_total, final_total)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                             ON CONFLICT (promo_code_id, order_id) DO NOTHING
                             RETURNING created_at`
		err := tx.QueryRow(ctx, insertQuery,
			redemption.ID, redemption.PromoCodeID, redemption.OrderID,
			redemption.UserID, redemption.Email,
			redemption.DiscountApplied, redemption.OriginalTotal, redemption.FinalTotal,
		).Scan(&redemption.CreatedAt)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			const existingQuery = `SELECT id, promo_code_id, order_id, user_id, email,
                                          discount_applied, original_total, final_total, created_at
                                   FROM promo_redemptions WHERE promo_code_id=$1 AND order_id=$2`
			var existing model.PromoRedemption
			if err := tx.QueryRow(ctx, existingQuery, redemption.PromoCodeID, redemption.OrderID).Scan(
				&existing.ID, &existing.PromoCodeID, &existing.OrderID, &existing.UserID, &existing.Email,
				&existing.DiscountApplied, &existing.OriginalTotal, &existing.FinalTotal, &existing.CreatedAt,
			); err != nil {
				return err
			}
			result = &existing
			return nil
		}

		created = true
		const bumpQuery = `UPDATE promo_codes SET usage_count = usage_count + 1, updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, bumpQuery, redemption.PromoCodeID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *promoRepository) GetRedemption(ctx context.Context, promoCodeID, orderID string) (*model.PromoRedemption, error) {
	const query = `SELECT id, promo_code_id, order_id, user_id, email,
                          discount_applied, original_total, final_total, created_at
                   FROM promo_redemptions WHERE promo_code_id=$1 AND order_id=$2`
	var redemption model.PromoRedemption
	err := r.storage.pool.QueryRow(ctx, query, promoCodeID, orderID).Scan(
		&redemption.ID, &redemption.PromoCodeID, &redemption.OrderID,
		&redemption.UserID, &redemption.Email,
		&redemption.DiscountApplied, &redemption.OriginalTotal, &redemption.FinalTotal,
		&redemption.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &redemption, nil
}

// --- AuditRepository implementation ---

func (r *auditRepository) Record(ctx context.Context, entry *model.DeliveryAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	const query = `INSERT INTO delivery_audit (id, order_id, item_id, method, success, ip_address, user_agent)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at`
	return r.storage.pool.QueryRow(ctx, query,
		entry.ID, entry.OrderID, entry.ItemID, entry.Method,
		entry.Success, entry.IPAddress, entry.UserAgent,
	).Scan(&entry.CreatedAt)
}

func (r *auditRepository) ListByOrder(ctx context.Context, orderID string) ([]model.DeliveryAudit, error) {
	const query = `SELECT id, order_id, item_id, method, success, ip_address, user_agent, created_at
                   FROM delivery_audit WHERE order_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DeliveryAudit
	for rows.Next() {
		var entry model.DeliveryAudit
		if err := rows.Scan(
			&entry.ID, &entry.OrderID, &entry.ItemID, &entry.Method,
			&entry.Success, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
