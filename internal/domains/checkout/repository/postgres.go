package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamestore-backend/internal/domains/checkout/model"
)

// PostgresRepository implements CheckoutRepository on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CheckoutRepository {
	return &PostgresRepository{db: db}
}

// -------------------------------------------------------------------
// TRANSACTION MANAGEMENT
// -------------------------------------------------------------------

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// -------------------------------------------------------------------
// SESSION OPERATIONS
// -------------------------------------------------------------------

const sessionColumns = `
	id, user_id, checkout_items, shipping_address, payment_method,
	total_price, payment_status, is_paid, paid_at, payment_details,
	is_finalized, finalized_at, created_at, updated_at
`

func scanSession(row pgx.Row) (*model.CheckoutSession, error) {
	var s model.CheckoutSession
	err := row.Scan(
		&s.ID,              // id
		&s.UserID,          // user_id
		&s.CheckoutItems,   // checkout_items (jsonb)
		&s.ShippingAddress, // shipping_address (jsonb)
		&s.PaymentMethod,   // payment_method
		&s.TotalPrice,      // total_price
		&s.PaymentStatus,   // payment_status
		&s.IsPaid,          // is_paid
		&s.PaidAt,          // paid_at (nullable)
		&s.PaymentDetails,  // payment_details (jsonb, nullable)
		&s.IsFinalized,     // is_finalized
		&s.FinalizedAt,     // finalized_at (nullable)
		&s.CreatedAt,       // created_at
		&s.UpdatedAt,       // updated_at
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persists a new session in the pending state
func (r *PostgresRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	query := `
		INSERT INTO checkout_sessions (
			user_id, checkout_items, shipping_address, payment_method,
			total_price, payment_status, is_paid, is_finalized
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		session.UserID,
		session.CheckoutItems,
		session.ShippingAddress,
		session.PaymentMethod,
		session.TotalPrice,
		session.PaymentStatus,
		session.IsPaid,
		session.IsFinalized,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create checkout session: %w", err)
	}

	return nil
}

// GetByID loads a session by ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM checkout_sessions WHERE id = $1`

	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFoundRow
		}
		return nil, fmt.Errorf("get checkout session: %w", err)
	}

	return s, nil
}

// GetByIDForUpdate loads a session with a row lock inside the transaction
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.CheckoutSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM checkout_sessions WHERE id = $1 FOR UPDATE`

	s, err := scanSession(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFoundRow
		}
		return nil, fmt.Errorf("get checkout session for update: %w", err)
	}

	return s, nil
}

// MarkPaid records the payment confirmation on a session
func (r *PostgresRepository) MarkPaid(ctx context.Context, id uuid.UUID, details model.PaymentDetails) (*model.CheckoutSession, error) {
	query := `
		UPDATE checkout_sessions
		SET payment_status = $2,
		    is_paid = TRUE,
		    paid_at = NOW(),
		    payment_details = $3,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRow(ctx, query, id, model.PaymentStatusPaid, details))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFoundRow
		}
		return nil, fmt.Errorf("mark checkout session paid: %w", err)
	}

	return s, nil
}

// MarkFinalizedWithTx performs the conditional check-and-set on
// is_finalized. The WHERE clause makes the transition atomic: of two
// racing transactions only one sees is_finalized = FALSE.
func (r *PostgresRepository) MarkFinalizedWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE checkout_sessions
		SET is_finalized = TRUE,
		    finalized_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND is_finalized = FALSE
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark checkout session finalized: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
