package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gamestore-backend/internal/domains/checkout/model"
)

// CheckoutRepository defines persistence operations for checkout sessions
type CheckoutRepository interface {
	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	Create(ctx context.Context, session *model.CheckoutSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error)

	// GetByIDForUpdate locks the session row for the duration of the
	// transaction so concurrent finalize calls serialize on it.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.CheckoutSession, error)

	MarkPaid(ctx context.Context, id uuid.UUID, details model.PaymentDetails) (*model.CheckoutSession, error)

	// MarkFinalizedWithTx flips is_finalized only when it was still
	// false. Returns false when another transaction won the race.
	MarkFinalizedWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}
