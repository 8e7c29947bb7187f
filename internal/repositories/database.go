package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cosmetics-store-backend/internal/config"
	"cosmetics-store-backend/internal/models"

	"github.com/XSAM/otelsql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

// Sentinel errors surfaced by the locking primitives so the service layer can
// map them onto its own taxonomy.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCheckoutCompleted = errors.New("checkout already completed")
)

// Querier is satisfied by both *sql.DB and *sql.Tx; repository methods that
// must run inside the order-placement transaction take it explicitly.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repositories struct {
	DB       *sql.DB
	User     UserRepository
	Product  ProductRepository
	Cart     CartRepository
	Checkout CheckoutRepository
	Order    OrderRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:       db,
		User:     NewUserRepo(db),
		Product:  NewProductRepo(db),
		Cart:     NewCartRepo(db),
		Checkout: NewCheckoutRepo(db),
		Order:    NewOrderRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// actorColumns splits an Actor into the nullable user_id / session_key column
// pair used by carts, checkouts and orders.
func actorColumns(actor models.Actor) (uuid.NullUUID, sql.NullString) {
	if userID, ok := actor.UserID(); ok {
		return uuid.NullUUID{UUID: userID, Valid: true}, sql.NullString{}
	}

	sessionKey, ok := actor.SessionKey()

	return uuid.NullUUID{}, sql.NullString{String: sessionKey, Valid: ok}
}

func actorFromColumns(userID uuid.NullUUID, sessionKey sql.NullString) models.Actor {
	if userID.Valid {
		return models.UserActor(userID.UUID)
	}

	return models.GuestActor(sessionKey.String)
}
