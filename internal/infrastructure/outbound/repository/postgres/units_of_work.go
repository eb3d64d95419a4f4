package postgres

import (
	"context"
	"fmt"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"
	image_repository_postgres "simple-social-service/internal/infrastructure/outbound/repository/image/postgres"
	post_repository_postgres "simple-social-service/internal/infrastructure/outbound/repository/post/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockery --name TxPostRepository --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename TxPostRepository.go
type TxPostRepository interface {
	LockAppends(ctx context.Context) error
	Insert(ctx context.Context, post *model.Post) (*model.Post, error)
}

//go:generate mockery --name TxImageRepository --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename TxImageRepository.go
type TxImageRepository interface {
	Save(ctx context.Context, image *model.Image) (*model.Image, error)
}

//go:generate mockery --name UnitOfWork --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename UnitsOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

//go:generate mockery --name Transaction --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename Transaction.go
type Transaction interface {
	PostRepository() TxPostRepository
	ImageRepository() TxImageRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PostgresUnitOfWork struct {
	pool    *pgxpool.Pool
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewPostgresUOW(pool *pgxpool.Pool, log ports.Logger, metrics ports.MetricsProvider) UnitOfWork {
	return &PostgresUnitOfWork{pool: pool, log: log, metrics: metrics}
}

func (uow *PostgresUnitOfWork) Begin(ctx context.Context) (Transaction, error) {
	tx, err := uow.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return &PostgresTransaction{tx: tx, log: uow.log, metrics: uow.metrics}, nil
}

type PostgresTransaction struct {
	tx      pgx.Tx
	log     ports.Logger
	metrics ports.MetricsProvider
}

func (t *PostgresTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *PostgresTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *PostgresTransaction) PostRepository() TxPostRepository {
	return post_repository_postgres.NewPostRepository(t.tx, t.log, t.metrics)
}

func (t *PostgresTransaction) ImageRepository() TxImageRepository {
	return image_repository_postgres.NewImageRepository(t.tx, t.log, t.metrics)
}
