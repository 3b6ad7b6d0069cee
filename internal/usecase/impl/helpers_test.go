package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"library/config"
	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/infra/auth"
	"library/internal/infra/persistence/rdb"
	"library/internal/infra/persistence/rdb/rdbtest"
	"library/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		SecretKey: config.SecretKeyConfig{Access: "usecase_test_secret_key_long_enough"},
		Auth:      &config.AuthConfig{BcryptCost: bcrypt.MinCost, TokenTTL: time.Hour},
		Catalog:   &config.CatalogConfig{MaxPageSize: 10},
	}
	cfg.ApplyDefaults()

	return cfg
}

type serviceFixtures struct {
	members usecase.MemberUsecase
	books   usecase.BookUsecase
}

// newServices wires both services against a fresh SQLite database.
func newServices(t *testing.T) serviceFixtures {
	t.Helper()

	cfg := newTestConfig()
	db := rdbtest.NewDB(t)
	txManager := rdb.NewTransactionManager(db)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return serviceFixtures{
		members: NewMemberService(MemberServiceParams{
			TxManager:    txManager,
			Hasher:       auth.NewBcryptHasher(cfg),
			TokenService: tokens,
			Logger:       newDiscardLogger(),
		}),
		books: NewBookService(BookServiceParams{
			TxManager: txManager,
			BookRepo:  rdb.NewBookRepository(db),
			Config:    cfg,
			Logger:    newDiscardLogger(),
		}),
	}
}

// mockTransactionManager is a testify mock of repository.TransactionManager.
type mockTransactionManager struct {
	mock.Mock
}

func (m *mockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)

	return args.Error(0)
}

// mockBookRepository is a testify mock of repository.BookRepository.
type mockBookRepository struct {
	mock.Mock
	repository.BookRepository
}

func (m *mockBookRepository) FindByID(ctx context.Context, id uint64) (*entity.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*entity.Book)

	return book, args.Error(1)
}

func (m *mockBookRepository) List(ctx context.Context, query repository.BookQuery) ([]*entity.Book, int64, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]*entity.Book)

	return items, args.Get(1).(int64), args.Error(2)
}
