package impl

import (
	"context"
	"strings"
	"sync"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/auth"
	"library/internal/infra/persistence/rdb"
	"library/internal/infra/persistence/rdb/rdbtest"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemberService_RegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	fx := newServices(t)

	member, err := fx.members.Register(ctx, &usecase.RegisterInput{
		Name:     "Grace Hopper",
		Email:    "Grace@Example.com",
		Password: "cobol-4-ever",
	})
	require.NoError(t, err)
	assert.NotZero(t, member.ID)
	assert.Equal(t, "grace@example.com", member.Email)
	assert.NotEqual(t, "cobol-4-ever", member.PasswordHash)

	out, err := fx.members.Login(ctx, &usecase.LoginInput{Email: "GRACE@example.com ", Password: "cobol-4-ever"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, TokenTypeBearer, out.TokenType)
	assert.Equal(t, member.ID, out.Member.ID)
	assert.Positive(t, out.ExpiresIn)

	memberID, err := fx.members.Authenticate(ctx, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, member.ID, memberID)
}

func TestMemberService_Register_InvalidInput(t *testing.T) {
	ctx := context.Background()
	fx := newServices(t)

	tests := []struct {
		name  string
		input usecase.RegisterInput
	}{
		{name: "missing name", input: usecase.RegisterInput{Name: "  ", Email: "a@example.com", Password: "pw"}},
		{name: "missing email", input: usecase.RegisterInput{Name: "A", Email: "", Password: "pw"}},
		{name: "invalid email", input: usecase.RegisterInput{Name: "A", Email: "not-an-email", Password: "pw"}},
		{name: "missing password", input: usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: ""}},
		{name: "password too long", input: usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 73)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.members.Register(ctx, &tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestMemberService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	fx := newServices(t)

	_, err := fx.members.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "same@example.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = fx.members.Register(ctx, &usecase.RegisterInput{Name: "B", Email: "SAME@example.com", Password: "pw2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))

	// The first account is untouched.
	_, err = fx.members.Login(ctx, &usecase.LoginInput{Email: "same@example.com", Password: "pw1"})
	assert.NoError(t, err)
}

func TestMemberService_Register_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	fx := newServices(t)

	const attempts = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := fx.members.Register(ctx, &usecase.RegisterInput{Name: "Racer", Email: "race@example.com", Password: "pw"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrDuplicateEmail):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
}

// staleLookupMemberRepo misses every email lookup, as a transaction does when a
// concurrent registration commits between its lookup and its insert.
type staleLookupMemberRepo struct {
	repository.MemberRepository
}

func (r staleLookupMemberRepo) FindByEmail(context.Context, string) (*entity.Member, error) {
	return nil, repository.ErrMemberNotFound
}

type staleLookupFactory struct {
	members repository.MemberRepository
	books   repository.BookRepository
}

func (f staleLookupFactory) MemberRepo() repository.MemberRepository {
	return staleLookupMemberRepo{MemberRepository: f.members}
}

func (f staleLookupFactory) BookRepo() repository.BookRepository {
	return f.books
}

// inlineTxManager runs the callback against a fixed factory without a transaction.
type inlineTxManager struct {
	factory repository.RepositoryFactory
}

func (m inlineTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

func TestMemberService_Register_UniqueIndexRejectsRacingInsert(t *testing.T) {
	ctx := context.Background()
	db := rdbtest.NewDB(t)
	members := rdb.NewMemberRepository(db)

	// The racing registration that committed first.
	require.NoError(t, members.Create(ctx, &entity.Member{Name: "First", Email: "race@example.com", PasswordHash: "x"}))

	srv := NewMemberService(MemberServiceParams{
		TxManager: inlineTxManager{factory: staleLookupFactory{members: members, books: rdb.NewBookRepository(db)}},
		Hasher:    auth.NewBcryptHasher(newTestConfig()),
		Logger:    newDiscardLogger(),
	})

	member, err := srv.Register(ctx, &usecase.RegisterInput{Name: "Second", Email: "Race@Example.com", Password: "pw"})
	require.Error(t, err)
	assert.Nil(t, member)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
	assert.False(t, domainerrors.IsStorageFailure(err))

	stored, err := members.FindByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, "First", stored.Name)
}

func TestMemberService_Login_Failures(t *testing.T) {
	ctx := context.Background()
	fx := newServices(t)

	_, err := fx.members.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: "right"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input usecase.LoginInput
	}{
		{name: "wrong password", input: usecase.LoginInput{Email: "a@example.com", Password: "wrong"}},
		{name: "unknown email", input: usecase.LoginInput{Email: "ghost@example.com", Password: "right"}},
		{name: "empty password", input: usecase.LoginInput{Email: "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := fx.members.Login(ctx, &tt.input)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		})
	}
}

func TestMemberService_Authenticate_Rejects(t *testing.T) {
	ctx := context.Background()
	fx := newServices(t)

	_, err := fx.members.Authenticate(ctx, "")
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))

	_, err = fx.members.Authenticate(ctx, "garbage")
	assert.True(t, domainerrors.IsTokenRejection(err))
}

func TestMemberService_Register_StorageFailure(t *testing.T) {
	ctx := context.Background()
	txManager := new(mockTransactionManager)
	storageErr := domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "begin transaction")
	txManager.On("Execute", ctx, mock.Anything).Return(storageErr)

	srv := NewMemberService(MemberServiceParams{
		TxManager: txManager,
		Hasher:    auth.NewBcryptHasher(newTestConfig()),
		Logger:    newDiscardLogger(),
	})

	_, err := srv.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, domainerrors.IsStorageFailure(err))
	txManager.AssertExpectations(t)

	_, err = srv.Login(ctx, &usecase.LoginInput{Email: "a@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, domainerrors.IsStorageFailure(err))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
