package rdb

import (
	"context"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// memberRepository implements the repository.MemberRepository interface using GORM.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository is the constructor for memberRepository.
func NewMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

// FindByID retrieves a single member by identifier.
func (repo *memberRepository) FindByID(ctx context.Context, id uint64) (*entity.Member, error) {
	var memberM model.MemberModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&memberM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find member by id")
	}

	return toMemberDomain(&memberM), nil
}

// FindByEmail retrieves a member by email. Emails are stored normalized,
// so normalizing the argument makes the lookup case-insensitive.
func (repo *memberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	var memberM model.MemberModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", entity.NormalizeEmail(email)).
		First(&memberM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find member by email")
	}

	return toMemberDomain(&memberM), nil
}

// Create persists a new member. The unique index on email is the final arbiter for
// concurrent registrations of the same address.
func (repo *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	memberM := fromMemberDomain(member)

	if err := repo.db.WithContext(ctx).Create(memberM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidInput.WrapMessage("missing required member information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create member")
	}

	member.ID = memberM.ID
	member.Email = memberM.Email
	member.CreatedAt = memberM.CreatedAt

	return nil
}

// --- Mapper Functions ---

func toMemberDomain(data *model.MemberModel) *entity.Member {
	if data == nil {
		return nil
	}

	return &entity.Member{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
	}
}

func fromMemberDomain(data *entity.Member) *model.MemberModel {
	if data == nil {
		return nil
	}

	return &model.MemberModel{
		ID:           data.ID,
		Name:         data.Name,
		Email:        entity.NormalizeEmail(data.Email),
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
	}
}
