package services

import (
	"context"
	"time"

	"github.com/hopefund/apiserver/types"
)

// UserPatch lists every profile field a user may change. Nil means
// "leave unchanged". PasswordHash carries an already-hashed secret;
// plaintext never reaches this layer.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	DOB          *time.Time
	PasswordHash *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// ApplyPatch merges a partial profile update onto the stored user and
// persists the result. Nil fields keep their prior values.
func (s *UserService) ApplyPatch(ctx context.Context, id int, patch UserPatch) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.DOB != nil {
		user.DOB = *patch.DOB
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}

	return s.repo.Update(ctx, user)
}
