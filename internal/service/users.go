package service

import (
	"context"
	"strings"
	"time"

	"github.com/challenge-hub/backend/internal/client"
	"github.com/challenge-hub/backend/internal/db"
	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/prompt"
)

type UserRepository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserService struct {
	repo      UserRepository
	hasher    PasswordHasher
	generator client.Generator
	now       func() time.Time
}

// NewUserService wires the account repository. generator may be nil, in
// which case Generate always fails with ErrGenerationDisabled.
func NewUserService(repo UserRepository, hasher PasswordHasher, generator client.Generator) *UserService {
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		generator: generator,
		now:       time.Now,
	}
}

func (s *UserService) List(ctx context.Context, page, perPage int) (*model.Page[model.User], error) {
	page, perPage, offset := paging(page, perPage)
	users, total, err := s.repo.ListUsers(ctx, perPage, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(users, page, perPage, total), nil
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return createUser(ctx, s.repo, s.hasher, req.Name, req.Email, req.Password)
}

// Generate asks the generator for a random account. The reply goes through
// the same validation and hashing as a manual create.
func (s *UserService) Generate(ctx context.Context) (*model.User, error) {
	text, err := generate(ctx, s.generator, "user", prompt.UserPrompt(s.now()))
	if err != nil {
		return nil, err
	}
	reply, err := prompt.ParseUserReply(text)
	if err != nil {
		return nil, malformedReply("user", text, err)
	}
	return createUser(ctx, s.repo, s.hasher, &reply.Name, &reply.Email, &reply.Password)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	verr.optional("name", req.Name, func(v string) { verr.maxLength("name", strings.TrimSpace(v), maxStringLength) })
	verr.optional("email", req.Email, func(v string) {
		v = strings.TrimSpace(v)
		verr.email("email", v)
		verr.maxLength("email", v, maxStringLength)
	})
	verr.optional("password", req.Password, verr.password)
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.taken("email")
			return nil, verr
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			verr.taken("email")
			return nil, verr
		}
		return nil, mapNotFound(err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return mapNotFound(s.repo.DeleteUser(ctx, id))
}

func createUser(ctx context.Context, repo UserRepository, hasher PasswordHasher, name, email, password *string) (*model.User, error) {
	verr := &ValidationError{}
	if verr.required("name", name) {
		verr.maxLength("name", strings.TrimSpace(*name), maxStringLength)
	}
	cleanEmail := ""
	if verr.required("email", email) {
		cleanEmail = strings.TrimSpace(*email)
		verr.email("email", cleanEmail)
		verr.maxLength("email", cleanEmail, maxStringLength)
	}
	if verr.required("password", password) {
		verr.password(*password)
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	taken, err := repo.EmailTaken(ctx, cleanEmail, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		verr.taken("email")
		return nil, verr
	}

	hash, err := hasher.Hash(*password)
	if err != nil {
		return nil, err
	}

	user, err := repo.CreateUser(ctx, strings.TrimSpace(*name), cleanEmail, hash)
	if err != nil {
		if db.IsUniqueViolation(err) {
			verr.taken("email")
			return nil, verr
		}
		return nil, err
	}
	return user, nil
}
