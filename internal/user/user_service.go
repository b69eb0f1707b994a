package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

type UserService interface {
	RegisterUser(ctx context.Context, email, firstName, lastName, password string) (*dbmongo.User, error)
	LoginUser(ctx context.Context, email, password string) (*dbmongo.User, string, error)
	GetUser(ctx context.Context, userID string) (*dbmongo.User, error)
	ListUsers(ctx context.Context) ([]dbmongo.User, error)
	UpdateUser(ctx context.Context, userID, firstName, lastName string) error
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo UserRepository
}

func NewUserService(userRepo UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) RegisterUser(ctx context.Context, email, firstName, lastName, password string) (*dbmongo.User, error) {
	if err := common.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := common.ValidateName("firstName", firstName); err != nil {
		return nil, err
	}
	if err := common.ValidateName("lastName", lastName); err != nil {
		return nil, err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	// duplicate check
	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: email already registered", common.ErrValidation)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &dbmongo.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) LoginUser(ctx context.Context, email, password string) (*dbmongo.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password required", common.ErrValidation)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}

	if err := common.CheckPassword(password, user.Password); err != nil {
		return nil, "", fmt.Errorf("%w: wrong password", common.ErrValidation)
	}

	token, err := common.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*dbmongo.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", common.ErrValidation, userID)
	}
	return s.userRepo.GetUserByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]dbmongo.User, error) {
	return s.userRepo.ListUsers(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, userID, firstName, lastName string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", common.ErrValidation, userID)
	}

	fields := bson.M{}
	if firstName != "" {
		if err := common.ValidateName("firstName", firstName); err != nil {
			return err
		}
		fields["firstName"] = firstName
	}
	if lastName != "" {
		if err := common.ValidateName("lastName", lastName); err != nil {
			return err
		}
		fields["lastName"] = lastName
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	return s.userRepo.UpdateUser(ctx, id, fields)
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", common.ErrValidation, userID)
	}
	return s.userRepo.DeleteUser(ctx, id)
}
