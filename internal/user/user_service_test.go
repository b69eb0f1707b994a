package user

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

func TestUserService_RegisterUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo)
	ctx := context.Background()

	tests := []struct {
		name        string
		email       string
		firstName   string
		lastName    string
		password    string
		setup       func()
		wantErr     bool
		errContains string
	}{
		{
			name:      "success",
			email:     "alice@example.com",
			firstName: "Alice",
			lastName:  "Anderson",
			password:  "Password123",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail(ctx, "alice@example.com").Return(nil, common.ErrNotFound)
				mockUserRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
					func(_ context.Context, u *dbmongo.User) error {
						u.ID = primitive.NewObjectID()
						return nil
					})
			},
		},
		{
			name:      "duplicate email",
			email:     "bob@example.com",
			firstName: "Bobby",
			lastName:  "Brownson",
			password:  "Password123",
			setup: func() {
				mockUserRepo.EXPECT().GetUserByEmail(ctx, "bob@example.com").Return(&dbmongo.User{}, nil)
			},
			wantErr:     true,
			errContains: "already registered",
		},
		{
			name:        "invalid email",
			email:       "bademail",
			firstName:   "Alice",
			lastName:    "Anderson",
			password:    "Password123",
			setup:       func() {},
			wantErr:     true,
			errContains: "email",
		},
		{
			name:        "password with symbols rejected",
			email:       "carol@example.com",
			firstName:   "Carol",
			lastName:    "Carlsson",
			password:    "p@ssw0rd!",
			setup:       func() {},
			wantErr:     true,
			errContains: "password",
		},
		{
			name:        "short first name",
			email:       "dave@example.com",
			firstName:   "Dav",
			lastName:    "Davidson",
			password:    "Password123",
			setup:       func() {},
			wantErr:     true,
			errContains: "firstName",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			user, err := svc.RegisterUser(ctx, tc.email, tc.firstName, tc.lastName, tc.password)
			if tc.wantErr {
				require.Error(t, err)
				if tc.errContains != "" {
					assert.Contains(t, err.Error(), tc.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.False(t, user.ID.IsZero())
			// digest stored, never the plaintext
			assert.NotEqual(t, tc.password, user.Password)
			require.NoError(t, common.CheckPassword(tc.password, user.Password))
		})
	}
}

func TestUserService_LoginUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo)
	ctx := context.Background()

	hashed, err := common.HashPassword("Password123")
	require.NoError(t, err)
	stored := &dbmongo.User{
		ID:       primitive.NewObjectID(),
		Email:    "alice@example.com",
		Password: hashed,
	}

	t.Run("success issues token", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByEmail(ctx, "alice@example.com").Return(stored, nil)

		user, token, err := svc.LoginUser(ctx, "alice@example.com", "Password123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)

		claims, err := common.ValidToken(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID.Hex(), claims.UserID)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByEmail(ctx, "ghost@example.com").Return(nil, common.ErrNotFound)

		_, _, err := svc.LoginUser(ctx, "ghost@example.com", "Password123")
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserRepo.EXPECT().GetUserByEmail(ctx, "alice@example.com").Return(stored, nil)

		_, _, err := svc.LoginUser(ctx, "alice@example.com", "WrongPass1")
		require.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.LoginUser(ctx, "", "")
		require.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserRepo := NewMockUserRepository(ctrl)
	svc := NewUserService(mockUserRepo)
	ctx := context.Background()
	id := primitive.NewObjectID()

	t.Run("updates provided fields only", func(t *testing.T) {
		mockUserRepo.EXPECT().UpdateUser(ctx, id, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ primitive.ObjectID, fields bson.M) error {
				assert.Equal(t, "Alicia", fields["firstName"])
				_, hasLast := fields["lastName"]
				assert.False(t, hasLast)
				return nil
			})

		require.NoError(t, svc.UpdateUser(ctx, id.Hex(), "Alicia", ""))
	})

	t.Run("nothing to update", func(t *testing.T) {
		err := svc.UpdateUser(ctx, id.Hex(), "", "")
		require.ErrorIs(t, err, common.ErrValidation)
	})
}
