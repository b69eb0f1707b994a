package user

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmongo.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.User, error)
	GetUserByEmail(ctx context.Context, email string) (*dbmongo.User, error)
	ListUsers(ctx context.Context) ([]dbmongo.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(mc *dbmongo.MongoClient) UserRepository {
	return &userRepository{users: mc.Users()}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmongo.User) error {
	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("%w: insert user: %v", common.ErrStoreUnavailable, err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.User, error) {
	var user dbmongo.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", common.ErrStoreUnavailable, err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*dbmongo.User, error) {
	var user dbmongo.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", common.ErrStoreUnavailable, err)
	}
	return &user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]dbmongo.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", common.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var users []dbmongo.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: decode users: %v", common.ErrStoreUnavailable, err)
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := r.users.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("%w: update user: %v", common.ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: delete user: %v", common.ErrStoreUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
