package post

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *dbmongo.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Comment, error)
	UpdateComment(ctx context.Context, id primitive.ObjectID, content string) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

type commentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(mc *dbmongo.MongoClient) CommentRepository {
	return &commentRepository{comments: mc.Comments()}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *dbmongo.Comment) error {
	res, err := r.comments.InsertOne(ctx, comment)
	if err != nil {
		return storeErr("insert comment", err)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Comment, error) {
	var comment dbmongo.Comment
	err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("find comment", err)
	}
	return &comment, nil
}

func (r *commentRepository) UpdateComment(ctx context.Context, id primitive.ObjectID, content string) error {
	update := bson.M{
		"$set":         bson.M{"content": content},
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := r.comments.UpdateByID(ctx, id, update)
	if err != nil {
		return storeErr("update comment", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete comment", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
