package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

// ReactionKind selects which set a reaction lands in.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Filter narrows ListPosts. Expired filters on expiresAt against Now.
type Filter struct {
	Topic   *dbmongo.Topic
	Expired *bool
	Now     time.Time
	Limit   int64
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *dbmongo.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Post, error)
	ListPosts(ctx context.Context, filter Filter) ([]dbmongo.Post, error)

	// SetReaction moves the user into one reaction set and out of the other
	// in a single document update, so concurrent reactions cannot leave a
	// user in both sets.
	SetReaction(ctx context.Context, postID, userID primitive.ObjectID, kind ReactionKind) error

	// RefreshReactionsCount recomputes the cached counter from the live set
	// sizes. It is a separate round-trip from SetReaction; the cache is
	// eventually consistent.
	RefreshReactionsCount(ctx context.Context, postID primitive.ObjectID) error

	// MarkExpired flips status Live -> Expired. It matches on status so an
	// already-Expired post is never re-flipped.
	MarkExpired(ctx context.Context, postID primitive.ObjectID) error

	AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error

	// ActivePost returns the unexpired post with the highest reaction total,
	// optionally restricted to one topic. Ties go to the newest post.
	ActivePost(ctx context.Context, topic *dbmongo.Topic, now time.Time) (*dbmongo.Post, error)
}

type postRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(mc *dbmongo.MongoClient) PostRepository {
	return &postRepository{posts: mc.Posts()}
}

func (r *postRepository) CreatePost(ctx context.Context, post *dbmongo.Post) error {
	res, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return storeErr("insert post", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Post, error) {
	var post dbmongo.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("find post", err)
	}
	return &post, nil
}

func (r *postRepository) ListPosts(ctx context.Context, filter Filter) ([]dbmongo.Post, error) {
	query := bson.M{}
	if filter.Topic != nil {
		query["topics"] = *filter.Topic
	}
	if filter.Expired != nil {
		if *filter.Expired {
			query["expiresAt"] = bson.M{"$lte": filter.Now}
		} else {
			query["expiresAt"] = bson.M{"$gt": filter.Now}
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, storeErr("list posts", err)
	}
	defer cursor.Close(ctx)

	var posts []dbmongo.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, storeErr("decode posts", err)
	}
	return posts, nil
}

func (r *postRepository) SetReaction(ctx context.Context, postID, userID primitive.ObjectID, kind ReactionKind) error {
	target, opposite := "likes", "dislikes"
	if kind == ReactionDislike {
		target, opposite = "dislikes", "likes"
	}

	// One update touching both sets: the document never shows the user in
	// likes and dislikes at the same time.
	update := bson.M{
		"$addToSet":    bson.M{target: userID},
		"$pull":        bson.M{opposite: userID},
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := r.posts.UpdateByID(ctx, postID, update)
	if err != nil {
		return storeErr("set reaction", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *postRepository) RefreshReactionsCount(ctx context.Context, postID primitive.ObjectID) error {
	// Pipeline update: the counter is recomputed server-side from the sets
	// as they are at update time, so it converges even when reactions race.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reactionsCount": bson.M{"$add": bson.A{
				bson.M{"$size": "$likes"},
				bson.M{"$size": "$dislikes"},
			}},
		}}},
	}
	if _, err := r.posts.UpdateByID(ctx, postID, update); err != nil {
		return storeErr("refresh reactions count", err)
	}
	return nil
}

func (r *postRepository) MarkExpired(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": postID, "status": dbmongo.StatusLive},
		bson.M{"$set": bson.M{"status": dbmongo.StatusExpired}},
	)
	if err != nil {
		return storeErr("mark expired", err)
	}
	return nil
}

func (r *postRepository) AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	update := bson.M{
		"$push":        bson.M{"comments": commentID},
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := r.posts.UpdateByID(ctx, postID, update)
	if err != nil {
		return storeErr("append comment", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *postRepository) ActivePost(ctx context.Context, topic *dbmongo.Topic, now time.Time) (*dbmongo.Post, error) {
	match := bson.M{"expiresAt": bson.M{"$gt": now}}
	if topic != nil {
		match["topics"] = *topic
	}

	// Rank on set sizes computed in the pipeline, not the cached counter,
	// so a stale reactionsCount never skews the result. Ties: newest
	// createdAt wins, then the larger id (a stable total order).
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"totalReactions": bson.M{"$add": bson.A{
				bson.M{"$size": "$likes"},
				bson.M{"$size": "$dislikes"},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalReactions", Value: -1},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("active post", err)
	}
	defer cursor.Close(ctx)

	var posts []dbmongo.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, storeErr("decode active post", err)
	}
	if len(posts) == 0 {
		return nil, common.ErrNotFound
	}
	return &posts[0], nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStoreUnavailable, op, err)
}
