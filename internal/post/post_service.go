package post

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"piazza/internal/common"
	"piazza/internal/dbmongo"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID, title, content string, topics []string, expiresInMinutes int) (*dbmongo.Post, error)
	GetPost(ctx context.Context, postID string) (*dbmongo.Post, error)
	ListPosts(ctx context.Context, topic string, expired *bool) ([]dbmongo.Post, error)
	GetActivePost(ctx context.Context, topic string) (*dbmongo.Post, error)
	Like(ctx context.Context, postID, userID string) error
	Dislike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID, authorID, content string) (*dbmongo.Comment, error)
	GetComment(ctx context.Context, commentID string) (*dbmongo.Comment, error)
	UpdateComment(ctx context.Context, commentID, callerID, content string) error
	DeleteComment(ctx context.Context, commentID, callerID string) error
}

type postService struct {
	posts    PostRepository
	comments CommentRepository
	now      func() time.Time
}

func NewPostService(posts PostRepository, comments CommentRepository) PostService {
	return &postService{posts: posts, comments: comments, now: time.Now}
}

func (s *postService) CreatePost(ctx context.Context, authorID, title, content string, topics []string, expiresInMinutes int) (*dbmongo.Post, error) {
	author, err := parseID(authorID)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := common.ValidatePostContent(content); err != nil {
		return nil, err
	}
	if len(topics) != 1 {
		return nil, fmt.Errorf("%w: exactly one topic required", common.ErrValidation)
	}
	topic, err := dbmongo.ParseTopic(topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if expiresInMinutes <= 0 {
		return nil, fmt.Errorf("%w: expiresInMinutes must be positive", common.ErrValidation)
	}

	now := s.now()
	post := &dbmongo.Post{
		Author:         author,
		Title:          title,
		Content:        content,
		Topics:         []dbmongo.Topic{topic},
		Status:         dbmongo.StatusLive,
		Likes:          []primitive.ObjectID{},
		Dislikes:       []primitive.ObjectID{},
		Comments:       []primitive.ObjectID{},
		ExpiresAt:      now.Add(time.Duration(expiresInMinutes) * time.Minute),
		ReactionsCount: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*dbmongo.Post, error) {
	id, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshStatus(ctx, post)
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, topic string, expired *bool) ([]dbmongo.Post, error) {
	filter := Filter{Expired: expired, Now: s.now()}
	if topic != "" {
		t, err := dbmongo.ParseTopic(topic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		filter.Topic = &t
	}

	posts, err := s.posts.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		s.refreshStatus(ctx, &posts[i])
	}
	return posts, nil
}

func (s *postService) GetActivePost(ctx context.Context, topic string) (*dbmongo.Post, error) {
	var t *dbmongo.Topic
	if topic != "" {
		parsed, err := dbmongo.ParseTopic(topic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		t = &parsed
	}
	return s.posts.ActivePost(ctx, t, s.now())
}

func (s *postService) Like(ctx context.Context, postID, userID string) error {
	return s.react(ctx, postID, userID, ReactionLike)
}

func (s *postService) Dislike(ctx context.Context, postID, userID string) error {
	return s.react(ctx, postID, userID, ReactionDislike)
}

// react checks preconditions in order: existence, expiry, ownership,
// duplicate. Each failure is a distinct tagged error.
func (s *postService) react(ctx context.Context, postID, userID string, kind ReactionKind) error {
	pid, err := parseID(postID)
	if err != nil {
		return err
	}
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	post, err := s.posts.GetPostByID(ctx, pid)
	if err != nil {
		return err
	}
	s.refreshStatus(ctx, post)
	if post.Status == dbmongo.StatusExpired {
		return common.ErrExpired
	}
	if post.Author == uid {
		return common.ErrSelfReaction
	}
	already := post.IsLikedBy(uid)
	if kind == ReactionDislike {
		already = post.IsDislikedBy(uid)
	}
	if already {
		return common.ErrDuplicateReaction
	}

	if err := s.posts.SetReaction(ctx, pid, uid, kind); err != nil {
		return err
	}
	return s.posts.RefreshReactionsCount(ctx, pid)
}

func (s *postService) AddComment(ctx context.Context, postID, authorID, content string) (*dbmongo.Comment, error) {
	pid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	author, err := parseID(authorID)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	s.refreshStatus(ctx, post)
	if post.Status == dbmongo.StatusExpired {
		return nil, common.ErrExpired
	}
	if post.Author == author {
		return nil, common.ErrSelfReaction
	}

	now := s.now()
	comment := &dbmongo.Comment{
		Author:    author,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.AppendComment(ctx, pid, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *postService) GetComment(ctx context.Context, commentID string) (*dbmongo.Comment, error) {
	id, err := parseID(commentID)
	if err != nil {
		return nil, err
	}
	return s.comments.GetCommentByID(ctx, id)
}

func (s *postService) UpdateComment(ctx context.Context, commentID, callerID, content string) error {
	id, err := parseID(commentID)
	if err != nil {
		return err
	}
	caller, err := parseID(callerID)
	if err != nil {
		return err
	}
	if err := common.ValidateCommentContent(content); err != nil {
		return err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.Author != caller {
		return fmt.Errorf("%w: not the comment author", common.ErrValidation)
	}
	return s.comments.UpdateComment(ctx, id, content)
}

func (s *postService) DeleteComment(ctx context.Context, commentID, callerID string) error {
	id, err := parseID(commentID)
	if err != nil {
		return err
	}
	caller, err := parseID(callerID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.Author != caller {
		return fmt.Errorf("%w: not the comment author", common.ErrValidation)
	}
	return s.comments.DeleteComment(ctx, id)
}

// refreshStatus applies the lazy Live -> Expired transition on a read path.
// The returned post always carries the computed status; the persistence of
// the flip is fire-and-forget, a failed write is logged and the read goes on.
func (s *postService) refreshStatus(ctx context.Context, post *dbmongo.Post) {
	status := dbmongo.ComputeStatus(s.now(), post.ExpiresAt, post.Status)
	if status == post.Status {
		return
	}
	post.Status = status
	if err := s.posts.MarkExpired(ctx, post.ID); err != nil {
		log.Printf("post %s: expiry flip not persisted: %v", post.ID.Hex(), err)
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", common.ErrValidation, id)
	}
	return oid, nil
}
