package dbmongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topic is the closed set of tags a post can carry.
type Topic string

const (
	TopicPolitics Topic = "Politics"
	TopicHealth   Topic = "Health"
	TopicSports   Topic = "Sports"
	TopicTech     Topic = "Tech"
)

func ParseTopic(s string) (Topic, error) {
	switch Topic(s) {
	case TopicPolitics, TopicHealth, TopicSports, TopicTech:
		return Topic(s), nil
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// Status is persisted for query efficiency; it may lag behind the clock until
// a read path refreshes it.
type Status string

const (
	StatusLive    Status = "Live"
	StatusExpired Status = "Expired"
)

// ComputeStatus derives the current status from the clock. Expired is a
// one-way latch: a stored Expired never reverts even if the clock says otherwise.
func ComputeStatus(now time.Time, expiresAt time.Time, stored Status) Status {
	if stored == StatusExpired {
		return StatusExpired
	}
	if now.After(expiresAt) {
		return StatusExpired
	}
	return StatusLive
}

// Post document
type Post struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Author         primitive.ObjectID   `bson:"author" json:"author"`
	Title          string               `bson:"title" json:"title"`
	Content        string               `bson:"content" json:"content"`
	Topics         []Topic              `bson:"topics" json:"topics"`
	Status         Status               `bson:"status" json:"status"`
	Likes          []primitive.ObjectID `bson:"likes" json:"-"`
	Dislikes       []primitive.ObjectID `bson:"dislikes" json:"-"`
	Comments       []primitive.ObjectID `bson:"comments" json:"comments"`
	ExpiresAt      time.Time            `bson:"expiresAt" json:"expiresAt"`
	ReactionsCount int                  `bson:"reactionsCount" json:"reactionsCount"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (p *Post) IsExpired(now time.Time) bool {
	return ComputeStatus(now, p.ExpiresAt, p.Status) == StatusExpired
}

func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (p *Post) IsDislikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Dislikes {
		if id == userID {
			return true
		}
	}
	return false
}
