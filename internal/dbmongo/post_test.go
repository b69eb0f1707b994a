package dbmongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeStatus(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		stored    Status
		want      Status
	}{
		{"live before expiry", now.Add(time.Hour), StatusLive, StatusLive},
		{"expired after expiry", now.Add(-time.Minute), StatusLive, StatusExpired},
		{"expiry in the past at creation", now.Add(-24 * time.Hour), StatusLive, StatusExpired},
		{"exactly at expiry still live", now, StatusLive, StatusLive},
		{"latch never reverts", now.Add(time.Hour), StatusExpired, StatusExpired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeStatus(now, tc.expiresAt, tc.stored))
		})
	}
}

func TestPost_ReactionMembership(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	p := &Post{
		Likes:    []primitive.ObjectID{alice},
		Dislikes: []primitive.ObjectID{bob},
	}

	assert.True(t, p.IsLikedBy(alice))
	assert.False(t, p.IsLikedBy(bob))
	assert.True(t, p.IsDislikedBy(bob))
	assert.False(t, p.IsDislikedBy(alice))
}

func TestPost_IsExpired(t *testing.T) {
	now := time.Now()

	live := &Post{Status: StatusLive, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, live.IsExpired(now))

	// a post whose clock has passed expiresAt reads expired even while the
	// stored status still says Live
	stale := &Post{Status: StatusLive, ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, stale.IsExpired(now))
}

func TestParseTopic(t *testing.T) {
	for _, s := range []string{"Politics", "Health", "Sports", "Tech"} {
		topic, err := ParseTopic(s)
		require.NoError(t, err)
		assert.Equal(t, Topic(s), topic)
	}

	_, err := ParseTopic("Cooking")
	require.Error(t, err)

	// topics are case sensitive
	_, err = ParseTopic("tech")
	require.Error(t, err)
}
