package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzoneapp/fanzone/internal/adapters/repository/memory"
	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

func seedPoll(t *testing.T, store *memory.Store, question string, createdAt time.Time, trending bool) *domain.Poll {
	t.Helper()
	pollID := uuid.New()
	poll := &domain.Poll{
		ID:       pollID,
		Question: question,
		Options: []domain.PollOption{
			{ID: uuid.New(), PollID: pollID, Text: "Yes", CreatedAt: createdAt},
			{ID: uuid.New(), PollID: pollID, Text: "No", CreatedAt: createdAt},
		},
		Active:    true,
		Trending:  trending,
		CreatedAt: createdAt,
	}
	require.NoError(t, store.Polls().Save(context.Background(), poll))
	return poll
}

func seedPost(t *testing.T, store *memory.Store, content string, createdAt time.Time, highlight bool) *domain.Post {
	t.Helper()
	post := &domain.Post{
		ID:        uuid.New(),
		AuthorID:  uuid.New(),
		Content:   content,
		Highlight: highlight,
		CreatedAt: createdAt,
	}
	require.NoError(t, store.Posts().Save(context.Background(), post))
	return post
}

func TestComposeFeedOrdering(t *testing.T) {
	store := memory.NewStore()
	svc := NewFeedService(store.Polls(), store.Posts())
	ctx := context.Background()

	now := time.Now()
	trendingPoll := seedPoll(t, store, "Trending?", now.Add(-3*time.Hour), true)
	oldPoll := seedPoll(t, store, "Old?", now.Add(-2*time.Hour), false)
	newPost := seedPost(t, store, "Full time!", now.Add(-10*time.Minute), false)
	oldPost := seedPost(t, store, "Kickoff soon", now.Add(-90*time.Minute), false)

	feed, err := svc.Compose(ctx, uuid.Nil, 30)
	require.NoError(t, err)
	require.Len(t, feed, 4)

	// Trending poll first despite being the oldest, then newest-first.
	assert.Equal(t, trendingPoll.ID, feed[0].ItemID())
	assert.Equal(t, domain.FeedKindPoll, feed[0].Kind())
	assert.Equal(t, newPost.ID, feed[1].ItemID())
	assert.Equal(t, oldPost.ID, feed[2].ItemID())
	assert.Equal(t, oldPoll.ID, feed[3].ItemID())
}

func TestComposeFeedDeduplicatesTrending(t *testing.T) {
	store := memory.NewStore()
	svc := NewFeedService(store.Polls(), store.Posts())

	poll := seedPoll(t, store, "Trending?", time.Now(), true)

	feed, err := svc.Compose(context.Background(), uuid.Nil, 30)
	require.NoError(t, err)

	var count int
	for _, item := range feed {
		if item.ItemID() == poll.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestComposeFeedViewerVoteState(t *testing.T) {
	store := memory.NewStore()
	svc := NewFeedService(store.Polls(), store.Posts())
	ctx := context.Background()

	poll := seedPoll(t, store, "Best striker?", time.Now(), false)
	viewerID := uuid.New()
	require.NoError(t, store.Polls().CastVote(ctx, &domain.Vote{
		ID:       uuid.New(),
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
		UserID:   viewerID,
	}))

	feed, err := svc.Compose(ctx, viewerID, 30)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	item, ok := feed[0].(domain.PollItem)
	require.True(t, ok)
	assert.True(t, item.UserVoted)
	require.NotNil(t, item.UserOption)
	assert.Equal(t, poll.Options[0].ID, *item.UserOption)

	// An anonymous viewer gets no vote state.
	feed, err = svc.Compose(ctx, uuid.Nil, 30)
	require.NoError(t, err)
	anon, ok := feed[0].(domain.PollItem)
	require.True(t, ok)
	assert.False(t, anon.UserVoted)
	assert.Nil(t, anon.UserOption)
}

func TestComposeFeedLimit(t *testing.T) {
	store := memory.NewStore()
	svc := NewFeedService(store.Polls(), store.Posts())

	now := time.Now()
	for i := 0; i < 6; i++ {
		seedPost(t, store, "post", now.Add(-time.Duration(i)*time.Minute), false)
	}

	feed, err := svc.Compose(context.Background(), uuid.Nil, 4)
	require.NoError(t, err)
	assert.Len(t, feed, 4)
}

func TestFeedKinds(t *testing.T) {
	store := memory.NewStore()
	svc := NewFeedService(store.Polls(), store.Posts())

	seedPost(t, store, "what a goal", time.Now(), true)
	seedPost(t, store, "thoughts on the match", time.Now().Add(-time.Minute), false)

	feed, err := svc.Compose(context.Background(), uuid.Nil, 30)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, domain.FeedKindHighlight, feed[0].Kind())
	assert.Equal(t, domain.FeedKindPost, feed[1].Kind())
}
