package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzoneapp/fanzone/internal/adapters/repository/memory"
	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

func TestAnalyzeTrending(t *testing.T) {
	store := memory.NewStore()
	svc := NewTrendingService(store.Polls(), 10, 5)
	ctx := context.Background()

	now := time.Now()

	hot := seedPoll(t, store, "Hot?", now.Add(-2*time.Hour), false)
	hot.TotalVotes = 40 // 20 votes/hour
	require.NoError(t, store.Polls().Save(ctx, hot))

	slow := seedPoll(t, store, "Slow?", now.Add(-48*time.Hour), false)
	slow.TotalVotes = 40 // well under 1 vote/hour
	require.NoError(t, store.Polls().Save(ctx, slow))

	tiny := seedPoll(t, store, "Tiny?", now.Add(-10*time.Minute), false)
	tiny.TotalVotes = 5 // fast but below the vote floor
	require.NoError(t, store.Polls().Save(ctx, tiny))

	cooled := seedPoll(t, store, "Cooled?", now.Add(-72*time.Hour), true)
	cooled.TotalVotes = 20
	require.NoError(t, store.Polls().Save(ctx, cooled))

	require.NoError(t, svc.AnalyzeTrending(ctx))

	get := func(id [16]byte) *domain.Poll {
		poll, err := store.Polls().GetByID(ctx, id)
		require.NoError(t, err)
		return poll
	}

	assert.True(t, get(hot.ID).Trending)
	assert.False(t, get(slow.ID).Trending)
	assert.False(t, get(tiny.ID).Trending)
	assert.False(t, get(cooled.ID).Trending, "stale trending flag should be cleared")
}
