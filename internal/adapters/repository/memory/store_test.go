package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

func newTestPoll() *domain.Poll {
	pollID := uuid.New()
	return &domain.Poll{
		ID:       pollID,
		Question: "Best striker?",
		Options: []domain.PollOption{
			{ID: uuid.New(), PollID: pollID, Text: "Haaland"},
			{ID: uuid.New(), PollID: pollID, Text: "Mbappé"},
		},
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func TestCastVoteAtomicity(t *testing.T) {
	store := NewStore()
	repo := store.Polls()
	ctx := context.Background()

	poll := newTestPoll()
	require.NoError(t, repo.Save(ctx, poll))

	// Many users vote concurrently; each vote must land exactly once and the
	// per-option counts must add up to the total.
	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := repo.CastVote(ctx, &domain.Vote{
				ID:       uuid.New(),
				PollID:   poll.ID,
				OptionID: poll.Options[n%2].ID,
				UserID:   uuid.New(),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(voters), got.TotalVotes)
	assert.Equal(t, got.TotalVotes, got.Options[0].Votes+got.Options[1].Votes)
}

func TestCastVoteDuplicateLeavesCountsUntouched(t *testing.T) {
	store := NewStore()
	repo := store.Polls()
	ctx := context.Background()

	poll := newTestPoll()
	require.NoError(t, repo.Save(ctx, poll))

	userID := uuid.New()
	vote := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[0].ID, UserID: userID}
	require.NoError(t, repo.CastVote(ctx, vote))

	dup := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[1].ID, UserID: userID}
	require.ErrorIs(t, repo.CastVote(ctx, dup), domain.ErrAlreadyVoted)

	got, err := repo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalVotes)
	assert.Equal(t, int64(0), got.Options[1].Votes)

	voted, err := repo.HasVoted(ctx, poll.ID, userID)
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestWalletAdjustNeverGoesNegative(t *testing.T) {
	store := NewStore()
	repo := store.Wallets()
	ctx := context.Background()

	userID := uuid.New()
	store.SeedWallet(userID, 10)

	// 10 tokens, 20 concurrent debits of 5: exactly two may succeed.
	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Adjust(ctx, userID, -5)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			var fundsErr *domain.InsufficientFundsError
			require.ErrorAs(t, err, &fundsErr)
		}
	}
	assert.Equal(t, 2, succeeded)

	wallet, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	store := NewStore()
	repo := store.Polls()
	ctx := context.Background()

	poll := newTestPoll()
	require.NoError(t, repo.Save(ctx, poll))

	got, err := repo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	got.Options[0].Votes = 99
	got.TotalVotes = 99

	fresh, err := repo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.TotalVotes)
	assert.Equal(t, int64(0), fresh.Options[0].Votes)
}

func TestUserCreateSeedsWallet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Username: "ana", Email: "ana@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	wallet, err := store.Wallets().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
}
