// Package memory provides a mutex-guarded in-memory implementation of the
// repository ports. It backs unit tests and any deployment that does not
// need durable storage; the semantics match the postgres adapter, including
// the atomicity of vote casting and the wallet's non-negativity check.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
)

type voteKey struct {
	pollID uuid.UUID
	userID uuid.UUID
}

// Store holds all in-memory state behind one lock. The per-port views
// returned by Polls, Wallets, Users and Posts share it, so cross-entity
// sequences see a consistent picture.
type Store struct {
	mu      sync.Mutex
	polls   map[uuid.UUID]*domain.Poll
	votes   map[voteKey]*domain.Vote
	wallets map[uuid.UUID]*domain.Wallet
	users   map[uuid.UUID]*domain.User
	posts   map[uuid.UUID]*domain.Post
}

func NewStore() *Store {
	return &Store{
		polls:   make(map[uuid.UUID]*domain.Poll),
		votes:   make(map[voteKey]*domain.Vote),
		wallets: make(map[uuid.UUID]*domain.Wallet),
		users:   make(map[uuid.UUID]*domain.User),
		posts:   make(map[uuid.UUID]*domain.Post),
	}
}

func (s *Store) Polls() *PollRepository     { return &PollRepository{store: s} }
func (s *Store) Wallets() *WalletRepository { return &WalletRepository{store: s} }
func (s *Store) Users() *UserRepository     { return &UserRepository{store: s} }
func (s *Store) Posts() *PostRepository     { return &PostRepository{store: s} }

// SeedWallet creates or replaces a wallet with the given balance. User
// creation uses it for the sign-up bonus; tests use it for fixtures.
func (s *Store) SeedWallet(userID uuid.UUID, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[userID] = &domain.Wallet{UserID: userID, Balance: balance}
}

func clonePoll(p *domain.Poll) *domain.Poll {
	cp := *p
	cp.Options = make([]domain.PollOption, len(p.Options))
	copy(cp.Options, p.Options)
	return &cp
}
