package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fanzoneapp/fanzone/internal/core/domain"
	"github.com/fanzoneapp/fanzone/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, question, required_tokens, creator_id, creator_name, creator_is_team, trending, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Question, poll.RequiredTokens,
		poll.Creator.ID, poll.Creator.Name, poll.Creator.IsTeam,
		poll.Trending, poll.Active, poll.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (id, poll_id, text, votes, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for pos, opt := range poll.Options {
		_, err = stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, opt.Votes, pos)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, question, total_votes, required_tokens, creator_id, creator_name, creator_is_team, trending, active, created_at, expires_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.Question, &poll.TotalVotes, &poll.RequiredTokens,
		&poll.Creator.ID, &poll.Creator.Name, &poll.Creator.IsTeam,
		&poll.Trending, &poll.Active, &poll.CreatedAt, &poll.ExpiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	query := `
		SELECT id, question, total_votes, required_tokens, creator_id, creator_name, creator_is_team, trending, active, created_at, expires_at
		FROM polls
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) ListTrending(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, question, total_votes, required_tokens, creator_id, creator_name, creator_is_team, trending, active, created_at, expires_at
		FROM polls
		WHERE trending AND active
		ORDER BY total_votes DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) SetTrending(ctx context.Context, pollID uuid.UUID, trending bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE polls SET trending = $2 WHERE id = $1`, pollID, trending)
	if err != nil {
		return fmt.Errorf("failed to set trending flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) Close(ctx context.Context, pollID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE polls SET active = FALSE WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

// CastVote runs the duplicate check and both counter increments in one
// transaction. The unique constraint on (poll_id, user_id) closes the race
// between two near-simultaneous votes by the same user.
func (r *pollRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVote := `
		INSERT INTO votes (id, poll_id, option_id, user_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryVote, vote.ID, vote.PollID, vote.OptionID, vote.UserID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE poll_options SET votes = votes + 1 WHERE id = $1 AND poll_id = $2`,
		vote.OptionID, vote.PollID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment option count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUnknownOption
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE polls SET total_votes = total_votes + 1 WHERE id = $1`,
		vote.PollID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment poll total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *pollRepository) GetVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, poll_id, option_id, user_id, created_at
		FROM votes
		WHERE poll_id = $1 AND user_id = $2
	`
	var vote domain.Vote
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(
		&vote.ID, &vote.PollID, &vote.OptionID, &vote.UserID, &vote.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &vote, nil
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.Question, &poll.TotalVotes, &poll.RequiredTokens,
			&poll.Creator.ID, &poll.Creator.Name, &poll.Creator.IsTeam,
			&poll.Trending, &poll.Active, &poll.CreatedAt, &poll.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT id, poll_id, text, votes, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
