// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/db"
	"github.com/razeemarc/election-backend/models"
)

// CastVote records one member's ballot for an APPROVED candidate of an open
// election. The (member, election) primary key on votes is the final
// arbiter: of two concurrent ballots exactly one commits and the other gets
// ErrConflict.
func (e *Engine) CastVote(ctx context.Context, memberID, electionID, candidateID string) (models.VoteReceipt, error) {
	var receipt models.VoteReceipt
	err := e.inTx(ctx, "cast vote", func(tx *sql.Tx) error {
		if _, err := uuid.Parse(electionID); err != nil {
			return notFound("election", electionID)
		}
		// The share lock holds off UpdateElection until this ballot commits,
		// so the window checked here is the one the vote is stored under.
		var start, end time.Time
		err := tx.QueryRowContext(ctx, `
			SELECT start_time, end_time FROM elections WHERE id = $1`+e.lockClause("FOR SHARE"),
			electionID).Scan(&start, &end)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("election", electionID)
		}
		if err != nil {
			return e.storeErr("lookup election", err)
		}

		now := e.Now()
		if now.Before(start) {
			return fmt.Errorf("%w: voting opens at %s", ErrTimeWindow, start.UTC().Format(time.RFC3339))
		}
		if now.After(end) {
			return fmt.Errorf("%w: voting closed at %s", ErrTimeWindow, end.UTC().Format(time.RFC3339))
		}

		voter, err := e.getMember(ctx, tx, memberID)
		if err != nil {
			return err
		}
		if voter.Blocked {
			return invalid("member %s is blocked and cannot vote", memberID)
		}

		var candidateName string
		var status models.CandidateStatus
		var candidateBlocked bool
		if _, err := uuid.Parse(candidateID); err != nil {
			return invalid("candidate %q does not belong to election %s", candidateID, electionID)
		}
		err = tx.QueryRowContext(ctx, `
			SELECT m.name, c.status, m.blocked
			FROM candidates c
			JOIN members m ON m.id = c.member_id
			WHERE c.id = $1 AND c.election_id = $2
		`, candidateID, electionID).Scan(&candidateName, &status, &candidateBlocked)
		if errors.Is(err, sql.ErrNoRows) {
			return invalid("candidate %s does not belong to election %s", candidateID, electionID)
		}
		if err != nil {
			return e.storeErr("lookup candidate", err)
		}
		if status != models.StatusApproved {
			return invalid("candidate %s is %s and cannot receive votes", candidateID, status)
		}
		if candidateBlocked {
			return invalid("candidate %s is blocked and cannot receive votes", candidateID)
		}

		voted, err := e.hasVoted(ctx, tx, memberID, electionID)
		if err != nil {
			return err
		}
		if voted {
			return conflict("member %s has already voted in election %s", memberID, electionID)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO votes (member_id, election_id, candidate_id, voted_at)
			VALUES ($1, $2, $3, $4)
		`, memberID, electionID, candidateID, now)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return conflict("member %s has already voted in election %s", memberID, electionID)
			}
			return e.storeErr("insert vote", err)
		}

		receipt = models.VoteReceipt{
			ElectionID:    electionID,
			CandidateName: candidateName,
			VotedAt:       now,
		}
		return nil
	})
	if err != nil {
		return models.VoteReceipt{}, err
	}

	e.logger.Info("vote cast", "election_id", electionID, "member_id", memberID)
	return receipt, nil
}

// HasVoted reports whether the member already has a ballot in the election.
func (e *Engine) HasVoted(ctx context.Context, memberID, electionID string) (bool, error) {
	return e.hasVoted(ctx, e.db, memberID, electionID)
}

func (e *Engine) hasVoted(ctx context.Context, q queryer, memberID, electionID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE member_id = $1 AND election_id = $2
	`, memberID, electionID).Scan(&n)
	if err != nil {
		return false, e.storeErr("check vote", err)
	}
	return n > 0, nil
}
