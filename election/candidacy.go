// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/db"
	"github.com/razeemarc/election-backend/models"
)

const candidateColumns = `id, member_id, election_id, proposed_election_date, status, applied_at, decided_at`

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	var proposed, decided sql.NullTime
	err := row.Scan(&c.ID, &c.MemberID, &c.ElectionID, &proposed, &c.Status, &c.AppliedAt, &decided)
	c.AppliedAt = c.AppliedAt.UTC()
	c.ProposedElectionDate = timePtr(proposed)
	c.DecidedAt = timePtr(decided)
	return c, err
}

func (e *Engine) electionExists(ctx context.Context, q queryer, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound("election", id)
	}
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM elections WHERE id = $1`, id).Scan(&n); err != nil {
		return e.storeErr("lookup election", err)
	}
	if n == 0 {
		return notFound("election", id)
	}
	return nil
}

// findCandidacy returns sql.ErrNoRows unwrapped when the pair has no row.
func (e *Engine) findCandidacy(ctx context.Context, q queryer, memberID, electionID string) (models.Candidate, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+candidateColumns+` FROM candidates
		WHERE member_id = $1 AND election_id = $2
	`, memberID, electionID)
	return scanCandidate(row)
}

// recordEvent appends to the candidacy audit trail. Event IDs are
// time-ordered so history sorts stably within one second.
func (e *Engine) recordEvent(ctx context.Context, q queryer, memberID, electionID, action string, at time.Time) error {
	id, err := uuid.NewV7()
	if err != nil {
		return e.storeErr("event id", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO candidacy_events (id, member_id, election_id, action, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id.String(), memberID, electionID, action, at)
	if err != nil {
		return e.storeErr("record candidacy event", err)
	}
	return nil
}

// Apply files a PENDING candidacy for a member. A member whose previous
// candidacy for the same election was rejected may apply again.
func (e *Engine) Apply(ctx context.Context, memberID, electionID string, proposed *time.Time) (models.Candidate, error) {
	var out models.Candidate
	err := e.inTx(ctx, "apply", func(tx *sql.Tx) error {
		if err := e.electionExists(ctx, tx, electionID); err != nil {
			return err
		}
		member, err := e.getMember(ctx, tx, memberID)
		if err != nil {
			return err
		}
		if member.Blocked {
			return invalid("member %s is blocked and cannot apply", memberID)
		}

		now := e.Now()
		existing, err := e.findCandidacy(ctx, tx, memberID, electionID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			out = models.Candidate{
				ID:                   newID(),
				MemberID:             memberID,
				ElectionID:           electionID,
				ProposedElectionDate: timePtr(nullTime(proposed)),
				Status:               models.StatusPending,
				AppliedAt:            now,
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO candidates (id, member_id, election_id, proposed_election_date, status, applied_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, out.ID, memberID, electionID, nullTime(proposed), string(out.Status), now)
			if err != nil {
				if db.IsUniqueViolation(err) {
					return conflict("member %s has already applied to election %s", memberID, electionID)
				}
				return e.storeErr("insert candidate", err)
			}
			return e.recordEvent(ctx, tx, memberID, electionID, models.ActionApplied, now)

		case err != nil:
			return e.storeErr("lookup candidacy", err)

		case existing.Status == models.StatusRejected:
			_, err := tx.ExecContext(ctx, `
				UPDATE candidates
				SET status = $2, proposed_election_date = $3, applied_at = $4, decided_at = NULL
				WHERE id = $1
			`, existing.ID, string(models.StatusPending), nullTime(proposed), now)
			if err != nil {
				return e.storeErr("reopen candidate", err)
			}
			out = existing
			out.Status = models.StatusPending
			out.ProposedElectionDate = timePtr(nullTime(proposed))
			out.AppliedAt = now
			out.DecidedAt = nil
			return e.recordEvent(ctx, tx, memberID, electionID, models.ActionReapplied, now)

		default:
			return conflict("member %s has already applied to election %s", memberID, electionID)
		}
	})
	if err != nil {
		return models.Candidate{}, err
	}

	e.logger.Info("candidacy filed", "member_id", memberID, "election_id", electionID, "candidate_id", out.ID)
	return out, nil
}

// ApplyByName resolves the member by display name and applies. Names are not
// unique, so the earliest registered match wins.
func (e *Engine) ApplyByName(ctx context.Context, name, electionID string, proposed *time.Time) (models.Candidate, error) {
	member, err := e.FindMemberByName(ctx, name)
	if err != nil {
		return models.Candidate{}, err
	}
	return e.Apply(ctx, member.ID, electionID, proposed)
}

// ListPending returns all PENDING candidacies, newest application first.
func (e *Engine) ListPending(ctx context.Context) ([]models.PendingCandidacy, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT c.id, m.id, m.name, m.email, m.blocked,
		       el.id, el.title, el.start_time, el.end_time,
		       c.proposed_election_date, c.applied_at
		FROM candidates c
		JOIN members m ON m.id = c.member_id
		JOIN elections el ON el.id = c.election_id
		WHERE c.status = $1
		ORDER BY c.applied_at DESC, c.id
	`, string(models.StatusPending))
	if err != nil {
		return nil, e.storeErr("list pending", err)
	}
	defer rows.Close()

	pending := []models.PendingCandidacy{}
	for rows.Next() {
		var p models.PendingCandidacy
		var proposed sql.NullTime
		err := rows.Scan(&p.CandidateID, &p.MemberID, &p.MemberName, &p.MemberEmail, &p.IsBlocked,
			&p.ElectionID, &p.ElectionTitle, &p.ElectionStartTime, &p.ElectionEndTime,
			&proposed, &p.AppliedAt)
		if err != nil {
			return nil, e.storeErr("scan pending", err)
		}
		p.ProposedElectionDate = timePtr(proposed)
		p.ElectionStartTime, p.ElectionEndTime = p.ElectionStartTime.UTC(), p.ElectionEndTime.UTC()
		p.AppliedAt = p.AppliedAt.UTC()
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeErr("list pending", err)
	}
	return pending, nil
}

// Decide approves or rejects a PENDING candidacy. Under RejectDelete a
// rejected row is removed; the returned Candidate still describes it.
func (e *Engine) Decide(ctx context.Context, memberID, electionID string, status models.CandidateStatus) (models.Candidate, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return models.Candidate{}, invalid("status must be %s or %s", models.StatusApproved, models.StatusRejected)
	}

	var out models.Candidate
	err := e.inTx(ctx, "decide", func(tx *sql.Tx) error {
		c, err := e.findCandidacy(ctx, tx, memberID, electionID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("candidacy of member "+memberID+" in election", electionID)
		}
		if err != nil {
			return e.storeErr("lookup candidacy", err)
		}
		if c.Status != models.StatusPending {
			return conflict("candidacy is already %s", c.Status)
		}

		now := e.Now()
		action := models.ActionApproved
		if status == models.StatusRejected && e.rejectPolicy == RejectDelete {
			action = models.ActionRemoved
			if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, c.ID); err != nil {
				return e.storeErr("delete candidate", err)
			}
		} else {
			if status == models.StatusRejected {
				action = models.ActionRejected
			}
			_, err := tx.ExecContext(ctx, `
				UPDATE candidates SET status = $2, decided_at = $3 WHERE id = $1
			`, c.ID, string(status), now)
			if err != nil {
				return e.storeErr("update candidate status", err)
			}
		}

		c.Status = status
		c.DecidedAt = &now
		out = c
		return e.recordEvent(ctx, tx, memberID, electionID, action, now)
	})
	if err != nil {
		return models.Candidate{}, err
	}

	e.logger.Info("candidacy decided",
		"member_id", memberID,
		"election_id", electionID,
		"status", status,
		"policy", e.rejectPolicy,
	)
	return out, nil
}

// SetBlocked sets or clears a member's blocked flag. Blocked members keep
// their candidacies but cannot apply, vote, or receive votes.
func (e *Engine) SetBlocked(ctx context.Context, memberID string, blocked bool) (models.Member, error) {
	if _, err := uuid.Parse(memberID); err != nil {
		return models.Member{}, notFound("member", memberID)
	}
	res, err := e.db.ExecContext(ctx, `UPDATE members SET blocked = $2 WHERE id = $1`, memberID, blocked)
	if err != nil {
		return models.Member{}, e.storeErr("set blocked", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Member{}, e.storeErr("set blocked", err)
	}
	if n == 0 {
		return models.Member{}, notFound("member", memberID)
	}

	e.logger.Info("member block flag changed", "member_id", memberID, "blocked", blocked)
	return e.FindMemberByID(ctx, memberID)
}

// CandidacyHistory returns the audit trail for one member and election,
// oldest first. An unknown pair yields an empty slice.
func (e *Engine) CandidacyHistory(ctx context.Context, memberID, electionID string) ([]models.CandidacyEvent, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT id, member_id, election_id, action, occurred_at
		FROM candidacy_events
		WHERE member_id = $1 AND election_id = $2
		ORDER BY occurred_at, id
	`, memberID, electionID)
	if err != nil {
		return nil, e.storeErr("candidacy history", err)
	}
	defer rows.Close()

	events := []models.CandidacyEvent{}
	for rows.Next() {
		var ev models.CandidacyEvent
		if err := rows.Scan(&ev.ID, &ev.MemberID, &ev.ElectionID, &ev.Action, &ev.OccurredAt); err != nil {
			return nil, e.storeErr("scan candidacy event", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeErr("candidacy history", err)
	}
	return events, nil
}
