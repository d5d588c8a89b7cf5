// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/models"
)

// MaxInitialCandidates caps the candidates that can be named at creation.
const MaxInitialCandidates = 5

// NewElection is the input to CreateElection.
type NewElection struct {
	CreatorID    string
	Title        string
	Description  string
	StartTime    time.Time
	EndTime      time.Time
	CandidateIDs []string
}

// ElectionUpdate holds the fields to change; nil fields are kept.
type ElectionUpdate struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return invalid("start and end time are required")
	}
	if !end.After(start) {
		return invalid("end time must be after start time")
	}
	return nil
}

// CreateElection creates an election and, atomically with it, an APPROVED
// candidacy for each named member.
func (e *Engine) CreateElection(ctx context.Context, in NewElection) (models.ElectionDetail, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.ElectionDetail{}, invalid("title is required")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return models.ElectionDetail{}, invalid("start and end time are required")
	}
	start, end := normalize(in.StartTime), normalize(in.EndTime)
	if err := validateWindow(start, end); err != nil {
		return models.ElectionDetail{}, err
	}
	if len(in.CandidateIDs) > MaxInitialCandidates {
		return models.ElectionDetail{}, invalid("at most %d candidates can be named at creation", MaxInitialCandidates)
	}
	seen := make(map[string]bool, len(in.CandidateIDs))
	for _, id := range in.CandidateIDs {
		if _, err := uuid.Parse(id); err != nil {
			return models.ElectionDetail{}, invalid("candidate member id %q is not a valid id", id)
		}
		if seen[id] {
			return models.ElectionDetail{}, invalid("candidate member %s is listed twice", id)
		}
		seen[id] = true
	}

	id := newID()
	now := e.Now()

	err := e.inTx(ctx, "create election", func(tx *sql.Tx) error {
		if _, err := e.getMember(ctx, tx, in.CreatorID); err != nil {
			return err
		}
		for _, memberID := range in.CandidateIDs {
			if _, err := e.getMember(ctx, tx, memberID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return invalid("candidate member %s does not exist", memberID)
				}
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO elections (id, title, description, created_by, start_time, end_time, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, title, in.Description, in.CreatorID, start, end, now)
		if err != nil {
			return e.storeErr("insert election", err)
		}

		for _, memberID := range in.CandidateIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO candidates (id, member_id, election_id, status, applied_at, decided_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, newID(), memberID, id, string(models.StatusApproved), now, now)
			if err != nil {
				return e.storeErr("insert nominated candidate", err)
			}
			if err := e.recordEvent(ctx, tx, memberID, id, models.ActionNominated, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.ElectionDetail{}, err
	}

	e.logger.Info("election created",
		"election_id", id,
		"created_by", in.CreatorID,
		"candidates", len(in.CandidateIDs),
	)
	return e.GetElection(ctx, id)
}

// GetElection returns one election with its creator and non-rejected
// candidates.
func (e *Engine) GetElection(ctx context.Context, id string) (models.ElectionDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.ElectionDetail{}, notFound("election", id)
	}
	details, err := e.loadDetails(ctx, e.db, `WHERE e.id = $1`, id)
	if err != nil {
		return models.ElectionDetail{}, err
	}
	if len(details) == 0 {
		return models.ElectionDetail{}, notFound("election", id)
	}
	return details[0], nil
}

// ListElections returns every election, newest first.
func (e *Engine) ListElections(ctx context.Context) ([]models.ElectionDetail, error) {
	return e.loadDetails(ctx, e.db, `ORDER BY e.created_at DESC, e.id`)
}

// ListCurrent returns elections whose window contains now.
func (e *Engine) ListCurrent(ctx context.Context) ([]models.ElectionDetail, error) {
	return e.ListCurrentAt(ctx, e.Now())
}

// ListCurrentAt returns elections with start <= now <= end, ordered by start
// time. Both boundaries are inclusive.
func (e *Engine) ListCurrentAt(ctx context.Context, now time.Time) ([]models.ElectionDetail, error) {
	now = normalize(now)
	details, err := e.loadDetails(ctx, e.db, `
		WHERE e.start_time <= $1 AND e.end_time >= $1
		ORDER BY e.start_time, e.id
	`, now)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].ClosesIn = humanize.RelTime(details[i].EndTime, now, "ago", "from now")
	}
	return details, nil
}

// ListUpcoming returns elections that have not opened yet.
func (e *Engine) ListUpcoming(ctx context.Context) ([]models.ElectionDetail, error) {
	return e.ListUpcomingAt(ctx, e.Now())
}

// ListUpcomingAt returns elections with start > now, soonest first.
func (e *Engine) ListUpcomingAt(ctx context.Context, now time.Time) ([]models.ElectionDetail, error) {
	now = normalize(now)
	details, err := e.loadDetails(ctx, e.db, `
		WHERE e.start_time > $1
		ORDER BY e.start_time, e.id
	`, now)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].OpensIn = humanize.RelTime(details[i].StartTime, now, "ago", "from now")
	}
	return details, nil
}

// UpdateElection changes an election's fields. Once any vote has been cast
// the election is frozen.
func (e *Engine) UpdateElection(ctx context.Context, id string, upd ElectionUpdate) (models.ElectionDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.ElectionDetail{}, notFound("election", id)
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return models.ElectionDetail{}, invalid("title cannot be empty")
	}

	err := e.inTx(ctx, "update election", func(tx *sql.Tx) error {
		// Ballots hold a share lock on the election row until they commit.
		// Taking the row lock first means the vote count below includes any
		// ballot that got there before us, and later ballots see the new window.
		var (
			title       string
			description sql.NullString
			start, end  time.Time
		)
		err := tx.QueryRowContext(ctx, `
			SELECT title, description, start_time, end_time FROM elections WHERE id = $1`+e.lockClause("FOR UPDATE"),
			id).Scan(&title, &description, &start, &end)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("election", id)
		}
		if err != nil {
			return e.storeErr("lock election", err)
		}

		var votes int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM votes WHERE election_id = $1
		`, id).Scan(&votes); err != nil {
			return e.storeErr("count votes", err)
		}
		if votes > 0 {
			return conflict("election %s already has votes and can no longer be edited", id)
		}

		if upd.Title != nil {
			title = strings.TrimSpace(*upd.Title)
		}
		if upd.Description != nil {
			description = sql.NullString{String: *upd.Description, Valid: true}
		}
		start, end = normalize(start), normalize(end)
		if upd.StartTime != nil {
			start = normalize(*upd.StartTime)
		}
		if upd.EndTime != nil {
			end = normalize(*upd.EndTime)
		}
		if err := validateWindow(start, end); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE elections
			SET title = $2, description = $3, start_time = $4, end_time = $5
			WHERE id = $1
		`, id, title, description, start, end); err != nil {
			return e.storeErr("update election", err)
		}
		return nil
	})
	if err != nil {
		return models.ElectionDetail{}, err
	}

	e.logger.Info("election updated", "election_id", id)
	return e.GetElection(ctx, id)
}

// DeleteElection removes an election together with its votes, candidacies
// and candidacy history.
func (e *Engine) DeleteElection(ctx context.Context, id string) (models.DeleteElectionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.DeleteElectionResponse{}, notFound("election", id)
	}
	out := models.DeleteElectionResponse{ElectionID: id}

	err := e.inTx(ctx, "delete election", func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM elections WHERE id = $1`, id).Scan(&exists)
		if err != nil {
			return e.storeErr("lookup election", err)
		}
		if exists == 0 {
			return notFound("election", id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE election_id = $1`, id)
		if err != nil {
			return e.storeErr("delete votes", err)
		}
		if out.VotesDeleted, err = res.RowsAffected(); err != nil {
			return e.storeErr("delete votes", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM candidacy_events WHERE election_id = $1`, id); err != nil {
			return e.storeErr("delete candidacy events", err)
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM candidates WHERE election_id = $1`, id)
		if err != nil {
			return e.storeErr("delete candidates", err)
		}
		if out.CandidatesDeleted, err = res.RowsAffected(); err != nil {
			return e.storeErr("delete candidates", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id); err != nil {
			return e.storeErr("delete election", err)
		}
		return nil
	})
	if err != nil {
		return models.DeleteElectionResponse{}, err
	}

	e.logger.Info("election deleted",
		"election_id", id,
		"votes_deleted", out.VotesDeleted,
		"candidates_deleted", out.CandidatesDeleted,
	)
	return out, nil
}

// loadDetails runs the election query with the given tail (WHERE and/or
// ORDER BY) and attaches creators, counts and candidates.
func (e *Engine) loadDetails(ctx context.Context, q queryer, tail string, args ...any) ([]models.ElectionDetail, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT e.id, e.title, e.description, e.created_by, e.start_time, e.end_time, e.created_at,
		       m.name, m.email,
		       (SELECT COUNT(*) FROM votes v WHERE v.election_id = e.id) AS vote_count
		FROM elections e
		JOIN members m ON m.id = e.created_by
	`+tail, args...)
	if err != nil {
		return nil, e.storeErr("load elections", err)
	}
	defer rows.Close()

	details := []models.ElectionDetail{}
	for rows.Next() {
		var d models.ElectionDetail
		var description sql.NullString
		err := rows.Scan(&d.ID, &d.Title, &description, &d.CreatedBy, &d.StartTime, &d.EndTime, &d.CreatedAt,
			&d.Creator.Name, &d.Creator.Email, &d.VoteCount)
		if err != nil {
			return nil, e.storeErr("scan election", err)
		}
		d.Description = description.String
		d.StartTime, d.EndTime, d.CreatedAt = d.StartTime.UTC(), d.EndTime.UTC(), d.CreatedAt.UTC()
		d.Creator.ID = d.CreatedBy
		d.Candidates = []models.CandidateSummary{}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeErr("load elections", err)
	}
	if len(details) == 0 {
		return details, nil
	}

	byElection, err := e.loadCandidateSummaries(ctx, q, details)
	if err != nil {
		return nil, err
	}
	for i := range details {
		if cs, ok := byElection[details[i].ID]; ok {
			details[i].Candidates = cs
		}
		details[i].CandidateCount = len(details[i].Candidates)
	}
	return details, nil
}

func (e *Engine) loadCandidateSummaries(ctx context.Context, q queryer, details []models.ElectionDetail) (map[string][]models.CandidateSummary, error) {
	placeholders := make([]string, len(details))
	args := make([]any, 0, len(details)+1)
	args = append(args, string(models.StatusRejected))
	for i, d := range details {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, d.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.election_id, c.status, c.applied_at, m.id, m.name, m.email, m.blocked
		FROM candidates c
		JOIN members m ON m.id = c.member_id
		WHERE c.status <> $1 AND c.election_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY c.applied_at, c.id
	`, args...)
	if err != nil {
		return nil, e.storeErr("load candidates", err)
	}
	defer rows.Close()

	out := make(map[string][]models.CandidateSummary)
	for rows.Next() {
		var c models.CandidateSummary
		var electionID string
		err := rows.Scan(&c.ID, &electionID, &c.Status, &c.AppliedAt,
			&c.Member.ID, &c.Member.Name, &c.Member.Email, &c.IsBlocked)
		if err != nil {
			return nil, e.storeErr("scan candidate", err)
		}
		c.AppliedAt = c.AppliedAt.UTC()
		out[electionID] = append(out[electionID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeErr("load candidates", err)
	}
	return out, nil
}
