// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/models"
)

// GetResults tallies every election, newest first. All tallies are read in
// one transaction; on PostgreSQL it is a read-only REPEATABLE READ
// transaction so every election is counted from the same snapshot.
func (e *Engine) GetResults(ctx context.Context) ([]models.ElectionResult, error) {
	var results []models.ElectionResult
	err := e.inTxOpts(ctx, "results", e.snapshotOptions(), func(tx *sql.Tx) error {
		var err error
		results, err = e.resultHeaders(ctx, tx)
		if err != nil {
			return err
		}

		for i := range results {
			if err := e.tally(ctx, tx, &results[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// resultHeaders lists the elections. The rows are closed before returning,
// which the tallies on the same connection depend on.
func (e *Engine) resultHeaders(ctx context.Context, q queryer) ([]models.ElectionResult, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, created_at
		FROM elections
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, e.storeErr("list results", err)
	}
	defer rows.Close()

	results := []models.ElectionResult{}
	for rows.Next() {
		r, err := scanResultHeader(rows)
		if err != nil {
			return nil, e.storeErr("scan result", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeErr("list results", err)
	}
	return results, nil
}

// GetElectionResults tallies one election.
func (e *Engine) GetElectionResults(ctx context.Context, electionID string) (models.ElectionResult, error) {
	if _, err := uuid.Parse(electionID); err != nil {
		return models.ElectionResult{}, notFound("election", electionID)
	}
	row := e.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, created_at
		FROM elections
		WHERE id = $1
	`, electionID)
	r, err := scanResultHeader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ElectionResult{}, notFound("election", electionID)
	}
	if err != nil {
		return models.ElectionResult{}, e.storeErr("get result", err)
	}

	if err := e.tally(ctx, e.db, &r); err != nil {
		return models.ElectionResult{}, err
	}
	return r, nil
}

func scanResultHeader(row rowScanner) (models.ElectionResult, error) {
	var r models.ElectionResult
	var description sql.NullString
	err := row.Scan(&r.ID, &r.Title, &description, &r.StartTime, &r.EndTime, &r.CreatedAt)
	r.Description = description.String
	r.StartTime, r.EndTime, r.CreatedAt = r.StartTime.UTC(), r.EndTime.UTC(), r.CreatedAt.UTC()
	r.Candidates = []models.CandidateTally{}
	return r, err
}

// tally fills the ranked candidate list. Rejected candidacies are left out;
// ties on vote count go to the earlier application, then the lower ID.
func (e *Engine) tally(ctx context.Context, q queryer, r *models.ElectionResult) error {
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.status, m.id, m.name,
		       (SELECT COUNT(*) FROM votes v WHERE v.candidate_id = c.id) AS vote_count
		FROM candidates c
		JOIN members m ON m.id = c.member_id
		WHERE c.election_id = $1 AND c.status <> $2
		ORDER BY vote_count DESC, c.applied_at, c.id
	`, r.ID, string(models.StatusRejected))
	if err != nil {
		return e.storeErr("tally", err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var t models.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.Status, &t.Member.ID, &t.Member.Name, &t.VoteCount); err != nil {
			return e.storeErr("scan tally", err)
		}
		t.Rank = len(r.Candidates) + 1
		total += t.VoteCount
		r.Candidates = append(r.Candidates, t)
	}
	if err := rows.Err(); err != nil {
		return e.storeErr("tally", err)
	}
	r.TotalVotes = total
	return nil
}
