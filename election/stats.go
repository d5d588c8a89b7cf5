// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"time"

	"github.com/razeemarc/election-backend/models"
)

// DashboardStats returns the admin overview counters at the engine's now.
func (e *Engine) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	now := e.Now()
	var s models.DashboardStats
	err := e.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM elections),
			(SELECT COUNT(*) FROM members),
			(SELECT COUNT(*) FROM elections WHERE start_time <= $1 AND end_time >= $1),
			(SELECT COUNT(*) FROM candidates WHERE status = $2)
	`, now, string(models.StatusPending)).Scan(&s.TotalElections, &s.TotalMembers, &s.ActiveElections, &s.PendingRequests)
	if err != nil {
		return models.DashboardStats{}, e.storeErr("dashboard stats", err)
	}
	return s, nil
}

// MonthlyElectionCounts buckets the elections created in year by month.
// All twelve months are present, in calendar order.
func (e *Engine) MonthlyElectionCounts(ctx context.Context, year int) (models.MonthlyElectionCounts, error) {
	if year < 1970 || year > 9999 {
		return models.MonthlyElectionCounts{}, invalid("year %d is out of range", year)
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := e.db.QueryContext(ctx, `
		SELECT created_at FROM elections
		WHERE created_at >= $1 AND created_at < $2
	`, from, to)
	if err != nil {
		return models.MonthlyElectionCounts{}, e.storeErr("monthly elections", err)
	}
	defer rows.Close()

	var counts [12]int
	for rows.Next() {
		var created time.Time
		if err := rows.Scan(&created); err != nil {
			return models.MonthlyElectionCounts{}, e.storeErr("scan created_at", err)
		}
		counts[created.UTC().Month()-1]++
	}
	if err := rows.Err(); err != nil {
		return models.MonthlyElectionCounts{}, e.storeErr("monthly elections", err)
	}

	out := models.MonthlyElectionCounts{Year: year, Months: make([]models.MonthCount, 12)}
	for i := range counts {
		m := time.Month(i + 1)
		out.Months[i] = models.MonthCount{Month: int(m), Name: m.String()[:3], Count: counts[i]}
	}
	return out, nil
}
