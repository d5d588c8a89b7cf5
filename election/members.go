// Copyright (c) 2025 The election-backend authors.

package election

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/razeemarc/election-backend/db"
	"github.com/razeemarc/election-backend/models"
)

// NewMember is the input to RegisterMember and SeedAdmin. PasswordHash must
// already be hashed.
type NewMember struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

const memberColumns = `id, name, email, password_hash, role, blocked, created_at`

func scanMember(row rowScanner) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &m.Blocked, &m.CreatedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	return m, err
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateNewMember(in NewMember) (NewMember, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	if in.Name == "" {
		return in, invalid("name is required")
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return in, invalid("email %q is not a valid address", in.Email)
	}
	if in.PasswordHash == "" {
		return in, invalid("password is required")
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if in.Role != models.RoleUser && in.Role != models.RoleAdmin {
		return in, invalid("role must be %s or %s", models.RoleUser, models.RoleAdmin)
	}
	return in, nil
}

// RegisterMember creates a member. A taken email is a conflict.
func (e *Engine) RegisterMember(ctx context.Context, in NewMember) (models.Member, error) {
	in, err := validateNewMember(in)
	if err != nil {
		return models.Member{}, err
	}

	m := models.Member{
		ID:           newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		CreatedAt:    e.Now(),
	}

	_, err = e.db.ExecContext(ctx, `
		INSERT INTO members (id, name, email, password_hash, role, blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Name, m.Email, m.PasswordHash, m.Role, false, m.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Member{}, conflict("email %s is already registered", m.Email)
		}
		return models.Member{}, e.storeErr("register member", err)
	}

	e.logger.Info("member registered", "member_id", m.ID, "role", m.Role)
	return m, nil
}

// SeedAdmin makes sure an admin with the given email exists. It returns the
// existing member untouched when the email is already registered, and
// reports whether a new row was created.
func (e *Engine) SeedAdmin(ctx context.Context, in NewMember) (models.Member, bool, error) {
	in.Role = models.RoleAdmin
	existing, err := e.FindMemberByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Member{}, false, err
	}

	m, err := e.RegisterMember(ctx, in)
	if errors.Is(err, ErrConflict) {
		// Lost a race with another seeder
		existing, err = e.FindMemberByEmail(ctx, in.Email)
		return existing, false, err
	}
	if err != nil {
		return models.Member{}, false, err
	}
	return m, true, nil
}

func (e *Engine) getMember(ctx context.Context, q queryer, id string) (models.Member, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Member{}, notFound("member", id)
	}
	row := q.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, notFound("member", id)
	}
	if err != nil {
		return models.Member{}, e.storeErr("get member", err)
	}
	return m, nil
}

func (e *Engine) FindMemberByID(ctx context.Context, id string) (models.Member, error) {
	return e.getMember(ctx, e.db, id)
}

// FindMemberByEmail looks a member up by normalized email.
func (e *Engine) FindMemberByEmail(ctx context.Context, email string) (models.Member, error) {
	email = NormalizeEmail(email)
	row := e.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, notFound("member with email", email)
	}
	if err != nil {
		return models.Member{}, e.storeErr("find member by email", err)
	}
	return m, nil
}

// FindMemberByName returns the earliest registered member with exactly this
// name. Names are not unique; prefer IDs.
func (e *Engine) FindMemberByName(ctx context.Context, name string) (models.Member, error) {
	return e.findMemberByName(ctx, e.db, name)
}

func (e *Engine) findMemberByName(ctx context.Context, q queryer, name string) (models.Member, error) {
	name = strings.TrimSpace(name)
	row := q.QueryRowContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE name = $1
		ORDER BY created_at, id
		LIMIT 1
	`, name)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, notFound("member named", name)
	}
	if err != nil {
		return models.Member{}, e.storeErr("find member by name", err)
	}
	return m, nil
}

// ListMembers returns every member with all of their candidacies, oldest
// member first.
func (e *Engine) ListMembers(ctx context.Context) ([]models.MemberWithCandidacies, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, e.storeErr("list members", err)
	}
	defer rows.Close()

	var members []models.MemberWithCandidacies
	index := make(map[string]int)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, e.storeErr("scan member", err)
		}
		index[m.ID] = len(members)
		members = append(members, models.MemberWithCandidacies{
			Member:      m,
			Candidacies: []models.MemberCandidacy{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeErr("list members", err)
	}
	if len(members) == 0 {
		return []models.MemberWithCandidacies{}, nil
	}

	crows, err := e.db.QueryContext(ctx, `
		SELECT id, member_id, election_id, status
		FROM candidates
		ORDER BY applied_at, id
	`)
	if err != nil {
		return nil, e.storeErr("list member candidacies", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c models.MemberCandidacy
		var memberID string
		if err := crows.Scan(&c.CandidateID, &memberID, &c.ElectionID, &c.Status); err != nil {
			return nil, e.storeErr("scan member candidacy", err)
		}
		i, ok := index[memberID]
		if !ok {
			continue
		}
		c.IsBlocked = members[i].Blocked
		members[i].Candidacies = append(members[i].Candidacies, c)
	}
	if err := crows.Err(); err != nil {
		return nil, e.storeErr("list member candidacies", err)
	}

	return members, nil
}
