package models

import "time"

// Member roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// CandidateStatus is the approval state of a candidacy.
type CandidateStatus string

// Candidacy status constants
const (
	StatusPending  CandidateStatus = "PENDING"
	StatusApproved CandidateStatus = "APPROVED"
	StatusRejected CandidateStatus = "REJECTED"
)

// Candidacy audit actions
const (
	ActionApplied   = "APPLIED"
	ActionReapplied = "REAPPLIED"
	ActionNominated = "NOMINATED"
	ActionApproved  = "APPROVED"
	ActionRejected  = "REJECTED"
	ActionRemoved   = "REMOVED"
)

// Request types

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MemberIDs   []string  `json:"member_ids"`
}

// Nil fields are left unchanged.
type UpdateElectionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

type ApplyRequest struct {
	ElectionID           string     `json:"election_id"`
	ProposedElectionDate *time.Time `json:"proposed_election_date"`
}

type DecisionRequest struct {
	Status string `json:"status"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type AuthResponse struct {
	Member Member `json:"member"`
	Token  string `json:"token"`
}

type DeleteElectionResponse struct {
	ElectionID        string `json:"election_id"`
	VotesDeleted      int64  `json:"votes_deleted"`
	CandidatesDeleted int64  `json:"candidates_deleted"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Domain types

type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	Blocked      bool      `json:"blocked"`
	CreatedAt    time.Time `json:"created_at"`
}

// MemberCandidacy is a candidacy as seen from the member listing.
// IsBlocked mirrors the member's own flag.
type MemberCandidacy struct {
	CandidateID string          `json:"candidate_id"`
	ElectionID  string          `json:"election_id"`
	Status      CandidateStatus `json:"status"`
	IsBlocked   bool            `json:"is_blocked"`
}

type MemberWithCandidacies struct {
	Member
	Candidacies []MemberCandidacy `json:"candidacies"`
}

type MemberSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Election struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

type CandidateSummary struct {
	ID        string          `json:"id"`
	Member    MemberSummary   `json:"member"`
	Status    CandidateStatus `json:"status"`
	IsBlocked bool            `json:"is_blocked"`
	AppliedAt time.Time       `json:"applied_at"`
}

// ElectionDetail is an election with its creator and candidacies.
// OpensIn and ClosesIn are filled by the current/upcoming listings.
type ElectionDetail struct {
	Election
	Creator        MemberSummary      `json:"creator"`
	Candidates     []CandidateSummary `json:"candidates"`
	CandidateCount int                `json:"candidate_count"`
	VoteCount      int                `json:"vote_count"`
	OpensIn        string             `json:"opens_in,omitempty"`
	ClosesIn       string             `json:"closes_in,omitempty"`
}

type Candidate struct {
	ID                   string          `json:"id"`
	MemberID             string          `json:"member_id"`
	ElectionID           string          `json:"election_id"`
	ProposedElectionDate *time.Time      `json:"proposed_election_date,omitempty"`
	Status               CandidateStatus `json:"status"`
	AppliedAt            time.Time       `json:"applied_at"`
	DecidedAt            *time.Time      `json:"decided_at,omitempty"`
}

type PendingCandidacy struct {
	CandidateID          string     `json:"candidate_id"`
	MemberID             string     `json:"member_id"`
	MemberName           string     `json:"member_name"`
	MemberEmail          string     `json:"member_email"`
	IsBlocked            bool       `json:"is_blocked"`
	ElectionID           string     `json:"election_id"`
	ElectionTitle        string     `json:"election_title"`
	ElectionStartTime    time.Time  `json:"election_start_time"`
	ElectionEndTime      time.Time  `json:"election_end_time"`
	ProposedElectionDate *time.Time `json:"proposed_election_date,omitempty"`
	AppliedAt            time.Time  `json:"applied_at"`
}

type CandidacyEvent struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	ElectionID string    `json:"election_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Vote struct {
	MemberID    string    `json:"member_id"`
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	VotedAt     time.Time `json:"voted_at"`
}

type VoteReceipt struct {
	ElectionID    string    `json:"election_id"`
	CandidateName string    `json:"candidate_name"`
	VotedAt       time.Time `json:"voted_at"`
}

// Results types

type CandidateTally struct {
	CandidateID string          `json:"candidate_id"`
	Member      MemberSummary   `json:"member"`
	Status      CandidateStatus `json:"status"`
	VoteCount   int             `json:"vote_count"`
	Rank        int             `json:"rank"` // 1-indexed ranking
}

type ElectionResult struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	CreatedAt   time.Time        `json:"created_at"`
	TotalVotes  int              `json:"total_votes"`
	Candidates  []CandidateTally `json:"candidates"`
}

// Dashboard types

type DashboardStats struct {
	TotalElections  int `json:"total_elections"`
	TotalMembers    int `json:"total_members"`
	ActiveElections int `json:"active_elections"`
	PendingRequests int `json:"pending_requests"`
}

type MonthCount struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthlyElectionCounts struct {
	Year   int          `json:"year"`
	Months []MonthCount `json:"months"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
