package ports

import (
	"context"
	"errors"

	"boardroom/internal/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePlay is returned by CommitLockIn when a round play already
	// exists for the (session, participant, round) key. The store must
	// guarantee this under concurrent commits.
	ErrDuplicatePlay = errors.New("round play already recorded")
)

// LockInCommit groups the writes of one lock-in. The store applies the whole
// commit atomically: a reader never observes the round play without its score
// increment, or either without the consumed MVP selection.
type LockInCommit struct {
	// Play is inserted conditionally; an existing play for the same key
	// fails the whole commit with ErrDuplicatePlay.
	Play *domain.RoundPlay

	// Participant carries the incremented total score and, on a golden play,
	// the cleared golden flag.
	Participant *domain.Participant

	// MVP is the consumed selection with UsedInRound set, nil when the play
	// spent no selection.
	MVP *domain.MVPSelection

	// Session is the advanced session state when this play completed the
	// round, nil otherwise.
	Session *domain.GameSession
}

// GameStore is the narrow persistence boundary the game core depends on.
// Record invariants are enforced by the core before any write; the store owns
// only the uniqueness constraint on round plays.
type GameStore interface {
	CreateSession(ctx context.Context, session *domain.GameSession) error
	GetSession(ctx context.Context, sessionID string) (*domain.GameSession, error)
	UpdateSession(ctx context.Context, session *domain.GameSession) error

	CreateParticipants(ctx context.Context, participants []*domain.Participant) error
	GetParticipant(ctx context.Context, sessionID, participantID string) (*domain.Participant, error)
	// ListParticipants returns the session's participants ordered by total
	// score descending.
	ListParticipants(ctx context.Context, sessionID string) ([]*domain.Participant, error)

	CommitLockIn(ctx context.Context, commit LockInCommit) error
	ListRoundPlays(ctx context.Context, sessionID string, round int) ([]*domain.RoundPlay, error)

	UpsertMVPSelection(ctx context.Context, selection *domain.MVPSelection) error
	ListMVPSelections(ctx context.Context, sessionID, participantID string) ([]*domain.MVPSelection, error)
}
