package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"boardroom/internal/domain"
	"boardroom/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const collectionSessions = "game_sessions"

func participantsCollection(sessionID string) string {
	return "participants." + sessionID
}

func roundPlaysCollection(sessionID string, round int) string {
	return fmt.Sprintf("round_plays.%s.%d", sessionID, round)
}

func mvpCollection(sessionID, participantID string) string {
	return fmt.Sprintf("mvp_selections.%s.%s", sessionID, participantID)
}

// storageEngine is the subset of runtime.NakamaModule the store adapter
// needs; tests substitute an in-memory implementation.
type storageEngine interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
}

var _ ports.GameStore = (*StorageStore)(nil)

// StorageStore implements ports.GameStore on Nakama's storage engine. Round
// plays are inserted with a conditional write on the (session, participant,
// round) key, which is the uniqueness constraint the round invariant leans
// on; a whole lock-in commit goes to the engine as one write batch, so
// readers see the play and its score increment together or not at all.
type StorageStore struct {
	nk storageEngine
}

// NewStorageStore creates a store adapter over the Nakama storage engine.
func NewStorageStore(nk storageEngine) *StorageStore {
	return &StorageStore{nk: nk}
}

func (s *StorageStore) CreateSession(ctx context.Context, session *domain.GameSession) error {
	write, err := systemWrite(collectionSessions, session.ID, session, "*")
	if err != nil {
		return err
	}
	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{write})
	return err
}

func (s *StorageStore) GetSession(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	var session domain.GameSession
	if err := s.readOne(ctx, collectionSessions, sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *StorageStore) UpdateSession(ctx context.Context, session *domain.GameSession) error {
	write, err := systemWrite(collectionSessions, session.ID, session, "")
	if err != nil {
		return err
	}
	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{write})
	return err
}

func (s *StorageStore) CreateParticipants(ctx context.Context, participants []*domain.Participant) error {
	writes := make([]*runtime.StorageWrite, 0, len(participants))
	for _, p := range participants {
		write, err := systemWrite(participantsCollection(p.SessionID), p.ID, p, "")
		if err != nil {
			return err
		}
		writes = append(writes, write)
	}
	_, err := s.nk.StorageWrite(ctx, writes)
	return err
}

func (s *StorageStore) GetParticipant(ctx context.Context, sessionID, participantID string) (*domain.Participant, error) {
	var participant domain.Participant
	if err := s.readOne(ctx, participantsCollection(sessionID), participantID, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *StorageStore) ListParticipants(ctx context.Context, sessionID string) ([]*domain.Participant, error) {
	objects, err := s.listAll(ctx, participantsCollection(sessionID))
	if err != nil {
		return nil, err
	}
	participants := make([]*domain.Participant, 0, len(objects))
	for _, obj := range objects {
		var p domain.Participant
		if err := json.Unmarshal([]byte(obj.GetValue()), &p); err != nil {
			return nil, fmt.Errorf("corrupt participant record %s: %w", obj.GetKey(), err)
		}
		participants = append(participants, &p)
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].TotalScore > participants[j].TotalScore
	})
	return participants, nil
}

// CommitLockIn writes the round play, the updated participant, the consumed
// MVP selection and the advanced session in a single batch. The play write
// carries the if-absent version, so a raced duplicate fails the whole batch
// and nothing is committed.
func (s *StorageStore) CommitLockIn(ctx context.Context, commit ports.LockInCommit) error {
	playCollection := roundPlaysCollection(commit.Play.SessionID, commit.Play.Round)

	playWrite, err := systemWrite(playCollection, commit.Play.ParticipantID, commit.Play, "*")
	if err != nil {
		return err
	}
	participantWrite, err := systemWrite(participantsCollection(commit.Participant.SessionID), commit.Participant.ID, commit.Participant, "")
	if err != nil {
		return err
	}
	writes := []*runtime.StorageWrite{playWrite, participantWrite}

	if commit.MVP != nil {
		mvpWrite, err := systemWrite(mvpCollection(commit.MVP.SessionID, commit.MVP.ParticipantID), strconv.Itoa(commit.MVP.SelectedAfterRound), commit.MVP, "")
		if err != nil {
			return err
		}
		writes = append(writes, mvpWrite)
	}
	if commit.Session != nil {
		sessionWrite, err := systemWrite(collectionSessions, commit.Session.ID, commit.Session, "")
		if err != nil {
			return err
		}
		writes = append(writes, sessionWrite)
	}

	if _, err := s.nk.StorageWrite(ctx, writes); err != nil {
		// The engine rejects the batch both for version conflicts and for
		// outages; re-reading the play key tells the two apart, and is the
		// same re-check a retrying caller must do.
		if existing, readErr := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
			Collection: playCollection,
			Key:        commit.Play.ParticipantID,
		}}); readErr == nil && len(existing) > 0 {
			return ports.ErrDuplicatePlay
		}
		return err
	}
	return nil
}

func (s *StorageStore) ListRoundPlays(ctx context.Context, sessionID string, round int) ([]*domain.RoundPlay, error) {
	objects, err := s.listAll(ctx, roundPlaysCollection(sessionID, round))
	if err != nil {
		return nil, err
	}
	plays := make([]*domain.RoundPlay, 0, len(objects))
	for _, obj := range objects {
		var play domain.RoundPlay
		if err := json.Unmarshal([]byte(obj.GetValue()), &play); err != nil {
			return nil, fmt.Errorf("corrupt round play record %s: %w", obj.GetKey(), err)
		}
		plays = append(plays, &play)
	}
	return plays, nil
}

func (s *StorageStore) UpsertMVPSelection(ctx context.Context, selection *domain.MVPSelection) error {
	write, err := systemWrite(mvpCollection(selection.SessionID, selection.ParticipantID), strconv.Itoa(selection.SelectedAfterRound), selection, "")
	if err != nil {
		return err
	}
	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{write})
	return err
}

func (s *StorageStore) ListMVPSelections(ctx context.Context, sessionID, participantID string) ([]*domain.MVPSelection, error) {
	objects, err := s.listAll(ctx, mvpCollection(sessionID, participantID))
	if err != nil {
		return nil, err
	}
	selections := make([]*domain.MVPSelection, 0, len(objects))
	for _, obj := range objects {
		var selection domain.MVPSelection
		if err := json.Unmarshal([]byte(obj.GetValue()), &selection); err != nil {
			return nil, fmt.Errorf("corrupt mvp selection record %s: %w", obj.GetKey(), err)
		}
		selections = append(selections, &selection)
	}
	return selections, nil
}

func (s *StorageStore) readOne(ctx context.Context, collection, key string, out any) error {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: collection,
		Key:        key,
	}})
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return ports.ErrNotFound
	}
	return json.Unmarshal([]byte(objects[0].GetValue()), out)
}

func (s *StorageStore) listAll(ctx context.Context, collection string) ([]*api.StorageObject, error) {
	var all []*api.StorageObject
	cursor := ""
	for {
		objects, next, err := s.nk.StorageList(ctx, "", "", collection, 100, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, objects...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// systemWrite builds a server-owned storage write. Version "*" makes the
// write conditional on the key not existing.
func systemWrite(collection, key string, value any, version string) (*runtime.StorageWrite, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s/%s: %w", collection, key, err)
	}
	return &runtime.StorageWrite{
		Collection: collection,
		Key:        key,
		Value:      string(data),
		Version:    version,
	}, nil
}
