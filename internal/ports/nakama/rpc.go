package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"boardroom/internal/app"
	"boardroom/internal/catalog"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcFindRoom searches for a room with an open seat and returns its match id,
// creating a fresh room when none is available.
//
// Payload: unused.
// Returns: JSON {"match_id": "..."}.
func rpcFindRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 1
	authoritative := true
	labelQuery := "+label.open:>=1 +label.phase:lobby"
	minSize := 0
	maxSize := 8

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, labelQuery)
	if err != nil {
		logger.Error("rpcFindRoom [User:%s]: failed to list rooms: %v", userID, err)
		return "", err
	}

	matchID := ""
	if len(matches) > 0 {
		matchID = matches[0].MatchId
		logger.Info("rpcFindRoom [User:%s]: found existing room %s", userID, matchID)
	} else {
		matchID, err = nk.MatchCreate(ctx, MatchNameBoardroom, nil)
		if err != nil {
			logger.Error("rpcFindRoom [User:%s]: failed to create room: %v", userID, err)
			return "", err
		}
		logger.Info("rpcFindRoom [User:%s]: created new room %s", userID, matchID)
	}

	response, err := json.Marshal(map[string]string{"match_id": matchID})
	if err != nil {
		return "", err
	}
	return string(response), nil
}

type leaderboardRequest struct {
	SessionID string `json:"session_id"`
}

// newLeaderboardRPC builds the leaderboard RPC over the shared card catalog.
// It reads committed state only, so it works for finished sessions too.
//
// Payload: JSON {"session_id": "..."}.
// Returns: JSON array of standings ordered by rank.
func newLeaderboardRPC(cards *catalog.Catalog) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		var request leaderboardRequest
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			return "", runtime.NewError("malformed payload", 3)
		}
		if request.SessionID == "" {
			return "", runtime.NewError("session_id is required", 3)
		}

		service := app.NewService(NewStorageStore(nk), cards, nil)
		standings, err := service.Leaderboard(ctx, request.SessionID)
		if err != nil {
			var nfErr *app.NotFoundError
			if errors.As(err, &nfErr) {
				return "", runtime.NewError(nfErr.Error(), 5)
			}
			logger.Error("rpcLeaderboard: %v", err)
			return "", runtime.NewError("internal error", 13)
		}

		response, err := json.Marshal(standings)
		if err != nil {
			return "", err
		}
		return string(response), nil
	}
}
