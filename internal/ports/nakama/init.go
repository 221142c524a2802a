package nakama

import (
	"context"
	"database/sql"

	"boardroom/internal/bot"
	"boardroom/internal/catalog"
	"boardroom/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	catalogPath    = "data/card_catalog.json"
	identitiesPath = "data/bot_identities.json"
	configPath     = "data/game_config.json"
)

// InitModule wires RPCs and the match handler into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("InitModule: game config not loaded, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(identitiesPath); err != nil {
		logger.Warn("InitModule: AI identities not loaded, using fallbacks: %v", err)
	}

	cards, err := catalog.Load(catalogPath)
	if err != nil {
		logger.Error("InitModule: failed to load card catalog: %v", err)
		return err
	}

	if err := initializer.RegisterRpc(RpcFindRoom, rpcFindRoom); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcLeaderboard, newLeaderboardRPC(cards)); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBoardroom, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(cards), nil
	}); err != nil {
		return err
	}

	logger.Info("Boardroom Go module loaded.")
	return nil
}
