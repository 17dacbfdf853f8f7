package redis

import (
	"fmt"

	"github.com/mcoot/wordgrid-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordgrid"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a GameSession
func sessionKey(id model.GameSessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionsForPlayerIndexKey returns the Redis key for the SET of a player's session keys
func sessionsForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:sessions_for_player:%s", keyPrefix, playerID)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}

// leaderboardEntriesKey returns the Redis key for the HASH of session_id -> entry
func leaderboardEntriesKey() string {
	return fmt.Sprintf("%s:leaderboard:entries", keyPrefix)
}

// leaderboardByTimeKey returns the Redis key for the ZSET of session_id scored by completion time
func leaderboardByTimeKey() string {
	return fmt.Sprintf("%s:leaderboard:by_time", keyPrefix)
}
