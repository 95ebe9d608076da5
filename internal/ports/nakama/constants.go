package nakama

import "blitztactics/internal/domain"

// RPC ids registered with Nakama.
const (
	RpcCreatePlayerProfile = "blitz_create_player_profile"
	RpcCreateMatch         = "blitz_create_match"
	RpcPlayCard            = "blitz_play_card"
	RpcEndTurn             = "blitz_end_turn"
	RpcAttackPlayer        = "blitz_attack_player"
	RpcAttackCreature      = "blitz_attack_creature"
	RpcInstantCounter      = "blitz_instant_counter"
	RpcRequestAIMove       = "blitz_request_ai_move"

	RpcGetPlayerStats = "blitz_get_player_stats"
	RpcListCatalog    = "blitz_list_catalog"
	RpcGetCard        = "blitz_get_card"
	RpcTotalGames     = "blitz_total_games"
	RpcGetActiveMatch = "blitz_get_active_match"

	// RpcGrantCard is server to server only.
	RpcGrantCard = "blitz_grant_card"
)

// Notification codes for server events. Nakama reserves codes <= 0.
const (
	CodeMatchCreated     = 101
	CodeCardPlayed       = 102
	CodeTurnEnded        = 103
	CodePlayerAttacked   = 104
	CodeCombatResolved   = 105
	CodeGameFinished     = 106
	CodeCounterActivated = 107
)

var notificationCodes = map[domain.EventKind]int{
	domain.EventMatchCreated:     CodeMatchCreated,
	domain.EventCardPlayed:       CodeCardPlayed,
	domain.EventTurnEnded:        CodeTurnEnded,
	domain.EventPlayerAttacked:   CodePlayerAttacked,
	domain.EventCombatResolved:   CodeCombatResolved,
	domain.EventGameFinished:     CodeGameFinished,
	domain.EventCounterActivated: CodeCounterActivated,
}

// Storage layout.
const (
	collectionPlayers    = "blitz_players"
	collectionMatches    = "blitz_matches"
	collectionMatchIndex = "blitz_match_index"
	collectionCounters   = "blitz_counters"

	keyPlayerRecord = "record"
	keyActiveMatch  = "active"
	keyNextMatchID  = "next_match_id"
	keyGamesPlayed  = "games_played"

	// systemUserID addresses system-owned storage objects.
	systemUserID = ""
)

// gRPC status codes used in runtime errors.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeAlreadyExists      = 6
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeAborted            = 10
	codeInternal           = 13
	codeUnauthenticated    = 16
)
