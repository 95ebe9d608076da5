package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"blitztactics/internal/app"
	"blitztactics/internal/domain"
)

type rpcFunc = func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// rpcHandlers exposes coordinator operations as Nakama RPCs.
type rpcHandlers struct {
	coord *app.Coordinator
}

// ActionResponse is returned by every action RPC. Rejected actions have
// Applied false, a Reason and no events.
type ActionResponse struct {
	Applied bool           `json:"applied"`
	Reason  string         `json:"reason,omitempty"`
	MatchID int64          `json:"match_id,omitempty"`
	Events  []domain.Event `json:"events"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func (h *rpcHandlers) RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := []struct {
		id string
		fn rpcFunc
	}{
		{RpcCreatePlayerProfile, h.rpcCreatePlayerProfile},
		{RpcCreateMatch, h.rpcCreateMatch},
		{RpcPlayCard, h.rpcPlayCard},
		{RpcEndTurn, h.rpcEndTurn},
		{RpcAttackPlayer, h.rpcAttackPlayer},
		{RpcAttackCreature, h.rpcAttackCreature},
		{RpcInstantCounter, h.rpcInstantCounter},
		{RpcRequestAIMove, h.rpcRequestAIMove},
		{RpcGetPlayerStats, h.rpcGetPlayerStats},
		{RpcListCatalog, h.rpcListCatalog},
		{RpcGetCard, h.rpcGetCard},
		{RpcTotalGames, h.rpcTotalGames},
		{RpcGetActiveMatch, h.rpcGetActiveMatch},
		{RpcGrantCard, h.rpcGrantCard},
	}
	for _, r := range rpcs {
		if err := initializer.RegisterRpc(r.id, r.fn); err != nil {
			return err
		}
	}
	return nil
}

func (h *rpcHandlers) rpcCreatePlayerProfile(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	rec, err := h.coord.CreatePlayerProfile(ctx, userID)
	if err != nil {
		return "", toRuntimeError(logger, RpcCreatePlayerProfile, err)
	}
	return respond(rec)
}

func (h *rpcHandlers) rpcCreateMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		OpponentID string `json:"opponent_id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if _, err := uuid.Parse(req.OpponentID); err != nil {
		return "", runtime.NewError("opponent_id must be a user id", codeInvalidArgument)
	}
	out, err := h.coord.CreateMatch(ctx, userID, req.OpponentID)
	if err != nil {
		return "", toRuntimeError(logger, RpcCreateMatch, err)
	}
	return respondOutcome(out)
}

func (h *rpcHandlers) rpcPlayCard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		CardID int `json:"card_id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	out, err := h.coord.PlayCard(ctx, userID, req.CardID)
	if err != nil {
		return "", toRuntimeError(logger, RpcPlayCard, err)
	}
	return respondOutcome(out)
}

func (h *rpcHandlers) rpcEndTurn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	out, err := h.coord.EndTurn(ctx, userID)
	if err != nil {
		return "", toRuntimeError(logger, RpcEndTurn, err)
	}
	return respondOutcome(out)
}

func (h *rpcHandlers) rpcAttackPlayer(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		AttackerID int `json:"attacker_id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	out, err := h.coord.AttackPlayer(ctx, userID, req.AttackerID)
	if err != nil {
		return "", toRuntimeError(logger, RpcAttackPlayer, err)
	}
	return respondOutcome(out)
}

func (h *rpcHandlers) rpcAttackCreature(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		AttackerID int `json:"attacker_id"`
		DefenderID int `json:"defender_id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	out, err := h.coord.AttackCreature(ctx, userID, req.AttackerID, req.DefenderID)
	if err != nil {
		return "", toRuntimeError(logger, RpcAttackCreature, err)
	}
	return respondOutcome(out)
}

func (h *rpcHandlers) rpcInstantCounter(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		CardID       int `json:"card_id"`
		TargetCardID int `json:"target_card_id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	out, err := h.coord.InstantCounter(ctx, userID, req.CardID, req.TargetCardID)
	if err != nil {
		return "", toRuntimeError(logger, RpcInstantCounter, err)
	}
	return respondOutcome(out)
}

func (h *rpcHandlers) rpcRequestAIMove(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	if err := h.coord.RequestAIMove(ctx, userID); err != nil {
		return "", toRuntimeError(logger, RpcRequestAIMove, err)
	}
	return respond(map[string]bool{"requested": true})
}

func (h *rpcHandlers) rpcGetPlayerStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	owner, err := ownerOrCaller(ctx, payload)
	if err != nil {
		return "", err
	}
	rec, err := h.coord.GetPlayerStats(ctx, owner)
	if err != nil {
		return "", toRuntimeError(logger, RpcGetPlayerStats, err)
	}
	return respond(rec)
}

func (h *rpcHandlers) rpcListCatalog(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return respond(map[string][]domain.Card{"cards": h.coord.ListCatalog()})
}

func (h *rpcHandlers) rpcGetCard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		ID int `json:"id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	card, ok := h.coord.GetCard(req.ID)
	if !ok {
		return "", runtime.NewError("card not found", codeNotFound)
	}
	return respond(card)
}

func (h *rpcHandlers) rpcTotalGames(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	n, err := h.coord.GetTotalGamesPlayed(ctx)
	if err != nil {
		return "", toRuntimeError(logger, RpcTotalGames, err)
	}
	return respond(map[string]int64{"games_played": n})
}

func (h *rpcHandlers) rpcGetActiveMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	owner, err := ownerOrCaller(ctx, payload)
	if err != nil {
		return "", err
	}
	m, err := h.coord.GetActiveMatch(ctx, owner)
	if err != nil {
		return "", toRuntimeError(logger, RpcGetActiveMatch, err)
	}
	viewer, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return respond(redactMatch(m, viewer))
}

// rpcGrantCard is callable only server to server: there must be no user in the context.
func (h *rpcHandlers) rpcGrantCard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); userID != "" {
		return "", runtime.NewError("server to server only", codePermissionDenied)
	}
	var req struct {
		Owner  string `json:"owner"`
		CardID int    `json:"card_id"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if _, err := uuid.Parse(req.Owner); err != nil {
		return "", runtime.NewError("owner must be a user id", codeInvalidArgument)
	}
	if err := h.coord.GrantCard(ctx, req.Owner, req.CardID); err != nil {
		return "", toRuntimeError(logger, RpcGrantCard, err)
	}
	return respond(map[string]bool{"granted": true})
}

func requireUser(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("user session required", codeUnauthenticated)
	}
	return userID, nil
}

// ownerOrCaller reads an optional "owner" from payload, defaulting to the caller.
func ownerOrCaller(ctx context.Context, payload string) (string, error) {
	var req struct {
		Owner string `json:"owner"`
	}
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	if req.Owner == "" {
		return requireUser(ctx)
	}
	if _, err := uuid.Parse(req.Owner); err != nil {
		return "", runtime.NewError("owner must be a user id", codeInvalidArgument)
	}
	return req.Owner, nil
}

// decodePayload accepts an empty payload as an empty object.
func decodePayload(payload string, dst interface{}) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	return nil
}

func respond(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(data), nil
}

func respondOutcome(out app.Outcome) (string, error) {
	resp := ActionResponse{Applied: out.Applied(), Events: out.Events}
	if resp.Events == nil {
		resp.Events = []domain.Event{}
	}
	if out.Reason != nil {
		resp.Reason = out.Reason.Error()
	}
	if out.Match != nil {
		resp.MatchID = out.Match.ID
	}
	return respond(resp)
}

// toRuntimeError maps domain failures to client facing errors. Anything unexpected is logged.
func toRuntimeError(logger runtime.Logger, rpcID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		return runtime.NewError("player already exists", codeAlreadyExists)
	case errors.Is(err, domain.ErrPlayerAlreadyInMatch):
		return runtime.NewError("player already in a match", codeFailedPrecondition)
	case errors.Is(err, domain.ErrInvalidOpponent):
		return runtime.NewError("invalid opponent", codeInvalidArgument)
	case errors.Is(err, domain.ErrNotFound):
		return runtime.NewError("not found", codeNotFound)
	case errors.Is(err, domain.ErrStaleMatch):
		return runtime.NewError("match changed concurrently, retry", codeAborted)
	default:
		logger.Error("%s failed: %v", rpcID, err)
		return runtime.NewError("Internal error", codeInternal)
	}
}

// redactMatch hides hidden information from viewer: every deck, and the hand of
// any side the viewer does not own.
func redactMatch(m *domain.Match, viewer string) *domain.Match {
	out := m.Clone()
	for _, side := range []domain.Side{domain.SideA, domain.SideB} {
		p := out.Player(side)
		p.Deck = nil
		if p.Owner != viewer {
			p.Hand = nil
		}
	}
	return out
}
