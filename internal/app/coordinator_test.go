package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/mock/gomock"

	"blitztactics/internal/config"
	"blitztactics/internal/domain"
	"blitztactics/internal/ports"
	"blitztactics/internal/ports/mocks"
	"blitztactics/internal/store/memory"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type fakeEconomy struct {
	mu     sync.Mutex
	grants []ports.RewardGrant
	err    error
}

func (f *fakeEconomy) GrantRewards(_ context.Context, grants []ports.RewardGrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.grants = append(f.grants, grants...)
	return nil
}

// failingPlayers fails RecordWin until healed.
type failingPlayers struct {
	*memory.PlayerStore
	fail bool
}

func (f *failingPlayers) RecordWin(ctx context.Context, owner string, delta int) error {
	if f.fail {
		return errors.New("database unavailable")
	}
	return f.PlayerStore.RecordWin(ctx, owner, delta)
}

type harness struct {
	coord    *Coordinator
	players  ports.PlayerStore
	matches  *memory.MatchStore
	games    *memory.GamesCounter
	economy  *fakeEconomy
	notified []domain.Event
	mu       sync.Mutex
}

func newHarness(t *testing.T, cfg config.GameConfig, players ports.PlayerStore) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	h := &harness{
		players: players,
		matches: memory.NewMatchStore(),
		games:   &memory.GamesCounter{},
		economy: &fakeEconomy{},
	}
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, events []domain.Event) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.notified = append(h.notified, events...)
		return nil
	}).AnyTimes()

	coord, err := NewCoordinator(Deps{
		Engine:   NewEngine(cfg, nil, nil),
		Players:  players,
		Matches:  h.matches,
		Games:    h.games,
		Notifier: notifier,
		Economy:  h.economy,
		Config:   cfg,
		Logger:   noopLogger{},
	})
	if err != nil {
		t.Fatalf("NewCoordinator error: %v", err)
	}
	h.coord = coord
	return h
}

func (h *harness) kinds() []domain.EventKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.EventKind, 0, len(h.notified))
	for _, ev := range h.notified {
		out = append(out, ev.Kind)
	}
	return out
}

// giveCreature puts a catalog card on the field of owner's side directly in the store.
func (h *harness) giveCreature(t *testing.T, owner string, cardID int) {
	t.Helper()
	ctx := context.Background()
	m, err := h.matches.GetMatchForPlayer(ctx, owner)
	if err != nil {
		t.Fatalf("GetMatchForPlayer error: %v", err)
	}
	p := m.Player(m.SideOf(owner))
	p.Field = append(p.Field, card(t, cardID))
	if err := h.matches.UpdateMatch(ctx, m); err != nil {
		t.Fatalf("UpdateMatch error: %v", err)
	}
}

func TestCoordinatorScenario(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.WinRewardGold = 100
	h := newHarness(t, cfg, memory.NewPlayerStore())

	for _, p := range []string{"p1", "p2"} {
		if _, err := h.coord.CreatePlayerProfile(ctx, p); err != nil {
			t.Fatalf("CreatePlayerProfile(%s) error: %v", p, err)
		}
	}
	if _, err := h.coord.CreatePlayerProfile(ctx, "p1"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate profile err = %v, want ErrAlreadyExists", err)
	}

	created, err := h.coord.CreateMatch(ctx, "p1", "p2")
	if err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	if created.Match.ID != 1 {
		t.Fatalf("match id = %d, want 1", created.Match.ID)
	}
	for _, p := range []string{"p1", "p2"} {
		m, err := h.coord.GetActiveMatch(ctx, p)
		if err != nil || m.ID != 1 {
			t.Fatalf("GetActiveMatch(%s) = %v, %v", p, m, err)
		}
	}

	out, err := h.coord.PlayCard(ctx, "p1", 1)
	if err != nil || !out.Applied() {
		t.Fatalf("PlayCard = %+v, %v", out, err)
	}
	if out.Match.SideA.Mana != 2 || domain.IndexOfCard(out.Match.SideA.Field, 1) < 0 {
		t.Fatalf("after PlayCard side A = %+v", out.Match.SideA)
	}

	out, err = h.coord.EndTurn(ctx, "p1")
	if err != nil || !out.Applied() {
		t.Fatalf("EndTurn = %+v, %v", out, err)
	}
	if out.Match.CurrentTurn != 2 {
		t.Fatalf("turn = %d, want 2", out.Match.CurrentTurn)
	}

	h.giveCreature(t, "p2", 6)
	out, err = h.coord.AttackPlayer(ctx, "p2", 6)
	if err != nil || !out.Applied() {
		t.Fatalf("AttackPlayer = %+v, %v", out, err)
	}
	if out.Match.SideA.Health != 15 || out.Match.Phase != domain.PhaseInProgress {
		t.Fatalf("health=%d phase=%s, want 15 in_progress", out.Match.SideA.Health, out.Match.Phase)
	}

	for !out.Finished() {
		out, err = h.coord.AttackPlayer(ctx, "p2", 6)
		if err != nil || !out.Applied() {
			t.Fatalf("AttackPlayer = %+v, %v", out, err)
		}
	}
	if out.Match.Winner != domain.SideB {
		t.Fatalf("winner = %v, want B", out.Match.Winner)
	}
	finished := out.Events[len(out.Events)-1].Payload.(domain.GameFinishedPayload)
	if finished.Rewards != 100 || finished.Winner != "p2" {
		t.Fatalf("game finished payload = %+v", finished)
	}

	p1, _ := h.coord.GetPlayerStats(ctx, "p1")
	p2, _ := h.coord.GetPlayerStats(ctx, "p2")
	if p1.Losses != 1 || p1.Ranking != 985 || p2.Wins != 1 || p2.Ranking != 1025 {
		t.Fatalf("stats p1=%+v p2=%+v", p1, p2)
	}
	if n, _ := h.coord.GetTotalGamesPlayed(ctx); n != 1 {
		t.Fatalf("games played = %d, want 1", n)
	}
	for _, p := range []string{"p1", "p2"} {
		if _, err := h.coord.GetActiveMatch(ctx, p); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetActiveMatch(%s) after finish err = %v, want ErrNotFound", p, err)
		}
	}
	if len(h.economy.grants) != 1 || h.economy.grants[0].UserID != "p2" {
		t.Fatalf("grants = %+v, want one for p2", h.economy.grants)
	}

	kinds := h.kinds()
	if kinds[0] != domain.EventMatchCreated || kinds[len(kinds)-1] != domain.EventGameFinished {
		t.Fatalf("event order = %v", kinds)
	}

	// Players are free to start a new match.
	again, err := h.coord.CreateMatch(ctx, "p2", "p1")
	if err != nil || again.Match.ID != 2 {
		t.Fatalf("second CreateMatch = %+v, %v", again, err)
	}
}

func TestCoordinatorRejectionsAreNotErrors(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, config.Default(), memory.NewPlayerStore())

	out, err := h.coord.EndTurn(ctx, "nobody")
	if err != nil {
		t.Fatalf("EndTurn without match error: %v", err)
	}
	if !errors.Is(out.Reason, domain.ErrNotFound) {
		t.Fatalf("reason = %v, want ErrNotFound", out.Reason)
	}

	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	before := len(h.kinds())

	out, err = h.coord.PlayCard(ctx, "p2", 1)
	if err != nil || !errors.Is(out.Reason, domain.ErrInvalidTurn) {
		t.Fatalf("PlayCard out of turn = %+v, %v", out, err)
	}
	out, err = h.coord.PlayCard(ctx, "p1", 2)
	if err != nil || !out.Applied() {
		t.Fatalf("PlayCard = %+v, %v", out, err)
	}
	out, err = h.coord.PlayCard(ctx, "p1", 3)
	if err != nil || !errors.Is(out.Reason, domain.ErrInsufficientMana) {
		t.Fatalf("PlayCard without mana = %+v, %v", out, err)
	}
	if got := len(h.kinds()) - before; got != 1 {
		t.Fatalf("notified %d events, want 1 for the single accepted action", got)
	}
}

func TestCoordinatorCreateMatchFailures(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, config.Default(), memory.NewPlayerStore())

	if _, err := h.coord.CreateMatch(ctx, "p1", "p1"); !errors.Is(err, domain.ErrInvalidOpponent) {
		t.Fatalf("self match err = %v, want ErrInvalidOpponent", err)
	}
	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	if _, err := h.coord.CreateMatch(ctx, "p3", "p2"); !errors.Is(err, domain.ErrPlayerAlreadyInMatch) {
		t.Fatalf("busy opponent err = %v, want ErrPlayerAlreadyInMatch", err)
	}
}

func TestCoordinatorSerializesActionsPerMatch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, config.Default(), memory.NewPlayerStore())
	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := h.coord.EndTurn(ctx, "p1")
			if err != nil {
				t.Errorf("EndTurn error: %v", err)
				return
			}
			if out.Applied() {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if applied != 1 {
		t.Fatalf("applied = %d, want exactly 1", applied)
	}
	m, _ := h.coord.GetActiveMatch(ctx, "p1")
	if m.CurrentTurn != 2 {
		t.Fatalf("turn = %d, want 2", m.CurrentTurn)
	}
	if h.coord.locks.size() != 0 {
		t.Fatalf("lock table not drained: %d entries", h.coord.locks.size())
	}
}

func TestCoordinatorFinalizationFailureIsRecovered(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.WinRewardGold = 30
	players := &failingPlayers{PlayerStore: memory.NewPlayerStore(), fail: true}
	h := newHarness(t, cfg, players)

	for _, p := range []string{"p1", "p2"} {
		if _, err := h.coord.CreatePlayerProfile(ctx, p); err != nil {
			t.Fatalf("CreatePlayerProfile(%s) error: %v", p, err)
		}
	}
	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	h.giveCreature(t, "p1", 10)
	m, _ := h.matches.GetMatchForPlayer(ctx, "p1")
	m.SideB.Health = 1
	if err := h.matches.UpdateMatch(ctx, m); err != nil {
		t.Fatalf("UpdateMatch error: %v", err)
	}

	if _, err := h.coord.AttackPlayer(ctx, "p1", 10); err == nil {
		t.Fatalf("expected finalization error")
	}
	stuck, err := h.matches.GetMatchForPlayer(ctx, "p2")
	if err != nil || !stuck.IsFinished() {
		t.Fatalf("match should be stored as finished: %+v, %v", stuck, err)
	}
	if f := stuck.Finalization; f.WinRecorded || !f.LossRecorded || f.Counted {
		t.Fatalf("stored finalization = %+v, want only the loss recorded", f)
	}

	players.fail = false
	out, err := h.coord.EndTurn(ctx, "p2")
	if err != nil {
		t.Fatalf("EndTurn error: %v", err)
	}
	if !errors.Is(out.Reason, domain.ErrMatchFinished) {
		t.Fatalf("reason = %v, want ErrMatchFinished", out.Reason)
	}
	if _, err := h.matches.GetMatchForPlayer(ctx, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("finished match not released: %v", err)
	}

	winner, _ := h.coord.GetPlayerStats(ctx, "p1")
	loser, _ := h.coord.GetPlayerStats(ctx, "p2")
	if winner.Wins != 1 || winner.Ranking != 1025 {
		t.Fatalf("winner = %+v, want 1 win and ranking 1025", winner)
	}
	if loser.Losses != 1 || loser.Ranking != 985 {
		t.Fatalf("loser = %+v, want 1 loss and ranking 985", loser)
	}
	if n, _ := h.coord.GetTotalGamesPlayed(ctx); n != 1 {
		t.Fatalf("games played = %d, want 1", n)
	}
	if len(h.economy.grants) != 1 {
		t.Fatalf("grants = %+v, want exactly one", h.economy.grants)
	}

	h.mu.Lock()
	last := h.notified[len(h.notified)-1]
	h.mu.Unlock()
	p, ok := last.Payload.(domain.GameFinishedPayload)
	if !ok || p.Winner != "p1" || p.Loser != "p2" || p.Rewards != 30 {
		t.Fatalf("last event = %+v, want game finished for p1 with 30 gold", last)
	}
}

func TestCoordinatorFinalizationResumesAfterCounterFailure(t *testing.T) {
	ctx := context.Background()
	players := memory.NewPlayerStore()
	h := newHarness(t, config.Default(), players)
	for _, p := range []string{"p1", "p2"} {
		if _, err := h.coord.CreatePlayerProfile(ctx, p); err != nil {
			t.Fatalf("CreatePlayerProfile(%s) error: %v", p, err)
		}
	}
	counter := &failingCounter{GamesCounter: h.games, fail: true}
	h.coord.games = counter

	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	h.giveCreature(t, "p1", 10)
	m, _ := h.matches.GetMatchForPlayer(ctx, "p1")
	m.SideB.Health = 2
	_ = h.matches.UpdateMatch(ctx, m)

	if _, err := h.coord.AttackPlayer(ctx, "p1", 10); err == nil {
		t.Fatalf("expected finalization error")
	}
	counter.fail = false
	if _, err := h.coord.PlayCard(ctx, "p1", 1); err != nil {
		t.Fatalf("PlayCard error: %v", err)
	}
	if _, err := h.coord.PlayCard(ctx, "p1", 1); err != nil {
		t.Fatalf("second PlayCard error: %v", err)
	}

	winner, _ := players.GetStats(ctx, "p1")
	loser, _ := players.GetStats(ctx, "p2")
	if winner.Wins != 1 || loser.Losses != 1 {
		t.Fatalf("results recorded twice: winner=%+v loser=%+v", winner, loser)
	}
	if n, _ := h.games.GamesPlayed(ctx); n != 1 {
		t.Fatalf("games played = %d, want 1", n)
	}
}

// failingCounter fails IncrementGamesPlayed until healed.
type failingCounter struct {
	*memory.GamesCounter
	fail bool
}

func (f *failingCounter) IncrementGamesPlayed(ctx context.Context) (int64, error) {
	if f.fail {
		return 0, errors.New("counter unavailable")
	}
	return f.GamesCounter.IncrementGamesPlayed(ctx)
}

// racingMatches lets another coordinator commit right before the next races
// updates go through.
type racingMatches struct {
	*memory.MatchStore
	races int
	rival func()
}

func (r *racingMatches) UpdateMatch(ctx context.Context, m *domain.Match) error {
	if r.races > 0 {
		r.races--
		r.rival()
	}
	return r.MatchStore.UpdateMatch(ctx, m)
}

// sharedStoreCoordinators builds two coordinators over one set of stores. The
// first one writes through a racingMatches whose rival attacks with p1's Swift
// Strike through the second.
func sharedStoreCoordinators(t *testing.T) (*Coordinator, *racingMatches, *memory.MatchStore) {
	t.Helper()
	ctx := context.Background()
	cfg := config.Default()
	shared := memory.NewMatchStore()
	players := memory.NewPlayerStore()
	games := &memory.GamesCounter{}

	build := func(matches ports.MatchStore) *Coordinator {
		c, err := NewCoordinator(Deps{
			Engine:  NewEngine(cfg, nil, nil),
			Players: players,
			Matches: matches,
			Games:   games,
			Config:  cfg,
			Logger:  noopLogger{},
		})
		if err != nil {
			t.Fatalf("NewCoordinator error: %v", err)
		}
		return c
	}
	racing := &racingMatches{MatchStore: shared}
	first, second := build(racing), build(shared)
	racing.rival = func() {
		out, err := second.AttackPlayer(ctx, "p1", 3)
		if err != nil || !out.Applied() {
			t.Errorf("rival AttackPlayer = %+v, %v", out, err)
		}
	}

	if _, err := second.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	m, _ := shared.GetMatchForPlayer(ctx, "p1")
	m.SideA.Field = append(m.SideA.Field, card(t, 3))
	if err := shared.UpdateMatch(ctx, m); err != nil {
		t.Fatalf("UpdateMatch error: %v", err)
	}
	return first, racing, shared
}

func TestCoordinatorsSharingAStoreRetryStaleCommits(t *testing.T) {
	ctx := context.Background()
	first, racing, shared := sharedStoreCoordinators(t)
	racing.races = 1

	out, err := first.PlayCard(ctx, "p1", 1)
	if err != nil || !out.Applied() {
		t.Fatalf("PlayCard = %+v, %v", out, err)
	}

	m, _ := shared.GetMatchForPlayer(ctx, "p2")
	if m.SideB.Health != 16 {
		t.Fatalf("side B health = %d, want 16; the rival attack was lost", m.SideB.Health)
	}
	if m.SideA.Mana != 2 || domain.IndexOfCard(m.SideA.Field, 1) < 0 {
		t.Fatalf("side A = %+v, want card 1 played", m.SideA)
	}
	if m.Revision != out.Match.Revision {
		t.Fatalf("stored revision %d, outcome revision %d", m.Revision, out.Match.Revision)
	}
}

func TestCoordinatorsSharingAStoreRejectAfterRepeatedRaces(t *testing.T) {
	ctx := context.Background()
	first, racing, shared := sharedStoreCoordinators(t)
	racing.races = maxStaleAttempts

	out, err := first.PlayCard(ctx, "p1", 1)
	if err != nil {
		t.Fatalf("PlayCard error: %v", err)
	}
	if !errors.Is(out.Reason, domain.ErrStaleMatch) {
		t.Fatalf("reason = %v, want ErrStaleMatch", out.Reason)
	}

	m, _ := shared.GetMatchForPlayer(ctx, "p1")
	if m.SideB.Health != 20-4*maxStaleAttempts {
		t.Fatalf("side B health = %d, want every rival attack kept", m.SideB.Health)
	}
	if m.SideA.Mana != 3 || domain.IndexOfCard(m.SideA.Hand, 1) < 0 {
		t.Fatalf("side A = %+v, want card 1 still in hand", m.SideA)
	}
}

func TestCoordinatorRewardFailureDoesNotBlockFinalization(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.WinRewardGold = 50
	h := newHarness(t, cfg, memory.NewPlayerStore())
	h.economy.err = errors.New("wallet offline")

	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	h.giveCreature(t, "p1", 10)
	m, _ := h.matches.GetMatchForPlayer(ctx, "p1")
	m.SideB.Health = 6
	_ = h.matches.UpdateMatch(ctx, m)

	out, err := h.coord.AttackPlayer(ctx, "p1", 10)
	if err != nil || !out.Finished() {
		t.Fatalf("AttackPlayer = %+v, %v", out, err)
	}
	if p := out.Events[0].Payload.(domain.GameFinishedPayload); p.Rewards != 0 {
		t.Fatalf("rewards = %d, want 0 when the grant failed", p.Rewards)
	}
}

func TestCoordinatorInstantCounter(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, config.Default(), memory.NewPlayerStore())

	out, err := h.coord.InstantCounter(ctx, "loner", 4, 1)
	if err != nil || !out.Applied() {
		t.Fatalf("InstantCounter = %+v, %v", out, err)
	}
	if r := out.Events[0].Recipients; len(r) != 1 || r[0] != "loner" {
		t.Fatalf("recipients = %v, want [loner]", r)
	}

	if _, err := h.coord.CreateMatch(ctx, "p1", "p2"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	out, err = h.coord.InstantCounter(ctx, "p2", 4, 1)
	if err != nil || len(out.Events[0].Recipients) != 2 {
		t.Fatalf("InstantCounter in match = %+v, %v", out, err)
	}

	out, err = h.coord.InstantCounter(ctx, "p2", 77, 1)
	if err != nil || !errors.Is(out.Reason, domain.ErrNotFound) {
		t.Fatalf("unknown counter = %+v, %v", out, err)
	}
}

func TestCoordinatorRequestAIMove(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	ai := mocks.NewMockAIMover(ctrl)
	matches := memory.NewMatchStore()

	coord, err := NewCoordinator(Deps{
		Engine:  newTestEngine(),
		Players: memory.NewPlayerStore(),
		Matches: matches,
		Games:   &memory.GamesCounter{},
		AI:      ai,
		Config:  config.Default(),
		Logger:  noopLogger{},
	})
	if err != nil {
		t.Fatalf("NewCoordinator error: %v", err)
	}

	ai.EXPECT().RequestMove(gomock.Any(), "p1", gomock.Nil()).Return(nil)
	if err := coord.RequestAIMove(ctx, "p1"); err != nil {
		t.Fatalf("RequestAIMove error: %v", err)
	}

	if _, err := coord.CreateMatch(ctx, "p1", "bot"); err != nil {
		t.Fatalf("CreateMatch error: %v", err)
	}
	ai.EXPECT().RequestMove(gomock.Any(), "bot", gomock.Not(gomock.Nil())).Return(errors.New("no brain"))
	if err := coord.RequestAIMove(ctx, "bot"); err == nil {
		t.Fatalf("expected AI error to be returned")
	}
}

func TestCoordinatorGrantCard(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, config.Default(), memory.NewPlayerStore())

	if err := h.coord.GrantCard(ctx, "p1", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("grant to missing player err = %v, want ErrNotFound", err)
	}
	if _, err := h.coord.CreatePlayerProfile(ctx, "p1"); err != nil {
		t.Fatalf("CreatePlayerProfile error: %v", err)
	}
	if err := h.coord.GrantCard(ctx, "p1", 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("grant unknown card err = %v, want ErrNotFound", err)
	}
	if err := h.coord.GrantCard(ctx, "p1", 3); err != nil {
		t.Fatalf("GrantCard error: %v", err)
	}
}

func TestNewCoordinatorRequiresStores(t *testing.T) {
	if _, err := NewCoordinator(Deps{Logger: noopLogger{}}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}
