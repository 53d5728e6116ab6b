// Package game implements the server-authoritative rules engine: setup, the
// turn and phase machine, action validation and execution, bird powers and
// scoring. A Game does no locking and no I/O; the host must serialize calls
// per game.
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// Phase is the game lifecycle stage.
type Phase string

const (
	PhaseSetup   Phase = "SETUP"
	PhasePlay    Phase = "PLAY"
	PhaseDiscard Phase = "DISCARD"
	PhaseEnd     Phase = "END"
)

// Seat identifies a player joining a game.
type Seat struct {
	ID   string
	Name string
}

// Option configures a Game at construction.
type Option func(*Game)

// WithSettings overrides the rule constants.
func WithSettings(s Settings) Option {
	return func(g *Game) {
		g.settings = s
	}
}

// WithSeed makes shuffles, dice and instance ids reproducible.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		g.seed = seed
		g.seeded = true
	}
}

// WithLogger sets the logger that mirrors the game log.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithID sets the game id instead of generating one.
func WithID(id string) Option {
	return func(g *Game) {
		g.id = id
	}
}

// Game owns all state of one match.
type Game struct {
	id       string
	phase    Phase
	round    int
	settings Settings

	players   []*Player
	deck      *Deck
	bonusDeck *BonusDeck
	dice      *DiceTray
	tray      *BirdTray
	goals     []catalog.RoundGoal
	logs      []string

	turn     *rules.Coordinator[*Player]
	events   *rules.EventBus
	triggers *rules.TriggerManager
	// reactions collects activations raised by triggers during the current call.
	reactions []rules.Activation

	rng    *rand.Rand
	seed   int64
	seeded bool
	logger *zap.Logger
}

// New creates a game for players and deals the setup hands.
func New(players []Seat, cat *catalog.Catalog, opts ...Option) (*Game, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("at least 1 player required")
	}
	if len(cat.Birds()) == 0 {
		return nil, fmt.Errorf("catalog has no birds")
	}

	g := &Game{
		phase:    PhaseSetup,
		round:    1,
		settings: DefaultSettings(),
		events:   rules.NewEventBus(),
		triggers: rules.NewTriggerManager(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if !g.seeded {
		seed, err := NewSeed()
		if err != nil {
			return nil, err
		}
		g.seed = seed
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	if g.id == "" {
		g.id = uuid.NewString()
	}
	g.logger = g.logger.With(zap.String("game_id", g.id))

	seen := make(map[string]bool, len(players))
	for _, seat := range players {
		if seat.ID == "" || seat.Name == "" {
			return nil, fmt.Errorf("player id and name are required")
		}
		if seen[seat.ID] {
			return nil, fmt.Errorf("duplicate player id %s", seat.ID)
		}
		seen[seat.ID] = true
		g.players = append(g.players, newPlayer(seat))
	}

	g.deck = NewDeck(cat.Birds(), g.rng)
	g.bonusDeck = NewBonusDeck(cat.BonusCards(), g.rng)
	g.dice = NewDiceTray(g.settings.DiceCount, g.rng)
	g.tray = NewBirdTray(g.settings.BirdTraySize)
	g.turn = rules.NewCoordinator(g.players)

	goals := cat.RoundGoals()
	g.rng.Shuffle(len(goals), func(i, j int) { goals[i], goals[j] = goals[j], goals[i] })
	if len(goals) > g.settings.MaxRounds {
		goals = goals[:g.settings.MaxRounds]
	}
	g.goals = goals

	g.tray.Refill(g.deck)

	// Between-turn powers answer events raised by other players' actions.
	g.events.Subscribe(func(e rules.Event) {
		g.reactions = append(g.reactions, g.triggers.Handle(e)...)
	})

	g.dealSetup()
	g.logger.Info("game created",
		zap.Int("players", len(g.players)),
		zap.Int64("seed", g.seed),
	)
	return g, nil
}

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Round returns the current round number, starting at 1.
func (g *Game) Round() int { return g.round }

// Settings returns the rule constants.
func (g *Game) Settings() Settings { return g.settings }

// Player returns the player with id.
func (g *Game) Player(id string) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PlayerByName returns the first player named name.
func (g *Game) PlayerByName(name string) (*Player, bool) {
	for _, p := range g.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Players returns the seats in turn order.
func (g *Game) Players() []*Player {
	return append([]*Player(nil), g.players...)
}

// ActivePlayerID returns the player holding the turn. It is empty outside
// the PLAY phase.
func (g *Game) ActivePlayerID() string {
	if g.phase != PhasePlay {
		return ""
	}
	p, ok := g.turn.ActivePlayer()
	if !ok {
		return ""
	}
	return p.ID
}

// RoundGoals returns the goals selected for this game, one per round.
func (g *Game) RoundGoals() []catalog.RoundGoal {
	return append([]catalog.RoundGoal(nil), g.goals...)
}

// Logs returns the game log.
func (g *Game) Logs() []string {
	return append([]string(nil), g.logs...)
}

// Subscribe registers a listener for every engine event.
func (g *Game) Subscribe(listener rules.Listener) int {
	return g.events.Subscribe(listener)
}

// Note appends a line to the game log on behalf of the host, for example
// connection changes.
func (g *Game) Note(format string, args ...any) {
	g.log(format, args...)
}

func (g *Game) log(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	g.logs = append(g.logs, line)
	g.logger.Debug("game log", zap.String("line", line))
}

// publish raises an event and returns the reactive activations it caused.
func (g *Game) publish(e rules.Event) []rules.Activation {
	g.reactions = nil
	g.events.Publish(e)
	acts := g.reactions
	g.reactions = nil
	return acts
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	from := g.phase
	g.phase = p
	g.logger.Info("phase changed",
		zap.String("from", string(from)),
		zap.String("to", string(p)),
		zap.Int("round", g.round),
	)
	evt := rules.NewEvent(rules.EventPhaseChanged, "")
	evt.Data = string(p)
	g.publish(evt)
}

func (g *Game) startRound() {
	cubes := g.settings.cubesFor(g.round)
	for _, p := range g.players {
		p.ActionCubes = cubes
	}
	g.turn.Reset(g.players)
	g.tray.Refill(g.deck)
	g.log("Round %d started", g.round)
}

// afterAction advances the turn, or closes the round once every budget is
// spent. It returns activations of end-of-round powers.
func (g *Game) afterAction() []rules.Activation {
	if !g.turn.AllExhausted() {
		g.turn.Advance()
		return nil
	}
	return g.endRound()
}

func (g *Game) endRound() []rules.Activation {
	acts := g.resolveEndOfRound()

	if goal, ok := g.currentGoal(); ok {
		g.log("Round %d goal: %s", g.round, goal.Name)
		for _, res := range ScoreRoundGoal(goal, g.players, g.round) {
			g.log("%s scored %d points for round goal (%s)", res.Player.Name, res.Points, res.Position)
		}
	}

	evt := rules.NewEvent(rules.EventRoundEnded, "")
	evt.Amount = g.round
	acts = append(acts, g.publish(evt)...)

	if g.round >= g.settings.MaxRounds {
		g.setPhase(PhaseEnd)
		g.log("Game Over! Final scores calculated.")
		for _, s := range g.FinalScores() {
			g.logger.Info("final score",
				zap.String("player_id", s.PlayerID),
				zap.Int("total", s.Total),
			)
		}
		g.publish(rules.NewEvent(rules.EventGameEnded, ""))
		return acts
	}

	if g.needsDiscard() {
		for _, p := range g.players {
			p.DiscardConfirmed = false
		}
		g.setPhase(PhaseDiscard)
		g.log("End of round: Players must discard down to %d cards", g.settings.DiscardLimit)
		return acts
	}

	g.round++
	g.startRound()
	return acts
}

func (g *Game) currentGoal() (catalog.RoundGoal, bool) {
	if g.round < 1 || g.round > len(g.goals) {
		return catalog.RoundGoal{}, false
	}
	return g.goals[g.round-1], true
}

func (g *Game) needsDiscard() bool {
	for _, p := range g.players {
		if len(p.Hand) > g.settings.DiscardLimit {
			return true
		}
	}
	return false
}
