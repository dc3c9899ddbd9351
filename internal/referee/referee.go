package referee

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/mazelabs/maze-referee/internal/board"
	"github.com/mazelabs/maze-referee/internal/game"
)

// Config carries the per-match knobs. Zero values fall back to the classic
// game: a 7×7 board, four-second response bound, thousand-round cap.
type Config struct {
	Rows, Cols  int
	MoveTimeout time.Duration
	MaxRounds   int
	// ExtraGoals is how many goals beyond each player's first go into the
	// shared goal queue. Zero plays the single-goal game.
	ExtraGoals int
	Metric     DistanceMetric
	Rand       *rand.Rand
	Logger     *zap.SugaredLogger
}

func (c Config) withDefaults() Config {
	if c.Rows == 0 {
		c.Rows = 7
	}
	if c.Cols == 0 {
		c.Cols = 7
	}
	if c.MoveTimeout == 0 {
		c.MoveTimeout = 4 * time.Second
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = 1000
	}
	if c.Metric == nil {
		c.Metric = EuclideanDistance
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	return c
}

// GameResult reports the final standing by participant name. Cheaters are
// the kicked participants; they are never counted among the losers.
type GameResult struct {
	Winners  []string `json:"winners"`
	Losers   []string `json:"losers"`
	Cheaters []string `json:"cheaters"`
	Rounds   int      `json:"rounds"`
}

// Referee arbitrates exactly one match. It exclusively owns the GameState,
// drives a strictly sequential turn loop, and talks to participants only
// through the PlayerChannel capability. Misbehaving participants get kicked;
// they can lose, but they cannot crash the match.
type Referee struct {
	cfg       Config
	log       *zap.SugaredLogger
	state     *game.State
	channels  map[string]PlayerChannel
	observers []Observer
	cheaters  []string
}

// New builds a referee for a single match.
func New(cfg Config) *Referee {
	cfg = cfg.withDefaults()
	return &Referee{cfg: cfg, log: cfg.Logger}
}

// AddObserver registers a snapshot sink. Must be called before the match
// starts.
func (r *Referee) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

var colorPalette = []string{
	"purple", "orange", "pink", "red", "blue", "green", "yellow", "white", "black",
}

// RunMatch generates a board, assigns homes and goals, and plays the match
// to completion. A structural impossibility (more players than distinct
// non-slidable tiles, duplicate identities) fails the whole match with
// ErrConfig before any round starts.
func (r *Referee) RunMatch(ctx context.Context, players []PlayerChannel) (GameResult, error) {
	if len(players) == 0 {
		return GameResult{}, fmt.Errorf("%w: no players", ErrConfig)
	}
	b, err := board.Generate(r.cfg.Rows, r.cfg.Cols, r.cfg.Rand)
	if err != nil {
		return GameResult{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	fixed := b.FixedPositions()
	if len(fixed) < 2 {
		return GameResult{}, fmt.Errorf("%w: board has no room for homes and goals", ErrConfig)
	}
	if len(players) > len(fixed) {
		return GameResult{}, fmt.Errorf("%w: %d players but only %d non-slidable tiles",
			ErrConfig, len(players), len(fixed))
	}
	r.cfg.Rand.Shuffle(len(fixed), func(i, j int) { fixed[i], fixed[j] = fixed[j], fixed[i] })

	records := make([]*game.PlayerRecord, len(players))
	for i, ch := range players {
		home := fixed[i]
		goal := fixed[(i+r.cfg.Rand.Intn(len(fixed)-1)+1)%len(fixed)]
		records[i] = &game.PlayerRecord{
			Name:     ch.Name(),
			Color:    colorFor(i, r.cfg.Rand),
			Home:     home,
			Goal:     goal,
			Position: home,
		}
	}
	queue := make([]board.Position, 0, r.cfg.ExtraGoals)
	for i := 0; i < r.cfg.ExtraGoals; i++ {
		queue = append(queue, fixed[r.cfg.Rand.Intn(len(fixed))])
	}

	st, err := game.NewState(b, records, queue)
	if err != nil {
		return GameResult{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return r.RunFromState(ctx, st, players)
}

func colorFor(i int, rng *rand.Rand) string {
	if i < len(colorPalette) {
		return colorPalette[i]
	}
	return fmt.Sprintf("%06X", rng.Intn(1<<24))
}

// RunFromState plays a match starting from an externally supplied state:
// "run a match to completion starting from this exact state". players[i]
// serves st.Players()[i].
func (r *Referee) RunFromState(ctx context.Context, st *game.State, players []PlayerChannel) (GameResult, error) {
	if len(players) != len(st.Players()) {
		return GameResult{}, fmt.Errorf("%w: %d channels for %d records", ErrConfig, len(players), len(st.Players()))
	}
	r.state = st
	r.channels = make(map[string]PlayerChannel, len(players))
	for i, ch := range players {
		rec := st.Players()[i]
		if _, dup := r.channels[rec.Name]; dup {
			return GameResult{}, fmt.Errorf("%w: duplicate participant %q", ErrConfig, rec.Name)
		}
		r.channels[rec.Name] = ch
	}

	r.deliverSetup(ctx)
	r.notifyState()
	return r.playRounds(ctx)
}

// deliverSetup hands every participant its home, first goal and the initial
// view. A participant that cannot take delivery is kicked before the first
// round.
func (r *Referee) deliverSetup(ctx context.Context) {
	view := r.state.View()
	for _, rec := range slices.Clone(r.state.Players()) {
		ch := r.channels[rec.Name]
		err := r.bounded(ctx, func(c context.Context) error {
			return ch.Setup(c, &view, rec.Home, rec.Goal)
		})
		if err != nil {
			r.log.Infow("kicking player during setup", "player", rec.Name, "error", err)
			r.kick(rec)
		}
	}
}

// playRounds is the RoundInProgress state: iterate turn order until a win,
// an all-pass round, or nobody left.
func (r *Referee) playRounds(ctx context.Context) (GameResult, error) {
	st := r.state
	opener := st.ActivePlayer()
	passes, turns := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return r.gameOver(ctx, nil, st.Players()), err
		}
		mover := st.ActivePlayer()
		if mover == nil {
			// Everyone kicked: empty winner set.
			return r.gameOver(ctx, nil, nil), nil
		}

		survived, passed, won := r.takeTurn(ctx, mover)
		switch {
		case !survived && mover == opener:
			// The opener's turn is the first of a round, so its
			// removal restarts the round at whoever is next.
			opener = st.ActivePlayer()
			passes, turns = 0, 0
			continue
		case survived:
			turns++
			if passed {
				passes++
			}
			if won {
				winners, losers := CalculateWinners(st.Players(), r.cfg.Metric)
				return r.gameOver(ctx, winners, losers), nil
			}
		}

		if st.ActivePlayer() == opener {
			st.AdvanceRound()
			if turns > 0 && passes == turns {
				// Every remaining player passed this round.
				return r.gameOver(ctx, nil, st.Players()), nil
			}
			if st.Round() >= r.cfg.MaxRounds {
				winners, losers := CalculateWinners(st.Players(), r.cfg.Metric)
				return r.gameOver(ctx, winners, losers), nil
			}
			passes, turns = 0, 0
		}
	}
}

// takeTurn runs one turn for mover: request, validate, commit or kick.
// survived reports whether the mover is still in the game, passed whether
// the turn was a pass, won whether the move completed the win condition.
func (r *Referee) takeTurn(ctx context.Context, mover *game.PlayerRecord) (survived, passed, won bool) {
	st := r.state
	ch := r.channels[mover.Name]

	var mv *game.Move
	err := r.bounded(ctx, func(c context.Context) error {
		m, err := ch.RequestMove(c, st.View())
		mv = m
		return err
	})
	if err != nil {
		r.log.Infow("kicking player", "player", mover.Name, "error", err)
		r.kick(mover)
		return false, false, false
	}

	if mv == nil {
		st.ApplyPass()
		st.NextPlayer()
		r.notifyState()
		return true, true, false
	}

	goalBefore := mover.Goal
	if err := st.ApplyMove(*mv); err != nil {
		r.log.Infow("kicking player for invalid move", "player", mover.Name, "error", err)
		r.kick(mover)
		return false, false, false
	}

	won = mover.WinEligible()
	if !won && mover.Goal != goalBefore {
		// New goal from the queue (or the trip home): announce it the
		// same way the first goal was announced.
		err := r.bounded(ctx, func(c context.Context) error {
			return ch.Setup(c, nil, mover.Home, mover.Goal)
		})
		if err != nil {
			r.log.Infow("kicking player on goal delivery", "player", mover.Name, "error", err)
			r.kick(mover)
			r.notifyState()
			return false, false, false
		}
	}

	st.NextPlayer()
	r.notifyState()
	return true, false, won
}

// gameOver is the terminal state: score, notify outcomes, signal observers.
// A participant that cannot take its outcome notification is reclassified as
// a cheater.
func (r *Referee) gameOver(ctx context.Context, winners, losers []*game.PlayerRecord) GameResult {
	result := GameResult{Rounds: r.state.Round(), Cheaters: slices.Clone(r.cheaters)}

	for _, w := range winners {
		w.Status = game.Won
		if r.notifyOutcome(ctx, w, true) {
			result.Winners = append(result.Winners, w.Name)
		} else {
			result.Cheaters = append(result.Cheaters, w.Name)
		}
	}
	for _, l := range losers {
		if r.notifyOutcome(ctx, l, false) {
			result.Losers = append(result.Losers, l.Name)
		} else {
			result.Cheaters = append(result.Cheaters, l.Name)
		}
	}

	for _, o := range r.observers {
		o.OnGameOver()
	}

	slices.Sort(result.Winners)
	slices.Sort(result.Losers)
	slices.Sort(result.Cheaters)
	r.log.Infow("match over",
		"winners", result.Winners, "losers", result.Losers,
		"cheaters", result.Cheaters, "rounds", result.Rounds)
	return result
}

func (r *Referee) notifyOutcome(ctx context.Context, rec *game.PlayerRecord, won bool) bool {
	ch := r.channels[rec.Name]
	err := r.bounded(ctx, func(c context.Context) error {
		return ch.NotifyOutcome(c, won)
	})
	if err != nil {
		r.log.Infow("outcome delivery failed", "player", rec.Name, "error", err)
		return false
	}
	return true
}

func (r *Referee) kick(rec *game.PlayerRecord) {
	r.state.Kick(rec)
	r.cheaters = append(r.cheaters, rec.Name)
}

func (r *Referee) notifyState() {
	view := r.state.View()
	for _, o := range r.observers {
		o.OnState(view)
	}
}

// bounded runs one participant call under the response-time budget. The call
// races its deadline; expiry cancels it with no retry and is reported as
// ErrTimeout, distinct from an ordinary error reply.
func (r *Referee) bounded(parent context.Context, f func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, r.cfg.MoveTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f(ctx) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrTimeout
	}
}
