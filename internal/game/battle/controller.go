package battle

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deckbattle/internal/game/dice"
)

// Result is what every controller operation returns.
type Result struct {
	// Session is a snapshot of the committed state. Callers own it.
	Session *Session
	// Effects are the external effects the transition requested.
	Effects []Effect
	// Log holds the narration lines the transition appended.
	Log []string
	// Ignored is set when the operation was not accepted in the current
	// phase or after the battle ended. Nothing changed.
	Ignored bool
}

// Controller serializes every operation on one Session. Each operation works
// on a private clone and replaces the session only once it has finished.
type Controller struct {
	mu      sync.Mutex
	session *Session
	rules   Rules
	src     dice.Source
	logger  *zap.Logger
	sink    EffectSink
}

// NewController takes ownership of s.
//
// Precondition: s, src and logger are non-nil; sink may be nil.
func NewController(s *Session, rules Rules, src dice.Source, logger *zap.Logger, sink EffectSink) *Controller {
	if s == nil || src == nil || logger == nil {
		panic("battle.NewController: session, src and logger must not be nil")
	}
	return &Controller{session: s, rules: rules, src: src, logger: logger, sink: sink}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// Rules returns the controller's rule set.
func (c *Controller) Rules() Rules { return c.rules }

// txn is one operation in progress.
type txn struct {
	s       *Session
	rules   Rules
	src     dice.Source
	effects []Effect
}

func (tx *txn) log(format string, args ...any) {
	tx.s.Log = append(tx.s.Log, fmt.Sprintf(format, args...))
}

func (tx *txn) emit(e Effect) {
	tx.effects = append(tx.effects, e)
}

// run executes fn against a clone of the session and commits the result.
// A validation error commits only the rejection's narration line; errIgnored
// commits nothing.
func (c *Controller) run(op string, fn func(tx *txn) error) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.session
	tx := &txn{s: old.Clone(), rules: c.rules, src: c.src}
	err := fn(tx)
	switch {
	case errors.Is(err, errIgnored):
		c.logger.Debug("operation ignored",
			zap.String("op", op),
			zap.String("phase", string(old.Phase)),
			zap.String("outcome", string(old.Outcome)),
		)
		return Result{Session: old.Clone(), Ignored: true}, nil
	case err != nil:
		rejected := old.Clone()
		rejected.Log = append(rejected.Log, err.Error())
		c.session = rejected
		c.logger.Debug("operation rejected", zap.String("op", op), zap.Error(err))
		return Result{Session: rejected.Clone(), Log: []string{err.Error()}}, err
	}

	effects := append(syncEffects(old, tx.s), tx.effects...)
	for i := range effects {
		effects[i].BattleID = tx.s.ID
	}
	c.session = tx.s

	c.logger.Debug("transition committed",
		zap.String("op", op),
		zap.Int("turn", tx.s.Turn),
		zap.String("phase", string(tx.s.Phase)),
		zap.Int("ap", tx.s.AP),
		zap.Int("effects", len(effects)),
	)
	if tx.s.Over() && !old.Over() {
		c.logger.Info("battle ended",
			zap.String("outcome", string(tx.s.Outcome)),
			zap.Int("turn", tx.s.Turn),
			zap.Strings("defeated", tx.s.Defeated),
		)
	}
	if c.sink != nil && len(effects) > 0 {
		c.sink.Dispatch(effects)
	}
	return Result{
		Session: tx.s.Clone(),
		Effects: effects,
		Log:     append([]string(nil), tx.s.Log[len(old.Log):]...),
	}, nil
}

// syncEffects requests profile updates for whatever player resources changed.
func syncEffects(before, after *Session) []Effect {
	var out []Effect
	if after.Player.HP != before.Player.HP {
		out = append(out, Effect{Kind: EffectSyncHP, HP: after.Player.HP})
	}
	if after.Player.Vitality != before.Player.Vitality {
		out = append(out, Effect{Kind: EffectSyncVitality, Vitality: after.Player.Vitality})
	}
	return out
}
