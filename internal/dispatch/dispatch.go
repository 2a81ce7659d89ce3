// Package dispatch executes the external effects a battle transition emits.
// Execution is fire-and-forget: failures are logged and never retried or
// reported back to the battle.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deckbattle/internal/game/battle"
	"github.com/cory-johannsen/deckbattle/internal/observability"
)

// DefaultTimeout bounds one batch when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// ProfileSync persists the player's HP and vitality.
type ProfileSync interface {
	SyncHP(ctx context.Context, hp int) error
	SyncVitality(ctx context.Context, vitality int) error
}

// Inventory grants and consumes items.
type Inventory interface {
	Grant(ctx context.Context, itemSlug string) error
	Consume(ctx context.Context, itemSlug string) error
}

// Reporter records victory reports with the world-impact collaborator.
type Reporter interface {
	ReportVictory(ctx context.Context, battleID string, report battle.VictoryReport) error
}

// ImpactMapper turns a scenario's defeated enemies into world impacts.
type ImpactMapper interface {
	Impacts(scenarioID string, defeated []string) ([]string, error)
}

// Options wires a Dispatcher. Nil collaborators are skipped.
type Options struct {
	Profile   ProfileSync
	Inventory Inventory
	Reporter  Reporter
	Impacts   ImpactMapper
	Timeout   time.Duration
}

// Dispatcher implements battle.EffectSink. Batches run one at a time in the
// order they were dispatched, on a single worker goroutine; effects inside a
// batch run in order. A later sync therefore always lands after an earlier one.
type Dispatcher struct {
	opts   Options
	logger *zap.Logger

	mu      sync.Mutex
	queue   [][]battle.Effect
	working bool
	wg      sync.WaitGroup
}

// New constructs a Dispatcher.
//
// Precondition: logger must not be nil.
func New(opts Options, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		panic("dispatch.New: logger must not be nil")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Dispatcher{opts: opts, logger: logger}
}

// Dispatch queues effects and returns immediately. It never blocks on a
// running batch.
func (d *Dispatcher) Dispatch(effects []battle.Effect) {
	if len(effects) == 0 {
		return
	}
	batch := append([]battle.Effect(nil), effects...)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.wg.Add(1)
	d.queue = append(d.queue, batch)
	if !d.working {
		d.working = true
		go d.drain()
	}
}

// Wait blocks until every queued batch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// drain runs queued batches until the queue is empty, then exits. At most one
// drain runs at a time.
func (d *Dispatcher) drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.working = false
			d.mu.Unlock()
			return
		}
		batch := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.run(batch)
		d.wg.Done()
	}
}

func (d *Dispatcher) run(batch []battle.Effect) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
	defer cancel()
	logger := observability.BattleLogger(d.logger, batch[0].BattleID)
	for _, e := range batch {
		if err := d.execute(ctx, e); err != nil {
			logger.Warn("external effect failed",
				zap.String("kind", string(e.Kind)),
				zap.Error(err),
			)
			continue
		}
		logger.Debug("external effect applied", zap.String("kind", string(e.Kind)))
	}
}

func (d *Dispatcher) execute(ctx context.Context, e battle.Effect) error {
	switch e.Kind {
	case battle.EffectSyncHP:
		if d.opts.Profile == nil {
			return nil
		}
		return d.opts.Profile.SyncHP(ctx, e.HP)
	case battle.EffectSyncVitality:
		if d.opts.Profile == nil {
			return nil
		}
		return d.opts.Profile.SyncVitality(ctx, e.Vitality)
	case battle.EffectGrantItem:
		if d.opts.Inventory == nil {
			return nil
		}
		return d.opts.Inventory.Grant(ctx, e.ItemSlug)
	case battle.EffectConsumeItem:
		if d.opts.Inventory == nil {
			return nil
		}
		return d.opts.Inventory.Consume(ctx, e.ItemSlug)
	case battle.EffectReportVictory:
		if e.Victory == nil {
			return nil
		}
		report := *e.Victory
		if d.opts.Impacts != nil {
			impacts, err := d.opts.Impacts.Impacts(report.ScenarioID, report.Impacts)
			if err != nil {
				d.logger.Warn("impact script failed; reporting defeated enemies", zap.Error(err))
			} else {
				report.Impacts = impacts
			}
		}
		if d.opts.Reporter == nil {
			observability.BattleLogger(d.logger, e.BattleID).Info("victory not reported: no reporter",
				zap.String("scenario_id", report.ScenarioID),
				zap.Strings("impacts", report.Impacts),
			)
			return nil
		}
		return d.opts.Reporter.ReportVictory(ctx, e.BattleID, report)
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
}
