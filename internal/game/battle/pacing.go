package battle

import (
	"context"
	"time"
)

// PauseFunc is called between phases by AutoAdvance. Returning an error stops
// the advance.
type PauseFunc func(ctx context.Context) error

// Delay returns a PauseFunc that waits d or until ctx is done.
func Delay(d time.Duration) PauseFunc {
	return func(ctx context.Context) error {
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

// AutoAdvance ends the player action phase and runs the party AI and enemy
// phases, calling pause between them. The controller itself never waits.
// The returned Result carries the final snapshot and every effect and log
// line produced along the way.
func AutoAdvance(ctx context.Context, c *Controller, pause PauseFunc) (Result, error) {
	var total Result
	steps := []func() (Result, error){c.EndTurn, c.ProcessPartyTurn, c.ProcessEnemyTurn}
	for i, step := range steps {
		if i > 0 && pause != nil {
			if err := pause(ctx); err != nil {
				return total, err
			}
		}
		res, err := step()
		if err != nil {
			return total, err
		}
		total.Session = res.Session
		total.Effects = append(total.Effects, res.Effects...)
		total.Log = append(total.Log, res.Log...)
		if res.Ignored {
			total.Ignored = i == 0
			return total, nil
		}
		if res.Session.Over() {
			return total, nil
		}
	}
	return total, nil
}
