package decision

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/thetooth/execping/util"
)

// Evaluate probes each target in turn and runs its on_up/on_down hook when the verdict changes.
// Targets are never probed concurrently.
func Evaluate(ctx context.Context, targets []*Target) (err error) {
	for _, target := range targets {
		if err = ctx.Err(); err != nil {
			return
		}

		target.Lock()
		wasUp := target.Operational
		bindErr := target.Bind()
		target.Unlock()

		// Check guards its own statistics, ping runs without the target lock
		if bindErr == nil {
			if perr := target.Check.Probe(ctx); perr != nil {
				logrus.Debug("Probe of ", target.Name, " failed: ", perr)
			}
		}

		target.Lock()
		up := target.IsUp(bindErr)

		// Only run hooks on an actual transition
		hook := ""
		if up != wasUp {
			if up {
				hook = target.Cfg.OnUp
			} else {
				hook = target.Cfg.OnDown
			}
		}
		target.Unlock()

		if hook == "" {
			continue
		}
		logrus.Info("[ TARGET_HOOK ] target: ", target.Name, " command: ", hook)
		var stderr string
		_, stderr, err = util.ExecLine(ctx, hook)
		if err != nil {
			logrus.Warn("Hook failed for ", target.Name, ": ", err, " ", stderr)
			err = nil
		}
	}

	return
}
