package decision

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thetooth/execping/check"
	"github.com/thetooth/execping/config"
	"github.com/thetooth/execping/ping"
	"github.com/thetooth/execping/util"
)

// Target is a composite type containing configuration and current runtime state
type Target struct {
	*sync.RWMutex
	Cfg config.Target

	Name         string
	Operational  bool
	FailCount    int
	SuccessCount int
	LastChange   time.Time
	Check        check.Check

	// sourceAddr resolves the bind address of an interface; replaced in tests
	sourceAddr func(iface string, ipv6 bool) (string, error)
}

// BuildTargets takes in the unmarshalled configuration and initializes a list of targets sorted by name
func BuildTargets(cfg *config.Config, prober *ping.Prober) (targets []*Target) {
	for name, targetConfig := range cfg.Targets {
		pinger := check.NewPinger(targetConfig.Host, prober, targetConfig.Options())
		pinger.Deadline = targetConfig.Deadline()

		targets = append(targets, &Target{
			RWMutex:     &sync.RWMutex{},
			Cfg:         targetConfig,
			Name:        name,
			Operational: true,
			LastChange:  time.Now(),
			Check:       pinger,
			sourceAddr:  util.SourceAddr,
		})
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Name < targets[j].Name
	})

	return
}

// IsUp reports whether the latest probe stayed within the loss and average RTT thresholds.
// bindErr is the result of the Bind preceding the probe, a failed bind fails the target.
func (t *Target) IsUp(bindErr error) bool {
	if bindErr != nil {
		if t.Operational {
			logrus.Warn("[ TARGET_FAIL ] No address, is the interface up? target: ", t.Name, " error: ", bindErr)
		}
		t.markDown()
		return false
	}

	s := t.Check.Statistics()
	rttExceeded := t.Cfg.RTTThreshold.Duration > 0 && s.AvgRtt > t.Cfg.RTTThreshold.Duration
	if s.Answer == nil || s.PacketLoss > t.Cfg.LossThreshold || rttExceeded {
		if t.Operational {
			logrus.Warn("[ TARGET_FAIL ] target: ", t.Name, " host: ", t.Cfg.Host, " loss: ", s.PacketLoss, " rtt: ", s.AvgRtt)
		}
		t.markDown()
		return false
	}

	if !t.Operational {
		logrus.Info("[ TARGET_SUCCESS ] target: ", t.Name, " host: ", t.Cfg.Host)
		t.LastChange = time.Now()
		t.SuccessCount++
	}
	t.Operational = true

	return true
}

func (t *Target) markDown() {
	if t.Operational {
		t.LastChange = time.Now()
		t.FailCount++
	}
	t.Operational = false
}

// Bind keeps the check's source address in line with the configured interface
func (t *Target) Bind() (err error) {
	if t.Cfg.Interface == "" {
		return
	}

	src, err := t.sourceAddr(t.Cfg.Interface, util.IsIPv6(t.Cfg.Host))
	if err != nil {
		t.Check.SetSource("")
		return
	}

	if t.Check.Source() != src {
		logrus.Debug("Binding target ", t.Name, " to ", src)
		err = t.Check.SetSource(src)
	}

	return
}
