package statistics

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/thetooth/execping/config"
	"github.com/thetooth/execping/decision"
	"github.com/thetooth/execping/ping"
)

type Statistics []TargetStat

type TargetStat struct {
	Name   string        `json:"name"`
	Host   string        `json:"host"`
	Source string        `json:"source"`
	Check  config.Target `json:"check"`

	Operational  bool `json:"operational"`
	LastChange   int  `json:"last_change"`
	FailCount    int  `json:"fail_count"`
	SuccessCount int  `json:"success_count"`

	Probes      int             `json:"probes"`
	Failures    int             `json:"failures"`
	LastRun     string          `json:"last_run,omitempty"`
	LastProbe   int             `json:"last_probe"`
	PacketsRecv int             `json:"packets_recv"`
	PacketsSent int             `json:"packets_sent"`
	PacketLoss  float64         `json:"packet_loss"`
	MinRtt      config.Interval `json:"min_rtt"`
	MaxRtt      config.Interval `json:"max_rtt"`
	AvgRtt      config.Interval `json:"avg_rtt"`
	SmoothedRtt config.Interval `json:"smoothed_rtt"`
	Answer      *ping.Answer    `json:"answer"`
}

func Build(targets []*decision.Target) (stats Statistics) {
	stats = Statistics{}
	for _, target := range targets {
		target.RLock()
		s := target.Check.Statistics()
		t := TargetStat{
			Name:   target.Name,
			Host:   target.Cfg.Host,
			Source: s.Source,
			Check:  target.Cfg,

			Operational:  target.Operational,
			LastChange:   int(target.LastChange.Unix()),
			FailCount:    target.FailCount,
			SuccessCount: target.SuccessCount,

			Probes:      s.Probes,
			Failures:    s.Failures,
			PacketsRecv: s.PacketsRecv,
			PacketsSent: s.PacketsSent,
			PacketLoss:  s.PacketLoss,
			MinRtt:      config.Interval{Duration: s.MinRtt},
			MaxRtt:      config.Interval{Duration: s.MaxRtt},
			AvgRtt:      config.Interval{Duration: s.AvgRtt},
			SmoothedRtt: config.Interval{Duration: s.SmoothedRtt},
			Answer:      s.Answer,
		}
		if s.Probes > 0 {
			t.LastRun = s.LastRun.String()
			t.LastProbe = int(s.LastProbe.Unix())
		}
		target.RUnlock()

		stats = append(stats, t)
	}

	return
}

// Write replaces the file at path with the JSON encoding of stats.
func Write(path string, stats Statistics) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "failed to encode statistics")
	}

	// Write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(path), ".execping-*")
	if err != nil {
		return errors.Wrap(err, "failed to write statistics")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write statistics")
	}
	if err = tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write statistics")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write statistics")
	}

	return errors.Wrapf(os.Rename(tmp.Name(), path), "failed to replace %s", path)
}
