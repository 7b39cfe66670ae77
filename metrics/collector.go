package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thetooth/execping/decision"
)

const prefix = "execping_"

var (
	packetLossDesc *prometheus.Desc
	rttMinDesc     *prometheus.Desc
	rttAvgDesc     *prometheus.Desc
	rttMaxDesc     *prometheus.Desc
	jitterDesc     *prometheus.Desc
	statusDesc     *prometheus.Desc
	probesDesc     *prometheus.Desc
	failuresDesc   *prometheus.Desc
)

func init() {
	l := []string{"target", "host"}
	packetLossDesc = prometheus.NewDesc(prefix+"packet_loss", "Packet loss of the latest probe: 0~100", l, nil)
	rttMinDesc = prometheus.NewDesc(prefix+"rtt_min_ms", "Minimum rtt of the latest probe", l, nil)
	rttAvgDesc = prometheus.NewDesc(prefix+"rtt_avg_ms", "Average rtt of the latest probe", l, nil)
	rttMaxDesc = prometheus.NewDesc(prefix+"rtt_max_ms", "Maximum rtt of the latest probe", l, nil)
	jitterDesc = prometheus.NewDesc(prefix+"jitter_ms", "Max-min rtt of the latest probe", l, nil)
	statusDesc = prometheus.NewDesc(prefix+"status", "Status of the target, 0-down 1-up", l, nil)
	probesDesc = prometheus.NewDesc(prefix+"probes_total", "Number of probes run", l, nil)
	failuresDesc = prometheus.NewDesc(prefix+"probe_failures_total", "Number of probes without a ping answer", l, nil)
}

// Collector exposes the state of decision targets.
type Collector struct {
	mu      sync.RWMutex
	targets []*decision.Target
}

func NewCollector(targets []*decision.Target) *Collector {
	return &Collector{targets: targets}
}

// SetTargets replaces the collected targets, used after a configuration reload.
func (c *Collector) SetTargets(targets []*decision.Target) {
	c.mu.Lock()
	c.targets = targets
	c.mu.Unlock()
}

func (*Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- packetLossDesc
	ch <- rttMinDesc
	ch <- rttAvgDesc
	ch <- rttMaxDesc
	ch <- jitterDesc
	ch <- statusDesc
	ch <- probesDesc
	ch <- failuresDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	targets := c.targets
	c.mu.RUnlock()

	for _, target := range targets {
		target.RLock()
		l := []string{target.Name, target.Cfg.Host}
		s := target.Check.Statistics()
		status := 0.0
		if target.Operational {
			status = 1
		}
		target.RUnlock()

		ch <- prometheus.MustNewConstMetric(statusDesc, prometheus.GaugeValue, status, l...)
		ch <- prometheus.MustNewConstMetric(probesDesc, prometheus.CounterValue, float64(s.Probes), l...)
		ch <- prometheus.MustNewConstMetric(failuresDesc, prometheus.CounterValue, float64(s.Failures), l...)
		if s.Probes == 0 {
			continue
		}
		ch <- prometheus.MustNewConstMetric(packetLossDesc, prometheus.GaugeValue, s.PacketLoss, l...)

		a := s.Answer
		if a == nil || !a.Reachable() {
			continue
		}
		ch <- prometheus.MustNewConstMetric(rttMinDesc, prometheus.GaugeValue, a.RTTMin, l...)
		ch <- prometheus.MustNewConstMetric(rttAvgDesc, prometheus.GaugeValue, a.RTTAvg, l...)
		ch <- prometheus.MustNewConstMetric(rttMaxDesc, prometheus.GaugeValue, a.RTTMax, l...)
		ch <- prometheus.MustNewConstMetric(jitterDesc, prometheus.GaugeValue, a.RTTMax-a.RTTMin, l...)
	}
}
