package check

import (
	"context"
	"sync"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/thetooth/execping/ping"
)

// ErrNoAnswer is returned by Probe when ping printed no recognisable statistics.
var ErrNoAnswer = errors.New("no ping answer")

// NewPinger returns a check that probes addr through prober with the given options.
func NewPinger(addr string, prober *ping.Prober, opts ping.Options) *Pinger {
	return &Pinger{
		Options: opts.Clone(),

		addr:   addr,
		prober: prober,
		avgRtt: ewma.NewMovingAverage(),
	}
}

// Pinger runs the external ping utility once per Probe.
type Pinger struct {
	// Options are rendered into every command. The source address, when set, is added as -I.
	Options ping.Options

	// Deadline bounds a single probe, zero leaves it to the caller's context.
	Deadline time.Duration

	addr    string
	srcAddr string
	prober  *ping.Prober

	packetsSent int
	packetsRecv int
	probes      int
	failures    int
	lastRun     uuid.UUID
	lastProbe   time.Time
	answer      *ping.Answer
	avgRtt      ewma.MovingAverage
	statsMu     sync.RWMutex
}

// Command renders the invocation the next Probe will run.
func (p *Pinger) Command() ping.Command {
	opts := p.Options.Clone()
	if src := p.Source(); src != "" {
		if opts.Extra == nil {
			opts.Extra = make(map[string]string)
		}
		opts.Extra[ping.FlagInterface] = src
	}
	return p.prober.Command(ping.NewCommand(p.addr, opts))
}

// Probe runs ping once and folds the answer into the statistics.
func (p *Pinger) Probe(ctx context.Context) error {
	if p.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Deadline)
		defer cancel()
	}

	run := uuid.New()
	log := logrus.WithFields(logrus.Fields{"run": run, "target": p.addr})

	prober := *p.prober
	prober.Logger = log
	answer, ok := prober.Probe(ctx, p.Command())

	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	p.probes++
	p.lastRun = run
	p.lastProbe = time.Now()
	if !ok {
		p.failures++
		p.answer = nil
		return ErrNoAnswer
	}

	p.packetsSent += answer.Transmitted
	p.packetsRecv += answer.Received
	p.answer = &answer
	if answer.Reachable() {
		p.avgRtt.Add(answer.RTTAvg)
	}

	return nil
}

// Statistics returns a snapshot of the statistics. A probe without an answer counts as
// full loss.
func (p *Pinger) Statistics() *Statistics {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()

	s := Statistics{
		PacketsSent: p.packetsSent,
		PacketsRecv: p.packetsRecv,
		Addr:        p.addr,
		Source:      p.srcAddr,
		SmoothedRtt: millis(p.avgRtt.Value()),
		Probes:      p.probes,
		Failures:    p.failures,
		LastRun:     p.lastRun,
		LastProbe:   p.lastProbe,
	}
	if p.answer == nil {
		if p.probes > 0 {
			s.PacketLoss = 100
		}
		return &s
	}

	a := *p.answer
	s.Answer = &a
	s.PacketLoss = a.Loss
	s.MinRtt = millis(a.RTTMin)
	s.AvgRtt = millis(a.RTTAvg)
	s.MaxRtt = millis(a.RTTMax)

	return &s
}

// Target returns the host being pinged.
func (p *Pinger) Target() string {
	return p.addr
}

// SetSource sets the address ping binds to with -I, empty to unbind.
func (p *Pinger) SetSource(addr string) error {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.srcAddr = addr
	return nil
}

func (p *Pinger) Source() string {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.srcAddr
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
