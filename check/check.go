package check

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thetooth/execping/ping"
)

type Check interface {
	Target() string
	Source() string
	SetSource(string) error
	Command() ping.Command
	Probe(context.Context) error
	Statistics() *Statistics
}

// Statistics represent the stats of the probes run so far by a check
type Statistics struct {
	// PacketsRecv is the number of packets received over all probes.
	PacketsRecv int

	// PacketsSent is the number of packets sent over all probes.
	PacketsSent int

	// PacketLoss is the percentage of packets lost by the latest probe.
	PacketLoss float64

	// Addr is the host being pinged.
	Addr string

	// Source is the address ping binds to, empty when unbound.
	Source string

	// MinRtt is the minimum round-trip time of the latest probe.
	MinRtt time.Duration

	// MaxRtt is the maximum round-trip time of the latest probe.
	MaxRtt time.Duration

	// AvgRtt is the average round-trip time of the latest probe.
	AvgRtt time.Duration

	// SmoothedRtt is the exponentially weighted average of AvgRtt over all probes that
	// received a reply.
	SmoothedRtt time.Duration

	Probes   int
	Failures int

	LastRun   uuid.UUID
	LastProbe time.Time
	Answer    *ping.Answer
}
