package ping

import "fmt"

// Answer is the summary printed by ping after its statistics marker. RTT fields stay zero
// when the utility prints no rtt line, which is the case at 100% loss.
type Answer struct {
	Transmitted int     `json:"transmitted"`
	Received    int     `json:"received"`
	Loss        float64 `json:"loss_percent"`
	RTTMin      float64 `json:"rtt_min_ms"`
	RTTAvg      float64 `json:"rtt_avg_ms"`
	RTTMax      float64 `json:"rtt_max_ms"`
}

// Reachable reports whether at least one reply came back.
func (a Answer) Reachable() bool {
	return a.Received > 0
}

func (a Answer) String() string {
	return fmt.Sprintf("Answer{transmitted=%d, received=%d, loss=%v, rttMin=%v, rttAvg=%v, rttMax=%v}",
		a.Transmitted, a.Received, a.Loss, a.RTTMin, a.RTTAvg, a.RTTMax)
}
