package statistics

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetooth/execping/config"
	"github.com/thetooth/execping/decision"
	"github.com/thetooth/execping/ping"
)

type staticRunner string

func (r staticRunner) Output(ctx context.Context, name string, args ...string) string {
	return string(r)
}

func buildTargets(t *testing.T) []*decision.Target {
	cfg := &config.Config{
		Interval: config.Interval{Duration: time.Second},
		Targets: map[string]config.Target{
			"gateway": {Host: "10.0.0.1", Count: 2, Timeout: config.Interval{Duration: time.Second}},
		},
	}
	runner := staticRunner(`--- 10.0.0.1 ping statistics ---
2 packets transmitted, 1 received, 50% packet loss, time 1001ms
rtt min/avg/max/mdev = 3.000/4.000/5.000/1.000 ms
`)
	targets := decision.BuildTargets(cfg, &ping.Prober{Runner: runner})
	require.NoError(t, decision.Evaluate(context.Background(), targets))
	return targets
}

func TestBuild(t *testing.T) {
	stats := Build(buildTargets(t))
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, "gateway", s.Name)
	assert.Equal(t, "10.0.0.1", s.Host)
	assert.False(t, s.Operational)
	assert.Equal(t, 1, s.FailCount)
	assert.Equal(t, 1, s.Probes)
	assert.Equal(t, 2, s.PacketsSent)
	assert.Equal(t, 1, s.PacketsRecv)
	assert.Equal(t, 50.0, s.PacketLoss)
	assert.Equal(t, 4*time.Millisecond, s.AvgRtt.Duration)
	assert.NotEmpty(t, s.LastRun)
	require.NotNil(t, s.Answer)
	assert.Equal(t, 5.0, s.Answer.RTTMax)
}

func TestBuildEmpty(t *testing.T) {
	b, err := json.Marshal(Build(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "execping.json")
	require.NoError(t, Write(path, Build(buildTargets(t))))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "4ms", decoded[0]["avg_rtt"])
	assert.Equal(t, "1s", decoded[0]["check"].(map[string]interface{})["timeout"])
	assert.Equal(t, 50.0, decoded[0]["answer"].(map[string]interface{})["loss_percent"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteMissingDir(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "stats.json"), Statistics{})
	assert.Error(t, err)
}
