package ping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleCommand(t *testing.T) {
	tests := []struct {
		host    string
		count   int
		timeout int
		want    string
	}{
		{"www.example.com", 1, 1, "ping -c 1 -W 1 www.example.com"},
		{"10.0.0.1", 4, 2, "ping -c 4 -W 2 10.0.0.1"},
		{"::1", 0, -3, "ping -c 0 -W -3 ::1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cmd := SimpleCommand(tt.host, tt.count, tt.timeout)
			s := cmd.String()

			assert.Equal(t, tt.want, s)
			assert.True(t, strings.HasSuffix(s, tt.host))
			assert.Equal(t, tt.host, cmd.Args()[len(cmd.Args())-1])
		})
	}
}

func TestCommandWithExecutable(t *testing.T) {
	cmd := SimpleCommand("host", 1, 1).WithExecutable("/system/bin/ping")
	assert.Equal(t, "/system/bin/ping -c 1 -W 1 host", cmd.String())

	// empty path keeps the current executable
	assert.Equal(t, cmd, cmd.WithExecutable(""))
}

func TestCommandArgs(t *testing.T) {
	cmd := NewCommandBuilder("example.org").Count(3).TimeoutSeconds(2).Build()
	assert.Equal(t, "ping", cmd.Executable)
	assert.Equal(t, []string{"-c", "3", "-W", "2", "example.org"}, cmd.Args())
}

func TestNewCommandNoOptions(t *testing.T) {
	assert.Equal(t, "ping host", NewCommand("host", Options{}).String())
}

func TestCommandBuilder(t *testing.T) {
	cmd := NewCommandBuilder("1.1.1.1").
		Count(1).
		TimeoutSeconds(5).
		PacketSize(56).
		TimeToLive(64).
		Count(3).
		TimeoutSeconds(2).
		Build()

	assert.Equal(t, "ping -c 3 -W 2 -s 56 -t 64 1.1.1.1", cmd.String())

	s := cmd.String()
	for _, token := range []string{"-c ", "-W ", "-s ", "-t "} {
		assert.Equal(t, 1, strings.Count(s, token), token)
	}
}

func TestCommandBuilderLastSetterWins(t *testing.T) {
	b := NewCommandBuilder("host").Count(4).Flag("c", "9")
	assert.Equal(t, "ping -c 9 host", b.Build().String())
	assert.Nil(t, b.Options().Count)

	b.Count(2)
	assert.Equal(t, "ping -c 2 host", b.Build().String())
	assert.NotContains(t, b.Options().Extra, "c")
}

func TestCommandBuilderInterface(t *testing.T) {
	b := NewCommandBuilder("host").Interface("eth0").Flag("n", "").Executable("/bin/ping")
	assert.Equal(t, "/bin/ping -I eth0 -n  host", b.Build().String())

	b.Interface("")
	assert.Equal(t, "/bin/ping -n  host", b.Build().String())
}

func TestCommandBuilderOptionsCopy(t *testing.T) {
	b := NewCommandBuilder("host").Count(1).Flag("i", "0.2")
	opts := b.Options()
	require.NotNil(t, opts.Count)

	*opts.Count = 10
	opts.Extra["i"] = "5"

	assert.Equal(t, "ping -c 1 -i 0.2 host", b.Build().String())
}

func TestOptionsFlagsOrder(t *testing.T) {
	size := 120
	opts := Options{
		PacketSize: &size,
		Extra:      map[string]string{"q": "", "D": "", "I": "eth1"},
	}

	want := []Flag{{"s", "120"}, {"D", ""}, {"I", "eth1"}, {"q", ""}}
	assert.Equal(t, want, opts.Flags())
	// repeated rendering of the same options is stable
	assert.Equal(t, opts.Flags(), opts.Flags())
}

func TestOptionsExtraShadowsField(t *testing.T) {
	count := 1
	opts := Options{Count: &count, Extra: map[string]string{"c": "7"}}
	assert.Equal(t, []Flag{{"c", "7"}}, opts.Flags())
}

func TestCommandBuilderEmptyExecutable(t *testing.T) {
	b := NewCommandBuilder("host").Executable("").Count(1)
	assert.Equal(t, DefaultExecutable, b.Build().Executable)
	// building twice gives the same command
	assert.Equal(t, b.Build(), b.Build())
	assert.Equal(t, DefaultExecutable, NewProber("").Command(b.Build()).Executable)
}
