package util

import (
	"context"
	"net"
	"os/exec"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cidrs(t *testing.T, list ...string) (addrs []net.Addr) {
	for _, s := range list {
		ip, n, err := net.ParseCIDR(s)
		require.NoError(t, err)
		n.IP = ip
		addrs = append(addrs, n)
	}
	return
}

func TestPickAddr(t *testing.T) {
	addrs := cidrs(t, "fe80::1/64", "192.0.2.7/24", "2001:db8::7/64", "169.254.1.1/16")

	addr, err := pickAddr(addrs, false, "eth0")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.7", addr)

	addr, err = pickAddr(addrs, true, "eth0")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::7", addr)

	addr, err = pickAddr(cidrs(t, "fe80::1/64"), true, "eth0")
	require.NoError(t, err)
	assert.Equal(t, "fe80::1", addr)

	_, err = pickAddr(cidrs(t, "fe80::1/64"), false, "eth0")
	assert.Equal(t, ErrNoAddress, errors.Cause(err))
}

func TestIsIPv6(t *testing.T) {
	assert.True(t, IsIPv6("::1"))
	assert.True(t, IsIPv6("2001:db8::1"))
	assert.False(t, IsIPv6("192.0.2.1"))
	assert.False(t, IsIPv6("example.org"))
}

func TestSourceAddrUnknownInterface(t *testing.T) {
	_, err := SourceAddr("does-not-exist0", false)
	assert.Error(t, err)
}

func TestExec(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available on PATH")
	}

	stdout, stderr, err := Exec(context.Background(), "echo", "-n", "a; b")
	require.NoError(t, err)
	// arguments reach the program verbatim, no shell is involved
	assert.Equal(t, "a; b", stdout)
	assert.Empty(t, stderr)

	stdout, _, err = ExecLine(context.Background(), "echo -n hello   world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", stdout)

	stdout, _, err = ExecLine(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestExecMissing(t *testing.T) {
	_, _, err := Exec(context.Background(), "/nonexistent/binary")
	assert.Error(t, err)
}
