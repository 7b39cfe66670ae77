package util

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Exec runs command with args directly, without a shell, and returns what it wrote. Output
// captured before a non-zero exit or a context cancellation is still returned.
func Exec(ctx context.Context, command string, args ...string) (stdout, stderr string, err error) {
	logrus.Tracef("EXEC: %v %v", command, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, command, args...)
	var outb, errb bytes.Buffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb

	err = cmd.Run()
	stdout = outb.String()
	stderr = errb.String()

	return
}

// ExecLine splits line on whitespace and runs it with Exec. Used for hook commands from the
// configuration file.
func ExecLine(ctx context.Context, line string) (stdout, stderr string, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	return Exec(ctx, fields[0], fields[1:]...)
}
