package ping

import (
	"context"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/thetooth/execping/util"
)

// Runner runs a program to completion and returns its standard output. Failures surface as
// empty or partial output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) string
}

// ExecRunner runs programs with util.Exec.
type ExecRunner struct {
	Logger logrus.FieldLogger
}

// Output runs name with args and returns its stdout, logging failures instead of returning them.
func (r ExecRunner) Output(ctx context.Context, name string, args ...string) string {
	stdout, stderr, err := util.Exec(ctx, name, args...)
	if err != nil {
		log := r.Logger
		if log == nil {
			log = logrus.StandardLogger()
		}
		entry := log.WithError(err).WithField("command", name)
		if _, ok := err.(*exec.ExitError); ok {
			// ping exits non-zero on loss but still prints its statistics
			entry.WithField("stderr", stderr).Debug("Ping exited with failure")
		} else {
			entry.Warn("Unable to run ping")
		}
	}
	return stdout
}

// Prober builds, runs and parses ping invocations.
type Prober struct {
	// Executable overrides the executable of every probed command when set.
	Executable string
	Runner     Runner
	Logger     logrus.FieldLogger
}

// NewProber returns a prober running executable, DefaultExecutable when empty.
func NewProber(executable string) *Prober {
	return &Prober{Executable: executable}
}

func (p *Prober) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

func (p *Prober) runner() Runner {
	if p.Runner == nil {
		return ExecRunner{Logger: p.Logger}
	}
	return p.Runner
}

// Command applies the prober executable to cmd.
func (p *Prober) Command(cmd Command) Command {
	return cmd.WithExecutable(p.Executable)
}

// Probe runs cmd and parses its output. The subprocess is killed when ctx is done; whatever
// it printed until then is still parsed.
func (p *Prober) Probe(ctx context.Context, cmd Command) (Answer, bool) {
	cmd = p.Command(cmd)
	log := p.logger().WithField("host", cmd.Host)
	log.Debug("Ping command: ", cmd)

	raw := p.runner().Output(ctx, cmd.Executable, cmd.Args()...)
	log.Trace("Ping output: ", raw)

	parser := Parser{Logger: log}
	answer, ok := parser.Parse(raw)
	if !ok {
		log.Debug("No ping answer")
		return answer, false
	}
	log.Debug(answer)

	return answer, true
}

// SimplePing probes host count times with a per reply timeout in seconds.
func (p *Prober) SimplePing(ctx context.Context, host string, count, timeoutSeconds int) (Answer, bool) {
	return p.Probe(ctx, SimpleCommand(host, count, timeoutSeconds))
}
