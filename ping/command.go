package ping

import (
	"strconv"
	"strings"
)

// DefaultExecutable is resolved through PATH by the runner.
const DefaultExecutable = "ping"

// Command is a single invocation of the ping executable.
type Command struct {
	Executable string
	Host       string
	Flags      []Flag
}

// SimpleCommand renders "<exe> -c <count> -W <timeoutSeconds> <host>". Values are not
// range checked.
func SimpleCommand(host string, count, timeoutSeconds int) Command {
	return Command{
		Executable: DefaultExecutable,
		Host:       host,
		Flags: []Flag{
			{Name: FlagCount, Value: strconv.Itoa(count)},
			{Name: FlagTimeout, Value: strconv.Itoa(timeoutSeconds)},
		},
	}
}

// NewCommand renders one flag per option followed by the host.
func NewCommand(host string, opts Options) Command {
	return Command{
		Executable: DefaultExecutable,
		Host:       host,
		Flags:      opts.Flags(),
	}
}

// WithExecutable returns a copy of c that invokes path instead.
func (c Command) WithExecutable(path string) Command {
	if path != "" {
		c.Executable = path
	}
	return c
}

// Args returns the argument vector, executable excluded.
func (c Command) Args() []string {
	args := make([]string, 0, len(c.Flags)*2+1)
	for _, f := range c.Flags {
		args = append(args, "-"+f.Name, f.Value)
	}
	return append(args, c.Host)
}

// String returns the literal invocation. Neither host nor values are quoted, so the result
// must never be handed to a shell when any part of it comes from untrusted input.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Executable)
	for _, f := range c.Flags {
		b.WriteString(" -")
		b.WriteString(f.Name)
		b.WriteString(" ")
		b.WriteString(f.Value)
	}
	b.WriteString(" ")
	b.WriteString(c.Host)
	return b.String()
}

// CommandBuilder accumulates options for a host. Setters overwrite earlier values for the
// same flag and return the builder for chaining.
type CommandBuilder struct {
	host       string
	executable string
	opts       Options
}

// NewCommandBuilder starts an empty option set for host using DefaultExecutable.
func NewCommandBuilder(host string) *CommandBuilder {
	return &CommandBuilder{host: host, executable: DefaultExecutable}
}

// Count is the number of echo requests, -c.
func (b *CommandBuilder) Count(n int) *CommandBuilder {
	b.opts.set(FlagCount, n)
	return b
}

// TimeoutSeconds is the per reply timeout, -W.
func (b *CommandBuilder) TimeoutSeconds(n int) *CommandBuilder {
	b.opts.set(FlagTimeout, n)
	return b
}

// PacketSize is the payload size in bytes, -s.
func (b *CommandBuilder) PacketSize(n int) *CommandBuilder {
	b.opts.set(FlagPacketSize, n)
	return b
}

// TimeToLive sets the IP TTL, -t.
func (b *CommandBuilder) TimeToLive(n int) *CommandBuilder {
	b.opts.set(FlagTTL, n)
	return b
}

// Interface binds to an interface name or source address, -I. An empty value removes it.
func (b *CommandBuilder) Interface(iface string) *CommandBuilder {
	if iface == "" {
		delete(b.opts.Extra, FlagInterface)
		return b
	}
	return b.Flag(FlagInterface, iface)
}

// Flag sets an arbitrary "-key value" option.
func (b *CommandBuilder) Flag(key, value string) *CommandBuilder {
	b.opts.setExtra(key, value)
	return b
}

// Executable replaces the program invoked, an empty path keeps DefaultExecutable.
func (b *CommandBuilder) Executable(path string) *CommandBuilder {
	b.executable = path
	return b
}

// Options returns a copy of the accumulated options.
func (b *CommandBuilder) Options() Options {
	return b.opts.Clone()
}

// Build renders the accumulated options into a Command. The builder stays usable.
func (b *CommandBuilder) Build() Command {
	return NewCommand(b.host, b.opts.Clone()).WithExecutable(b.executable)
}
