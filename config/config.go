package config

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/thetooth/execping/ping"
	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultCount    = 1
	DefaultTimeout  = time.Second
)

// Load reads the configuration file at path. The format follows the extension: .toml,
// .yaml/.yml, anything else is JSON. Defaults are applied and the result validated.
func Load(path string) (cfg *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	cfg, err = Decode(data, filepath.Ext(path))
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s", path)
	}

	return
}

// Decode parses data in the format named by ext.
func Decode(data []byte, ext string) (cfg *Config, err error) {
	cfg = &Config{}

	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return
}

type Config struct {
	Executable string            `json:"executable" toml:"executable" yaml:"executable"`
	LogLevel   string            `json:"log_level" toml:"log_level" yaml:"log_level"`
	Interval   Interval          `json:"interval" toml:"interval" yaml:"interval"`
	Targets    map[string]Target `json:"targets" toml:"targets" yaml:"targets"`
}

type Target struct {
	Host       string            `json:"host" toml:"host" yaml:"host"`
	Count      int               `json:"count" toml:"count" yaml:"count"`
	Timeout    Interval          `json:"timeout" toml:"timeout" yaml:"timeout"`
	PacketSize int               `json:"packet_size,omitempty" toml:"packet_size" yaml:"packet_size,omitempty"`
	TTL        int               `json:"ttl,omitempty" toml:"ttl" yaml:"ttl,omitempty"`
	Interface  string            `json:"interface,omitempty" toml:"interface" yaml:"interface,omitempty"`
	Flags      map[string]string `json:"flags,omitempty" toml:"flags" yaml:"flags,omitempty"`

	LossThreshold float64  `json:"loss_threshold" toml:"loss_threshold" yaml:"loss_threshold"`
	RTTThreshold  Interval `json:"rtt_threshold" toml:"rtt_threshold" yaml:"rtt_threshold"`

	OnDown string `json:"on_down,omitempty" toml:"on_down" yaml:"on_down,omitempty"`
	OnUp   string `json:"on_up,omitempty" toml:"on_up" yaml:"on_up,omitempty"`
}

// SetDefaults fills unset values. A target without a host pings its own name.
func (c *Config) SetDefaults() {
	if c.Executable == "" {
		c.Executable = ping.DefaultExecutable
	}
	if c.Interval.Duration == 0 {
		c.Interval.Duration = DefaultInterval
	}
	for name, target := range c.Targets {
		if target.Host == "" {
			target.Host = name
		}
		if target.Count == 0 {
			target.Count = DefaultCount
		}
		if target.Timeout.Duration == 0 {
			target.Timeout.Duration = DefaultTimeout
		}
		c.Targets[name] = target
	}
}

// Validate checks the configuration and converts target hosts to their ASCII form.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("at least one target must be specified")
	}
	if c.Interval.Duration <= 0 {
		return errors.New("interval must be positive")
	}

	for name, target := range c.Targets {
		if target.Host == "" {
			return errors.Errorf("target %s: host cannot be empty", name)
		}
		if net.ParseIP(target.Host) == nil {
			host, err := idna.Lookup.ToASCII(target.Host)
			if err != nil {
				return errors.Wrapf(err, "target %s: invalid host %q", name, target.Host)
			}
			target.Host = host
		}
		if target.Count <= 0 {
			return errors.Errorf("target %s: count must be positive", name)
		}
		if target.Timeout.Duration < time.Second {
			return errors.Errorf("target %s: timeout must be at least 1s", name)
		}
		// ping -W takes whole seconds
		if target.Timeout.Duration%time.Second != 0 {
			return errors.Errorf("target %s: timeout %s is not a whole number of seconds", name, target.Timeout.Duration)
		}
		if target.LossThreshold < 0 || target.LossThreshold > 100 {
			return errors.Errorf("target %s: loss threshold must be between 0 and 100", name)
		}
		c.Targets[name] = target
	}

	return nil
}

// Options converts the target into ping options.
func (t Target) Options() ping.Options {
	b := ping.NewCommandBuilder(t.Host)
	for k, v := range t.Flags {
		b.Flag(k, v)
	}
	b.Count(t.Count).TimeoutSeconds(int(t.Timeout.Seconds()))
	if t.PacketSize > 0 {
		b.PacketSize(t.PacketSize)
	}
	if t.TTL > 0 {
		b.TimeToLive(t.TTL)
	}
	return b.Options()
}

// Deadline bounds a whole probe of the target: every reply timeout plus a second of slack.
func (t Target) Deadline() time.Duration {
	return time.Duration(t.Count)*t.Timeout.Duration + time.Second
}

type Interval struct {
	time.Duration
}

func (d *Interval) UnmarshalJSON(data []byte) (err error) {
	var pstr string
	err = json.Unmarshal(data, &pstr)
	if err != nil {
		return err
	}
	d.Duration, err = time.ParseDuration(pstr)
	return
}

func (d Interval) MarshalJSON() (data []byte, err error) {
	s := d.Duration.String()
	data, err = json.Marshal(s)
	return
}

func (d *Interval) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

func (d Interval) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Interval) UnmarshalYAML(value *yaml.Node) (err error) {
	var pstr string
	if err = value.Decode(&pstr); err != nil {
		return
	}
	d.Duration, err = time.ParseDuration(pstr)
	return
}

func (d Interval) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}
