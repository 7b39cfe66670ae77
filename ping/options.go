package ping

import (
	"sort"
	"strconv"
)

// Flag names understood by iputils ping.
const (
	FlagCount      = "c"
	FlagTimeout    = "W"
	FlagPacketSize = "s"
	FlagTTL        = "t"
	FlagInterface  = "I"
)

// Flag is a single rendered command line option, "-Name Value".
type Flag struct {
	Name  string
	Value string
}

// Options is the set of flags passed to the ping executable. A nil field is omitted from the
// command line. Extra carries free-form flags keyed by flag name without the leading dash.
type Options struct {
	Count      *int
	Timeout    *int // seconds
	PacketSize *int
	TTL        *int

	Extra map[string]string
}

// Clone returns a copy that shares no state with o.
func (o Options) Clone() Options {
	c := Options{
		Count:      copyInt(o.Count),
		Timeout:    copyInt(o.Timeout),
		PacketSize: copyInt(o.PacketSize),
		TTL:        copyInt(o.TTL),
	}
	if len(o.Extra) > 0 {
		c.Extra = make(map[string]string, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Flags renders the options in a stable order: count, timeout, packet size, ttl, then the
// extra flags sorted by name. A key set both as a field and in Extra renders once, from Extra.
func (o Options) Flags() (flags []Flag) {
	fixed := []struct {
		name  string
		value *int
	}{
		{FlagCount, o.Count},
		{FlagTimeout, o.Timeout},
		{FlagPacketSize, o.PacketSize},
		{FlagTTL, o.TTL},
	}
	for _, f := range fixed {
		if f.value == nil {
			continue
		}
		if _, ok := o.Extra[f.name]; ok {
			continue
		}
		flags = append(flags, Flag{Name: f.name, Value: strconv.Itoa(*f.value)})
	}

	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flags = append(flags, Flag{Name: k, Value: o.Extra[k]})
	}

	return
}

// set assigns a fixed field by flag name, reporting false for names without a field.
func (o *Options) set(name string, v int) bool {
	p := &v
	switch name {
	case FlagCount:
		o.Count = p
	case FlagTimeout:
		o.Timeout = p
	case FlagPacketSize:
		o.PacketSize = p
	case FlagTTL:
		o.TTL = p
	default:
		return false
	}
	delete(o.Extra, name)
	return true
}

// setExtra stores a free-form flag and clears any fixed field with the same name.
func (o *Options) setExtra(name, value string) {
	switch name {
	case FlagCount:
		o.Count = nil
	case FlagTimeout:
		o.Timeout = nil
	case FlagPacketSize:
		o.PacketSize = nil
	case FlagTTL:
		o.TTL = nil
	}
	if o.Extra == nil {
		o.Extra = make(map[string]string)
	}
	o.Extra[name] = value
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
