package uci

import (
	"fmt"
	"strconv"
)

// Option is one UCI-reported engine setting. The `setoption` command
// handler looks an Option up by UciName and calls Set with the raw
// string argument after "value" (button options get an empty string,
// since they carry none).
type Option interface {
	UciName() string
	UciString() string
	Set(s string) error
}

// BoolOption is UCI's "check" type: on/off, reported as true/false.
type BoolOption struct {
	Name  string
	Value *bool
}

func (opt *BoolOption) UciName() string { return opt.Name }

func (opt *BoolOption) UciString() string {
	return fmt.Sprintf("option name %s type check default %t", opt.Name, *opt.Value)
}

func (opt *BoolOption) Set(s string) error {
	switch s {
	case "true", "1", "on":
		*opt.Value = true
	case "false", "0", "off":
		*opt.Value = false
	default:
		return fmt.Errorf("uci: %q is not a bool value for option %s", s, opt.Name)
	}
	return nil
}

// IntOption is UCI's "spin" type: a bounded integer, reported with its
// allowed range so a GUI can build a slider.
type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value *int
}

func (opt *IntOption) UciName() string { return opt.Name }

func (opt *IntOption) UciString() string {
	return fmt.Sprintf("option name %s type spin default %d min %d max %d",
		opt.Name, *opt.Value, opt.Min, opt.Max)
}

func (opt *IntOption) Set(s string) error {
	var v, err = strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("uci: option %s: %w", opt.Name, err)
	}
	if v < opt.Min {
		v = opt.Min
	}
	if v > opt.Max {
		v = opt.Max
	}
	*opt.Value = v
	return nil
}

// ButtonOption is UCI's "button" type: stateless, no value, triggered
// by a bare `setoption name <Name>` with no `value` clause. Action
// runs once per Set call; a nil Action makes the button a no-op.
type ButtonOption struct {
	Name   string
	Action func()
}

func (opt *ButtonOption) UciName() string { return opt.Name }

func (opt *ButtonOption) UciString() string {
	return fmt.Sprintf("option name %s type button", opt.Name)
}

func (opt *ButtonOption) Set(string) error {
	if opt.Action != nil {
		opt.Action()
	}
	return nil
}
