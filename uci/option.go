package uci

import (
	"errors"
	"fmt"
	"strconv"
)

// Option is one entry in the engine's UCI option table, grounded in
// the teacher's uci/option.go: a tiny interface over the three things
// the "option" / "setoption" commands need.
type Option interface {
	UciName() string
	UciString() string
	Set(s string) error
}

// IntOption backs a UCI "spin" option with a pointer to the value it
// controls, so setting it takes effect on the very next read of *Value
// with no extra indirection.
type IntOption struct {
	Name         string
	Value        *int
	Min, Max     int
}

func (o *IntOption) UciName() string { return o.Name }

func (o *IntOption) UciString() string {
	return fmt.Sprintf("option name %s type spin default %d min %d max %d", o.Name, *o.Value, o.Min, o.Max)
}

func (o *IntOption) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < o.Min || v > o.Max {
		return errors.New("argument out of range")
	}
	*o.Value = v
	return nil
}

// BoolOption backs a UCI "check" option.
type BoolOption struct {
	Name  string
	Value *bool
}

func (o *BoolOption) UciName() string { return o.Name }

func (o *BoolOption) UciString() string {
	return fmt.Sprintf("option name %s type check default %v", o.Name, *o.Value)
}

func (o *BoolOption) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*o.Value = v
	return nil
}
