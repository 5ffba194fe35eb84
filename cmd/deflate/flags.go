package main

import (
	"github.com/chronos-tachyon/deflate"
	getopt "github.com/pborman/getopt/v2"
)

// type FormatFlag {{{

// FormatFlag implements getopt.Value for deflate.Format.
type FormatFlag struct {
	Value deflate.Format
}

// Set fulfills getopt.Value.
func (flag *FormatFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag FormatFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*FormatFlag)(nil)

// }}}

// type StrategyFlag {{{

// StrategyFlag implements getopt.Value for deflate.Strategy.
type StrategyFlag struct {
	Value deflate.Strategy
}

// Set fulfills getopt.Value.
func (flag *StrategyFlag) Set(str string, opt getopt.Option) error {
	return flag.Value.Parse(str)
}

// String fulfills getopt.Value.
func (flag StrategyFlag) String() string {
	return flag.Value.String()
}

var _ getopt.Value = (*StrategyFlag)(nil)

// }}}
