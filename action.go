package main

import (
	"errors"

	"github.com/samber/lo"

	"github.com/ossyrian/hdrpack/internal/config"
)

type actionKind int

const (
	actionPack actionKind = iota + 1
	actionUnpack
)

// action is one fully resolved request: either pack inputs into archive, or
// unpack archive.
type action struct {
	kind     actionKind
	archive  string
	inputs   []string
	warnings []string
}

var (
	errNoAction  = errors.New("nothing to do")
	errNoInputs  = errors.New("specify files to pack")
	errNoOutput  = errors.New("specify an action (--unpack or --out)")
	errBothModes = errors.New("--unpack and --out cannot be used together")
)

// resolveAction decides what to do from the configuration and the positional
// arguments. Duplicate inputs are dropped, keeping the first occurrence.
func resolveAction(cfg *config.Config, args []string) (action, error) {
	switch {
	case cfg.Unpack != "" && cfg.Output != "":
		return action{}, errBothModes

	case cfg.Unpack != "":
		a := action{kind: actionUnpack, archive: cfg.Unpack}
		if len(args) > 0 {
			a.warnings = append(a.warnings, "do not specify input files when unpacking")
		}
		return a, nil

	case len(args) == 0 && cfg.Output == "":
		return action{}, errNoAction

	case len(args) == 0:
		return action{}, errNoInputs

	case cfg.Output == "":
		return action{}, errNoOutput
	}

	return action{
		kind:    actionPack,
		archive: cfg.Output,
		inputs:  lo.Uniq(args),
	}, nil
}
