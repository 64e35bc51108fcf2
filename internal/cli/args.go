// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "strings"

// ArgParser splits subcommand arguments into positionals and flags.
//
//	--flag value, --flag=value   string flags
//	--flag                       boolean flag
//	anything else                positional; the first is the subcommand
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw.
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if k, v, ok := strings.Cut(name, "="); ok {
			switch v {
			case "true", "false":
				p.boolFlags[k] = v == "true"
			default:
				p.flags[k] = v
			}
			continue
		}
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i++
			continue
		}
		p.boolFlags[name] = true
	}
	return p
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// Flag returns a string flag, or "".
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")]
}

// BoolFlag reports whether a boolean flag was set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[strings.TrimLeft(name, "-")]
}
