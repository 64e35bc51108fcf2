// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSetup
	CmdKey
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdSetup:
		return "setup"
	case CmdKey:
		return "key"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose   bool
	Quiet     bool
	JSON      bool
	Model     string
	Transport string

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string

	// Raw args after the command name
	Raw []string
}

const usageText = `medichat - medical information assistant for the terminal

Ask health questions and get general guidance from Google Gemini.
Not for emergencies: call 911 or your local emergency number.

Usage:
  medichat                     Start the TUI (default)
  medichat chat                Line-mode chat
  medichat ask "question"      Ask a single question
  medichat setup               Store your Gemini API key
  medichat key show            Show the stored key's fingerprint
  medichat key clear           Remove the stored key
  medichat config show         Print the effective configuration
  medichat config path         Print the config and data paths
  medichat config get KEY      Print one value (e.g. gemini.model)
  medichat config init         Write a default config.toml
  medichat version             Show version information
  medichat help                Show this help

Global flags:
  -m, --model NAME             Gemini model (overrides config)
  --transport rest|sdk         Client transport (overrides config)
  -v, --verbose                Log diagnostics to stderr
  -q, --quiet                  Minimal output
  --json                       JSON output for key show, config and version

Chat commands:
  /voice                       Dictate the next message
  /quick [N]                   List quick questions or ask number N
  /history                     Show the conversation so far
  /help                        Show chat commands
  /quit                        Leave the chat

TUI keys:
  enter send   ctrl+r voice   tab/shift+tab pick a quick question
  ctrl+o ask it   alt+1..6 ask directly   ctrl+x dismiss   esc back   ctrl+c quit

Files:
  ~/.medichat/config.toml      Configuration (MEDICHAT_DATA_DIR moves it)
  ~/.medichat/local.db         Stored API key
  .env                         Loaded before MEDICHAT_* overrides
`

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv without the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd, rest := remaining[0], remaining[1:]
	args.Raw = rest

	switch cmd {
	case "ask", "a":
		args.Query = strings.Join(positional(rest), " ")
		return CmdAsk, args
	case "chat", "c":
		return CmdChat, args
	case "setup", "init":
		return CmdSetup, args
	case "key", "keys":
		p := NewArgParser(rest)
		args.Subcommand = p.Subcommand()
		return CmdKey, args
	case "config", "cfg":
		p := NewArgParser(rest)
		args.Subcommand = p.Subcommand()
		args.ConfigKey = p.Positional(1)
		return CmdConfig, args
	case "version", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		args.Raw = remaining
		return CmdTUI, args
	}
}

// parseGlobalFlags extracts global flags from args and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "--json":
			args.JSON = true
		case (arg == "-m" || arg == "--model") && i+1 < len(argv):
			i++
			args.Model = argv[i]
		case strings.HasPrefix(arg, "--model="):
			args.Model = strings.TrimPrefix(arg, "--model=")
		case arg == "--transport" && i+1 < len(argv):
			i++
			args.Transport = argv[i]
		case strings.HasPrefix(arg, "--transport="):
			args.Transport = strings.TrimPrefix(arg, "--transport=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

func positional(argv []string) []string {
	var out []string
	for _, a := range argv {
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

// VersionData is the JSON shape of "version --json".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentVersion() VersionData {
	return VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	return writeVersion(os.Stdout, args.JSON)
}

func writeVersion(w io.Writer, asJSON bool) error {
	v := currentVersion()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprintf(w, "medichat %s\n", v.Version)
	fmt.Fprintf(w, "  commit:   %s\n", v.GitCommit)
	fmt.Fprintf(w, "  built:    %s\n", v.BuildDate)
	fmt.Fprintf(w, "  go:       %s (%s)\n", v.GoVersion, v.Platform)
	return nil
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}

