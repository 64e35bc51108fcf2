// medichat - a terminal medical information assistant backed by Gemini.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/medichat-tui/internal/cli"
	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/credential"
	"github.com/jeranaias/medichat-tui/internal/gemini"
	"github.com/jeranaias/medichat-tui/internal/ui/chat"
	"github.com/jeranaias/medichat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
	gemini.SetUserAgentVersion(Version)
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdSetup:
		err = cli.HandleSetup(args)
	case cli.CmdKey:
		err = cli.HandleKey(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		if len(args.Raw) > 0 {
			err = &cli.UsageError{Command: args.Raw[0], Reason: "unknown command"}
			break
		}
		err = runTUI(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.ErrorStyle.Render("Error:"), err)
		os.Exit(cli.GetExitCode(err))
	}
}

// runTUI starts the TUI interface.
func runTUI(args cli.Args) error {
	if err := cli.RequiresTTY("start the TUI"); err != nil {
		return fmt.Errorf("%w (try 'medichat ask' or 'medichat help')", err)
	}

	env, err := cli.LoadEnvironment(args)
	if err != nil {
		return err
	}
	defer env.Close()

	closeLog, err := cli.SetupLogging(env.Config, true, args.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	// Read once at mount; an absent key sends the user through the gate
	key, err := env.Credential(context.Background())
	if err != nil && !errors.Is(err, credential.ErrNotStored) {
		return err
	}

	theme := styles.NewTheme(env.Config.UI.Theme)
	newChat := func(key string) (chat.Model, io.Closer, error) {
		notes := &conversation.Recorder{}
		sess, err := env.NewSession(key, notes)
		if err != nil {
			return chat.Model{}, nil, err
		}
		return chat.New(chat.Options{
			Theme:          theme,
			Controller:     sess.Controller,
			Notifications:  notes,
			ShowTimestamps: env.Config.UI.ShowTimestamps,
			Markdown:       env.Config.UI.Markdown,
		}), sess, nil
	}

	m := NewModel(theme, env.Gate, key, newChat)
	defer m.Close()

	log.Printf("[main] starting TUI (key stored: %t)", key != "")

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running medichat: %w", err)
	}
	return nil
}
