// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/medichat-tui/internal/conversation"
)

// maxStdinQuery bounds a question piped on stdin.
const maxStdinQuery = 64 * 1024

// HandleAsk handles the "ask" command: one question, one answer.
func HandleAsk(args Args) error {
	query := args.Query
	if strings.TrimSpace(query) == "" && !IsTTY() {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, maxStdinQuery))
		if err != nil {
			return fmt.Errorf("failed to read question from stdin: %w", err)
		}
		query = string(b)
	}
	if strings.TrimSpace(query) == "" {
		return ErrNoQuery
	}

	env, err := LoadEnvironment(args)
	if err != nil {
		return err
	}
	defer env.Close()

	closeLog, err := SetupLogging(env.Config, false, args.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := askOptions{
		quiet:    args.Quiet || !IsStdoutTTY(),
		markdown: env.Config.UI.Markdown && IsStdoutTTY(),
		width:    GetTerminalWidth(),
	}
	return runAsk(ctx, env, query, opts, os.Stdout, os.Stderr)
}

type askOptions struct {
	quiet    bool
	markdown bool
	width    int
}

func runAsk(ctx context.Context, env *Environment, query string, opts askOptions, out, errOut io.Writer) error {
	key, err := requireCredential(ctx, env)
	if err != nil {
		return err
	}
	sess, err := env.NewSession(key, stderrNotifier(errOut))
	if err != nil {
		return err
	}
	defer sess.Close()

	turn, err := sess.Controller.Begin(query)
	if err != nil {
		return err
	}

	var result conversation.Result
	run := func() { result = sess.Controller.Execute(ctx, turn) }
	if opts.quiet {
		run()
	} else {
		withSpinner(errOut, "Thinking", run)
	}
	reply := sess.Controller.Settle(turn, result)

	fmt.Fprintln(out, renderReply(reply.Content, opts.markdown, opts.width))
	if result.Err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, result.Err)
	}
	return nil
}

// renderReply renders an assistant reply for the terminal.
func renderReply(content string, markdown bool, width int) string {
	if !markdown {
		return content
	}
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// stderrNotifier prints controller notifications to w.
func stderrNotifier(w io.Writer) conversation.Notifier {
	return conversation.NotifierFunc(func(n conversation.Notification) {
		style := DimStyle
		switch n.Kind {
		case conversation.NotifyError:
			style = ErrorStyle
		case conversation.NotifyWarning:
			style = WarningStyle
		case conversation.NotifySuccess:
			style = SuccessStyle
		}
		fmt.Fprintf(w, "%s %s\n", style.Render(n.Title+":"), n.Description)
	})
}
