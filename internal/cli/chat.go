// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/medichat-tui/internal/config"
	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/model"
)

const userPrompt = "you> "

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor whose history lives in the data directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from disk.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads one line and records it in the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// PromptWithSuggestion reads one line starting from text.
func (c *ChatCLI) PromptWithSuggestion(prompt, text string) (string, error) {
	input, err := c.line.PromptWithSuggestion(prompt, text, -1)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// lineEditor is the input side of the REPL. ChatCLI satisfies it.
type lineEditor interface {
	Prompt(prompt string) (string, error)
	PromptWithSuggestion(prompt, text string) (string, error)
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
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

	key, err := requireCredential(context.Background(), env)
	if err != nil {
		return err
	}
	sess, err := env.NewSession(key, stderrNotifier(os.Stderr))
	if err != nil {
		return err
	}
	defer sess.Close()

	editor := NewChatCLI()
	defer editor.Close()

	r := &repl{
		ctrl:     sess.Controller,
		in:       editor,
		out:      os.Stdout,
		errOut:   os.Stderr,
		markdown: env.Config.UI.Markdown,
		width:    GetTerminalWidth(),
		spinner:  !args.Quiet,
	}
	return r.run()
}

// repl is the line-mode conversation loop.
type repl struct {
	ctrl     *conversation.Controller
	in       lineEditor
	out      io.Writer
	errOut   io.Writer
	markdown bool
	width    int
	spinner  bool
}

func (r *repl) run() error {
	r.banner()
	for {
		input, err := r.in.Prompt(PromptStyle.Render(userPrompt))
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case err != nil:
			return err
		}

		if quit, err := r.handle(input); quit || err != nil {
			return err
		}
	}
}

// handle processes one line. It reports whether the loop should end.
func (r *repl) handle(input string) (bool, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		r.send(input)
		return false, nil
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true, nil
	case "/help", "/h", "/?":
		r.help()
	case "/history":
		r.history()
	case "/quick":
		if len(fields) == 1 {
			r.listQuickReplies()
			break
		}
		n, err := strconv.Atoi(fields[1])
		replies := r.ctrl.QuickReplies()
		if err != nil || n < 1 || n > len(replies) {
			fmt.Fprintln(r.errOut, WarningStyle.Render("No quick question "+fields[1]+"."))
			break
		}
		r.ctrl.SetDraft(replies[n-1])
		r.send(r.ctrl.Draft())
	case "/voice", "/v":
		return false, r.voice()
	default:
		fmt.Fprintln(r.errOut, WarningStyle.Render("Unknown command "+fields[0]+". Type /help."))
	}
	return false, nil
}

// send runs one turn. ctrl+c cancels the request, which settles it with
// the fallback reply.
func (r *repl) send(text string) {
	turn, err := r.ctrl.Begin(text)
	if err != nil {
		return
	}

	ctx, stop := signal.NotifyContext(r.ctrl.Context(), os.Interrupt)
	defer stop()

	var result conversation.Result
	run := func() { result = r.ctrl.Execute(ctx, turn) }
	if r.spinner {
		withSpinner(r.errOut, "Thinking", run)
	} else {
		run()
	}
	r.printMessage(r.ctrl.Settle(turn, result))
}

func (r *repl) voice() error {
	ctx, stop := signal.NotifyContext(r.ctrl.Context(), os.Interrupt)
	defer stop()

	if r.ctrl.SpeechAvailable() {
		fmt.Fprintln(r.errOut, DimStyle.Render("Listening... speak now (ctrl+c to stop)"))
	}
	draft, err := r.ctrl.CaptureVoice(ctx)
	if err != nil || draft == "" {
		return nil
	}

	// The transcript is only a draft; the user confirms it with enter
	input, err := r.in.PromptWithSuggestion(PromptStyle.Render(userPrompt), draft)
	if errors.Is(err, liner.ErrPromptAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	r.send(input)
	return nil
}

func (r *repl) banner() {
	fmt.Fprintln(r.out, TitleStyle.Render("MediChat AI")+DimStyle.Render("  Medical Assistant. Not for emergencies."))
	fmt.Fprintln(r.out, DimStyle.Render("Type /help for commands, /quit to leave."))
	fmt.Fprintln(r.out)
	for _, msg := range r.ctrl.Messages() {
		r.printMessage(msg)
	}
	r.listQuickReplies()
}

func (r *repl) listQuickReplies() {
	replies := r.ctrl.QuickReplies()
	if len(replies) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("Quick questions are offered before the first message only."))
		return
	}
	fmt.Fprintln(r.out, DimStyle.Render("Quick questions to get started (/quick N):"))
	for i, q := range replies {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, q)
	}
	fmt.Fprintln(r.out)
}

func (r *repl) history() {
	for _, msg := range r.ctrl.Messages() {
		fmt.Fprintf(r.out, "%s %s: %s\n",
			DimStyle.Render(msg.Clock()), msg.Sender.DisplayName(), msg.Preview(r.width-24))
	}
}

func (r *repl) printMessage(msg model.Message) {
	if msg.IsUser() {
		return
	}
	fmt.Fprintln(r.out, AssistantStyle.Render(msg.Sender.DisplayName()+":"))
	fmt.Fprintln(r.out, renderReply(msg.Content, r.markdown, r.width))
	fmt.Fprintln(r.out)
}

func (r *repl) help() {
	fmt.Fprintln(r.out, `Commands:
  /voice        Dictate a message (edit it, then press enter)
  /quick [N]    List quick questions or ask number N
  /history      Show the conversation so far
  /help         Show this help
  /quit         Leave the chat

ctrl+c cancels a pending reply; ctrl+d leaves.`)
}
