// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/medichat-tui/internal/config"
	"github.com/jeranaias/medichat-tui/internal/credential"
)

// HandleSetup handles the "setup" command: it stores the API key and
// writes a default config file when none exists.
func HandleSetup(args Args) error {
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

	var read func() (string, error)
	if IsTTY() {
		read = func() (string, error) { return promptSecure(os.Stdout, "Gemini API key: ") }
	} else {
		read = lineReaderFunc(os.Stdin)
	}
	return runSetup(context.Background(), env, read, os.Stdout)
}

func runSetup(ctx context.Context, env *Environment, read func() (string, error), out io.Writer) error {
	fmt.Fprintln(out, TitleStyle.Render("MediChat AI setup"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "How to get your API key:")
	fmt.Fprintln(out, "  1. Visit https://aistudio.google.com/app/apikey")
	fmt.Fprintln(out, "  2. Sign in with your Google account")
	fmt.Fprintln(out, "  3. Click \"Create API Key\" and copy it")
	fmt.Fprintln(out)
	fmt.Fprintln(out, DimStyle.Render("The key is stored locally in "+env.Store.Path()+" and never shared."))
	fmt.Fprintln(out)

	candidate, err := read()
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	key, err := env.Gate.Submit(ctx, candidate)
	switch {
	case errors.Is(err, credential.ErrEmptyCredential):
		return fmt.Errorf("no key entered: %w", err)
	case errors.Is(err, credential.ErrCredentialTooShort):
		return fmt.Errorf("key rejected, it needs at least %d characters: %w", credential.MinLength, err)
	case err != nil:
		return err
	}

	fmt.Fprintln(out, SuccessStyle.Render("API key saved")+DimStyle.Render(" (fingerprint "+credential.Fingerprint(key)+")"))

	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.SaveTOML(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(out, DimStyle.Render("Wrote default configuration to "+path))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'medichat' to start chatting.")
	return nil
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

var inputMutex sync.Mutex

// promptSecure reads sensitive input without echoing it.
func promptSecure(out io.Writer, prompt string) (string, error) {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// lineReaderFunc returns a reader of single lines from r.
func lineReaderFunc(r io.Reader) func() (string, error) {
	br := bufio.NewReader(r)
	return func() (string, error) {
		inputMutex.Lock()
		defer inputMutex.Unlock()
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

// =============================================================================
// SPINNER
// =============================================================================

// withSpinner shows a spinner on w while fn runs.
func withSpinner(w io.Writer, msg string, fn func()) {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()

	frames := []rune{'|', '/', '-', '\\'}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	fmt.Fprintf(w, "%s... ", msg)
	for i := 0; ; i++ {
		select {
		case <-done:
			fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(msg)+6))
			return
		case <-ticker.C:
			fmt.Fprintf(w, "\r%s... %c", msg, frames[i%len(frames)])
		}
	}
}
