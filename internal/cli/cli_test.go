// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/medichat-tui/internal/config"
	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/credential"
	"github.com/jeranaias/medichat-tui/internal/gemini"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		check   func(t *testing.T, a Args)
	}{
		{
			name:    "no args starts the TUI",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:    "ask joins the question",
			argv:    []string{"ask", "how", "to", "reduce", "fever?"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, a Args) {
				if a.Query != "how to reduce fever?" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name:    "global flags anywhere",
			argv:    []string{"-q", "ask", "--model", "gemini-pro", "hi", "--json"},
			wantCmd: CmdAsk,
			check: func(t *testing.T, a Args) {
				if !a.Quiet || !a.JSON || a.Model != "gemini-pro" || a.Query != "hi" {
					t.Errorf("unexpected args: %+v", a)
				}
			},
		},
		{
			name:    "transport with equals",
			argv:    []string{"chat", "--transport=sdk"},
			wantCmd: CmdChat,
			check: func(t *testing.T, a Args) {
				if a.Transport != "sdk" {
					t.Errorf("Transport = %q", a.Transport)
				}
			},
		},
		{
			name:    "key subcommand",
			argv:    []string{"key", "clear"},
			wantCmd: CmdKey,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "clear" {
					t.Errorf("Subcommand = %q", a.Subcommand)
				}
			},
		},
		{
			name:    "config get key",
			argv:    []string{"config", "get", "gemini.model"},
			wantCmd: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "get" || a.ConfigKey != "gemini.model" {
					t.Errorf("unexpected args: %+v", a)
				}
			},
		},
		{name: "setup", argv: []string{"setup"}, wantCmd: CmdSetup},
		{name: "version flag", argv: []string{"--version"}, wantCmd: CmdVersion},
		{name: "help flag", argv: []string{"-h"}, wantCmd: CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Fatalf("command = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"init", "--force", "--name", "x", "--level=3", "extra"})

	if p.Subcommand() != "init" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Positional(1) != "extra" || p.Positional(5) != "" {
		t.Errorf("positionals wrong: %q %q", p.Positional(1), p.Positional(5))
	}
	if !p.BoolFlag("force") || p.BoolFlag("missing") {
		t.Error("bool flags wrong")
	}
	if p.Flag("name") != "x" || p.Flag("--level") != "3" {
		t.Errorf("flags wrong: %q %q", p.Flag("name"), p.Flag("level"))
	}
}

func TestCommandString(t *testing.T) {
	if CmdAsk.String() != "ask" || CmdTUI.String() != "tui" || Command(99).String() != "unknown" {
		t.Error("unexpected command names")
	}
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Command: "key", Reason: "bad"}, ExitUsageError},
		{"no query", ErrNoQuery, ExitUsageError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{"transport", fmt.Errorf("%w: %q", gemini.ErrUnknownTransport, "grpc"), ExitConfigError},
		{"no key", fmt.Errorf("%w: run setup", credential.ErrNotStored), ExitAuthError},
		{"short key", credential.ErrCredentialTooShort, ExitAuthError},
		{"auth failed", fmt.Errorf("%w: %w", ErrRequestFailed, gemini.ErrAuthFailed), ExitAuthError},
		{"deadline", fmt.Errorf("%w: %w", ErrRequestFailed, context.DeadlineExceeded), ExitTimeoutError},
		{"request failed", fmt.Errorf("%w: %w", ErrRequestFailed, gemini.ErrMalformedResponse), ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeVersion(&buf, true); err != nil {
		t.Fatal(err)
	}
	var v VersionData
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v.Version != Version || v.GoVersion == "" {
		t.Errorf("unexpected version data: %+v", v)
	}
}

// =============================================================================
// TEST ENVIRONMENT
// =============================================================================

// fakeGemini serves generateContent and records the prompts it saw.
type fakeGemini struct {
	mu      sync.Mutex
	prompts []string
	status  int
	reply   string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req gemini.GenerateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, req.Contents[0].Parts[0].Text)
	}
	status, reply := f.status, f.reply
	f.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, reply)
}

func (f *fakeGemini) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// newTestEnv points the data directory at a temp dir and the client at srv.
func newTestEnv(t *testing.T, baseURL string) *Environment {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MEDICHAT_DATA_DIR", dir)
	t.Setenv("MEDICHAT_GEMINI_BASE_URL", baseURL)
	t.Setenv("MEDICHAT_GEMINI_MODEL", "")
	t.Setenv("MEDICHAT_GEMINI_TRANSPORT", "")
	t.Setenv("MEDICHAT_SPEECH_COMMAND", "")
	t.Setenv("MEDICHAT_LOCALE", "")
	t.Setenv("MEDICHAT_LOG_FILE", "")

	env, err := LoadEnvironment(Args{})
	if err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

func storeKey(t *testing.T, env *Environment) string {
	t.Helper()
	key, err := env.Gate.Submit(context.Background(), "  aVeryLongKey1234  ")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return key
}

// =============================================================================
// KEY AND CONFIG COMMANDS
// =============================================================================

func TestRunKeyShowAndClear(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")
	ctx := context.Background()

	var out bytes.Buffer
	if err := runKey(ctx, env, "show", false, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No API key stored") {
		t.Errorf("expected missing-key message, got %q", out.String())
	}

	key := storeKey(t, env)

	out.Reset()
	if err := runKey(ctx, env, "", true, &out); err != nil {
		t.Fatal(err)
	}
	var status KeyStatus
	if err := json.Unmarshal(out.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if !status.Stored || status.Fingerprint != credential.Fingerprint(key) {
		t.Errorf("unexpected status: %+v", status)
	}
	if strings.Contains(out.String(), key) {
		t.Error("key show must not print the key")
	}

	out.Reset()
	if err := runKey(ctx, env, "clear", false, &out); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Credential(ctx); !errors.Is(err, credential.ErrNotStored) {
		t.Errorf("after clear: err = %v, want ErrNotStored", err)
	}

	err := runKey(ctx, env, "rotate", false, &out)
	var usageErr *UsageError
	if !errors.As(err, &usageErr) {
		t.Errorf("unknown subcommand: err = %v, want UsageError", err)
	}
}

func TestRunConfig(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	var out bytes.Buffer
	if err := runConfig(env, "get", "gemini.model", false, false, &out); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != gemini.DefaultModel {
		t.Errorf("config get gemini.model = %q", out.String())
	}

	out.Reset()
	if err := runConfig(env, "path", "", true, false, &out); err != nil {
		t.Fatal(err)
	}
	var paths map[string]string
	if err := json.Unmarshal(out.Bytes(), &paths); err != nil {
		t.Fatal(err)
	}
	if paths["storage"] != env.Store.Path() {
		t.Errorf("storage path = %q, want %q", paths["storage"], env.Store.Path())
	}

	out.Reset()
	if err := runConfig(env, "init", "", false, false, &out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("MEDICHAT_DATA_DIR"), "config.toml")); err != nil {
		t.Errorf("config.toml not written: %v", err)
	}
	if err := runConfig(env, "init", "", false, false, &out); err == nil {
		t.Error("init without --force should refuse to overwrite")
	}
	if err := runConfig(env, "init", "", false, true, &out); err != nil {
		t.Errorf("init --force: %v", err)
	}

	if err := runConfig(env, "get", "", false, false, &out); GetExitCode(err) != ExitUsageError {
		t.Errorf("get without key: err = %v", err)
	}
}

// =============================================================================
// SETUP
// =============================================================================

func TestRunSetup(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")
	ctx := context.Background()

	var out bytes.Buffer
	err := runSetup(ctx, env, lineReaderFunc(strings.NewReader("short\n")), &out)
	if !errors.Is(err, credential.ErrCredentialTooShort) {
		t.Fatalf("short key: err = %v", err)
	}
	if _, err := env.Credential(ctx); !errors.Is(err, credential.ErrNotStored) {
		t.Fatal("a rejected key must not be stored")
	}

	out.Reset()
	if err := runSetup(ctx, env, lineReaderFunc(strings.NewReader("aVeryLongKey1234")), &out); err != nil {
		t.Fatalf("runSetup: %v", err)
	}
	key, err := env.Credential(ctx)
	if err != nil || key != "aVeryLongKey1234" {
		t.Fatalf("stored key = %q, %v", key, err)
	}
	if !strings.Contains(out.String(), "API key saved") {
		t.Errorf("missing confirmation in %q", out.String())
	}
	if strings.Contains(out.String(), key) {
		t.Error("setup must not echo the key")
	}
}

// =============================================================================
// ASK
// =============================================================================

func TestRunAskSuccess(t *testing.T) {
	fake := &fakeGemini{reply: "Common cold symptoms include a runny nose."}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	env := newTestEnv(t, srv.URL)
	storeKey(t, env)

	var out, errOut bytes.Buffer
	err := runAsk(context.Background(), env, "What are common cold symptoms?", askOptions{quiet: true}, &out, &errOut)
	if err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	if strings.TrimSpace(out.String()) != fake.reply {
		t.Errorf("output = %q", out.String())
	}
	prompts := fake.Prompts()
	if len(prompts) != 1 || prompts[0] != gemini.BuildPrompt("What are common cold symptoms?") {
		t.Errorf("prompts = %q", prompts)
	}
}

func TestRunAskFailurePrintsFallback(t *testing.T) {
	fake := &fakeGemini{status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	env := newTestEnv(t, srv.URL)
	storeKey(t, env)

	var out, errOut bytes.Buffer
	err := runAsk(context.Background(), env, "hello", askOptions{quiet: true}, &out, &errOut)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
	if GetExitCode(err) != ExitNetworkError {
		t.Errorf("exit code = %d", GetExitCode(err))
	}
	if strings.TrimSpace(out.String()) != conversation.FallbackReply {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Failed to get response") {
		t.Errorf("notification missing from stderr: %q", errOut.String())
	}
}

func TestRunAskWithoutKey(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	var out, errOut bytes.Buffer
	err := runAsk(context.Background(), env, "hello", askOptions{quiet: true}, &out, &errOut)
	if !errors.Is(err, credential.ErrNotStored) {
		t.Fatalf("err = %v, want ErrNotStored", err)
	}
	if !strings.Contains(err.Error(), "medichat setup") {
		t.Errorf("error should point at setup: %v", err)
	}
}

// =============================================================================
// CHAT REPL
// =============================================================================

// scriptedEditor replays lines and then reports EOF.
type scriptedEditor struct {
	lines       []string
	suggestions []string
}

func (s *scriptedEditor) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedEditor) PromptWithSuggestion(_ string, text string) (string, error) {
	s.suggestions = append(s.suggestions, text)
	return text, nil
}

func newTestREPL(t *testing.T, fake *fakeGemini, lines ...string) (*repl, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	env := newTestEnv(t, srv.URL)
	key := storeKey(t, env)

	var out, errOut bytes.Buffer
	sess, err := env.NewSession(key, stderrNotifier(&errOut))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sess.Close() })

	return &repl{
		ctrl:   sess.Controller,
		in:     &scriptedEditor{lines: lines},
		out:    &out,
		errOut: &errOut,
		width:  80,
	}, &out, &errOut
}

func TestREPLQuickReplyThenQuit(t *testing.T) {
	fake := &fakeGemini{reply: "Clean the cut with water."}
	r, out, _ := newTestREPL(t, fake, "/quick 2", "/history", "/quit", "never read")

	if err := r.run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	prompts := fake.Prompts()
	if len(prompts) != 1 || prompts[0] != gemini.BuildPrompt("First aid for cuts") {
		t.Errorf("prompts = %q", prompts)
	}
	if r.ctrl.Len() != 3 {
		t.Errorf("log length = %d, want 3", r.ctrl.Len())
	}
	text := out.String()
	for _, want := range []string{"What are common cold symptoms?", "Clean the cut with water.", "First aid for cuts"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestREPLIgnoresBlankAndUnknown(t *testing.T) {
	fake := &fakeGemini{reply: "unused"}
	r, _, errOut := newTestREPL(t, fake, "   ", "/bogus", "/quick 9")

	if err := r.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fake.Prompts()) != 0 {
		t.Error("nothing should have been sent")
	}
	if r.ctrl.Len() != 1 {
		t.Errorf("log length = %d, want 1", r.ctrl.Len())
	}
	if !strings.Contains(errOut.String(), "Unknown command /bogus") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestREPLVoiceUnsupported(t *testing.T) {
	fake := &fakeGemini{reply: "unused"}
	r, _, errOut := newTestREPL(t, fake, "/voice")

	if err := r.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut.String(), "Not Supported") {
		t.Errorf("expected unsupported notification, got %q", errOut.String())
	}
	if ed := r.in.(*scriptedEditor); len(ed.suggestions) != 0 {
		t.Error("no draft should be offered without a recognizer")
	}
}

func TestREPLSendFailureShowsFallback(t *testing.T) {
	fake := &fakeGemini{status: http.StatusInternalServerError}
	r, out, errOut := newTestREPL(t, fake, "I have a headache")

	if err := r.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "having trouble connecting") {
		t.Errorf("fallback missing from output")
	}
	if !strings.Contains(errOut.String(), "Error:") {
		t.Errorf("error notification missing: %q", errOut.String())
	}
}
