// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/medichat-tui/internal/credential"
)

// KeyStatus is the JSON shape of "key show --json".
type KeyStatus struct {
	Stored      bool   `json:"stored"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Masked      string `json:"masked,omitempty"`
	Store       string `json:"store"`
}

// HandleKey handles the "key" command.
func HandleKey(args Args) error {
	env, err := LoadEnvironment(args)
	if err != nil {
		return err
	}
	defer env.Close()
	return runKey(context.Background(), env, args.Subcommand, args.JSON, os.Stdout)
}

func runKey(ctx context.Context, env *Environment, sub string, asJSON bool, out io.Writer) error {
	switch sub {
	case "", "show", "status":
		status := KeyStatus{Store: env.Store.Path()}
		key, err := env.Credential(ctx)
		switch {
		case err == nil:
			status.Stored = true
			status.Fingerprint = credential.Fingerprint(key)
			status.Masked = credential.Mask(key)
		case !errors.Is(err, credential.ErrNotStored):
			return err
		}

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}
		if !status.Stored {
			fmt.Fprintln(out, WarningStyle.Render("No API key stored.")+" Run 'medichat setup' to add one.")
			return nil
		}
		fmt.Fprintln(out, labelValue("Key", status.Masked))
		fmt.Fprintln(out, labelValue("Fingerprint", status.Fingerprint))
		fmt.Fprintln(out, labelValue("Store", status.Store))
		return nil

	case "clear", "delete", "rm":
		if err := env.Gate.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, SuccessStyle.Render("API key removed"))
		return nil

	default:
		return &UsageError{Command: "key", Reason: fmt.Sprintf("unknown subcommand %q", sub)}
	}
}
