// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/medichat-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	env, err := LoadEnvironment(args)
	if err != nil {
		return err
	}
	defer env.Close()
	force := NewArgParser(args.Raw).BoolFlag("force")
	return runConfig(env, args.Subcommand, args.ConfigKey, args.JSON, force, os.Stdout)
}

func runConfig(env *Environment, sub, key string, asJSON, force bool, out io.Writer) error {
	cfg := env.Config

	switch sub {
	case "", "show":
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}
		fmt.Fprint(out, cfg.String())
		return nil

	case "path", "paths":
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		tomlPath, _ := config.ConfigPathTOML()
		paths := map[string]string{
			"data_dir": dir,
			"config":   tomlPath,
			"storage":  cfg.StoragePath(),
			"log":      cfg.LogPath(),
		}
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(paths)
		}
		for _, k := range []string{"data_dir", "config", "storage", "log"} {
			v := paths[k]
			if v == "" {
				v = DimStyle.Render("(none)")
			}
			fmt.Fprintln(out, labelValue(k, v))
		}
		return nil

	case "get":
		if key == "" {
			return &UsageError{Command: "config get", Reason: "missing key, e.g. gemini.model"}
		}
		v, err := cfg.Get(key)
		if err != nil {
			return &UsageError{Command: "config get", Reason: err.Error()}
		}
		if asJSON {
			return json.NewEncoder(out).Encode(v)
		}
		fmt.Fprintln(out, v)
		return nil

	case "init":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(out, SuccessStyle.Render("Wrote ")+path)
		return nil

	default:
		return &UsageError{Command: "config", Reason: fmt.Sprintf("unknown subcommand %q", sub)}
	}
}
