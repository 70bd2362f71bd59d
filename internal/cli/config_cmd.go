// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handlers for the parley CLI.
//
// Handles "parley config" subcommands: show, get, set, path. Keys use dot
// notation matching the TOML layout, e.g. groq.model or ui.theme.

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/parley/internal/config"
)

// RunConfig dispatches the config subcommands.
func RunConfig(args Args) int {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		cfg := loadConfig()
		fmt.Print(cfg.String())
		return 0

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			printError(err.Error())
			return 1
		}
		fmt.Println(path)
		return 0

	case "get":
		return configGet(parser)

	case "set":
		return configSet(parser)

	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Println(key)
		}
		return 0

	default:
		printError("unknown config subcommand: " + parser.Subcommand())
		fmt.Fprintln(os.Stderr, "Usage: parley config [show|get|set|path|keys]")
		return 1
	}
}

func configGet(parser *ArgParser) int {
	key := parser.Positional(0)
	if key == "" {
		printError("usage: parley config get <key>")
		return 1
	}

	cfg := loadConfig()
	value, err := cfg.Get(key)
	if err != nil {
		printError(err.Error())
		return 1
	}

	// Never print the raw API key.
	if key == "groq.api_key" {
		if s, ok := value.(string); ok && s != "" {
			fmt.Println("[REDACTED]")
			return 0
		}
	}
	fmt.Println(value)
	return 0
}

func configSet(parser *ArgParser) int {
	key := parser.Positional(0)
	value := parser.Positional(1)
	if key == "" || value == "" {
		printError("usage: parley config set <key> <value>")
		return 1
	}

	cfg := loadConfig()
	if err := cfg.Set(key, value); err != nil {
		printError(err.Error())
		return 1
	}
	if err := cfg.Validate(); err != nil {
		printError(err.Error())
		return 1
	}
	if err := config.Save(cfg); err != nil {
		printError("save: " + err.Error())
		return 1
	}
	fmt.Println(infoStyle.Render("Set " + key))
	return 0
}
