package main

import (
	"github.com/urfave/cli/v2"

	"ycashcore/internal/config"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "path to a config file (yaml, json or toml)",
		EnvVars: []string{config.EnvPrefix + "_CONFIG"},
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "network whose rules apply: main or test",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "also append JSON log lines to this file",
	}
	heightFlag = &cli.Uint64Flag{
		Name:  "height",
		Usage: "block height",
	}
	spendVKFlag = &cli.StringFlag{
		Name:  "spend-vk",
		Usage: "spend circuit verifying key, overrides spend_vk_path",
	}
	outputVKFlag = &cli.StringFlag{
		Name:  "output-vk",
		Usage: "output circuit verifying key, overrides output_vk_path",
	}
	concurrencyFlag = &cli.IntFlag{
		Name:  "concurrency",
		Usage: "bundles verified in parallel, overrides max_concurrency",
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "directory receiving the generated files",
		Value: ".",
	}
	spendsFlag = &cli.Uint64SliceFlag{
		Name:  "spends",
		Usage: "values of the generated spends",
	}
	outputsFlag = &cli.Uint64SliceFlag{
		Name:  "outputs",
		Usage: "values of the generated outputs",
	}
)
