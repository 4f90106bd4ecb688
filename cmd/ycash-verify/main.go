// ycash-verify inspects the consensus upgrade schedule and validates Sapling
// bundles from JSON files.
//
// Usage:
//
//	ycash-verify upgrades --network test
//	ycash-verify branch --height 419200
//	ycash-verify fixture --out ./demo --spends 500 --outputs 300,100
//	ycash-verify verify --spend-vk demo/spend.vk --output-vk demo/output.vk demo/bundles.json
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"ycashcore/internal/config"
	"ycashcore/internal/consensus"
	"ycashcore/internal/logging"
)

var Version = "dev"

// appState is filled by the Before hook and read by the commands.
type appState struct {
	cfg *config.Config
	log *logging.Logger
}

func (s *appState) params() consensus.Network {
	return s.cfg.Params()
}

func newApp(out, errOut io.Writer) *cli.App {
	state := &appState{}

	app := cli.NewApp()
	app.Name = "ycash-verify"
	app.Usage = "ycash consensus upgrade and sapling bundle verification tool"
	app.Version = Version
	app.Writer = out
	app.ErrWriter = errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Flags = []cli.Flag{configFlag, networkFlag, logLevelFlag, logFileFlag}
	app.Commands = []*cli.Command{
		branchCommand(state),
		upgradesCommand(state),
		verifyCommand(state),
		fixtureCommand(state),
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String(configFlag.Name))
		if err != nil {
			return err
		}
		if ctx.IsSet(networkFlag.Name) {
			cfg.Network = ctx.String(networkFlag.Name)
		}
		if ctx.IsSet(logLevelFlag.Name) {
			cfg.LogLevel = ctx.String(logLevelFlag.Name)
		}
		if ctx.IsSet(logFileFlag.Name) {
			cfg.LogFile = ctx.String(logFileFlag.Name)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logging.Setup(cfg.LogLevel, cfg.LogFile, errOut)
		if err != nil {
			return err
		}
		state.cfg = cfg
		state.log = log
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if state.log != nil {
			return state.log.Close()
		}
		return nil
	}
	return app
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
