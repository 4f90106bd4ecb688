package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"ycashcore/internal/consensus"
	"ycashcore/internal/sapling"
	"ycashcore/internal/sapling/saplingtest"
	"ycashcore/internal/validation"
)

func branchCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "branch",
		Usage: "print the consensus branch in force at a height",
		Flags: []cli.Flag{heightFlag},
		Action: func(ctx *cli.Context) error {
			height, err := consensus.HeightFromUint64(ctx.Uint64(heightFlag.Name))
			if err != nil {
				return err
			}
			p := state.params()
			branch := consensus.BranchForHeight(p, height)
			fmt.Fprintf(ctx.App.Writer, "%s\t0x%08x\tzip216=%t\n",
				branch, branch.Uint32(), consensus.ZIP216Enabled(p, height))
			return nil
		},
	}
}

func upgradesCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "upgrades",
		Usage: "print the network upgrade schedule",
		Flags: []cli.Flag{heightFlag},
		Action: func(ctx *cli.Context) error {
			p := state.params()

			t := table.NewWriter()
			t.SetOutputMirror(ctx.App.Writer)
			t.SetTitle(fmt.Sprintf("%s network upgrades", p))
			header := table.Row{"upgrade", "branch id", "activation"}

			var height consensus.BlockHeight
			withHeight := ctx.IsSet(heightFlag.Name)
			if withHeight {
				h, err := consensus.HeightFromUint64(ctx.Uint64(heightFlag.Name))
				if err != nil {
					return err
				}
				height = h
				header = append(header, fmt.Sprintf("active at %s", h))
			}
			t.AppendHeader(header)

			for _, nu := range consensus.UpgradesInOrder() {
				activation := "-"
				if h, ok := p.ActivationHeight(nu); ok {
					activation = h.String()
				}
				row := table.Row{nu, fmt.Sprintf("0x%08x", nu.BranchID().Uint32()), activation}
				if withHeight {
					row = append(row, p.IsActive(nu, height))
				}
				t.AppendRow(row)
			}
			t.Render()
			return nil
		},
	}
}

func verifyCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "validate sapling bundles from JSON files",
		ArgsUsage: "<bundles.json>...",
		Flags:     []cli.Flag{heightFlag, spendVKFlag, outputVKFlag, concurrencyFlag},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() == 0 {
				return fmt.Errorf("missing bundle file")
			}
			cfg := state.cfg

			spendPath, outputPath := cfg.SpendVKPath, cfg.OutputVKPath
			if ctx.IsSet(spendVKFlag.Name) {
				spendPath = ctx.String(spendVKFlag.Name)
			}
			if ctx.IsSet(outputVKFlag.Name) {
				outputPath = ctx.String(outputVKFlag.Name)
			}

			timer := state.log.Start("load verifying keys")
			spendVK, err := sapling.LoadVerifyingKey(spendPath)
			if err != nil {
				return fmt.Errorf("spend verifying key: %w", err)
			}
			outputVK, err := sapling.LoadVerifyingKey(outputPath)
			if err != nil {
				return fmt.Errorf("output verifying key: %w", err)
			}
			timer.Stop()

			var bundles []*validation.Bundle
			for _, path := range ctx.Args().Slice() {
				bs, err := readBundles(path)
				if err != nil {
					return err
				}
				bundles = append(bundles, bs...)
			}
			if ctx.IsSet(heightFlag.Name) {
				h, err := consensus.HeightFromUint64(ctx.Uint64(heightFlag.Name))
				if err != nil {
					return err
				}
				for _, b := range bundles {
					b.Height = h
				}
			}

			opts := []validation.Option{validation.WithLogger(state.log.Logger)}
			var reg *prometheus.Registry
			if cfg.Metrics {
				reg = prometheus.NewRegistry()
				m, err := validation.NewMetrics(reg)
				if err != nil {
					return err
				}
				opts = append(opts, validation.WithMetrics(m))
			}
			v := validation.NewValidator(state.params(), spendVK, outputVK, opts...)

			concurrency := cfg.MaxConcurrency
			if ctx.IsSet(concurrencyFlag.Name) {
				concurrency = ctx.Int(concurrencyFlag.Name)
			}
			results, err := v.ValidateBatch(ctx.Context, bundles, concurrency)
			if err != nil {
				return err
			}

			rejected := printResults(ctx, bundles, results)
			if reg != nil {
				if err := printMetrics(ctx, reg); err != nil {
					return err
				}
			}
			if rejected > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d bundles rejected", rejected, len(bundles)), 2)
			}
			return nil
		},
	}
}

// readBundles accepts a single bundle object or an array of them.
func readBundles(path string) ([]*validation.Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		var bundles []*validation.Bundle
		if err := json.Unmarshal(raw, &bundles); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return bundles, nil
	}
	var b validation.Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []*validation.Bundle{&b}, nil
}

func printResults(ctx *cli.Context, bundles []*validation.Bundle, results []validation.Result) int {
	t := table.NewWriter()
	t.SetOutputMirror(ctx.App.Writer)
	t.AppendHeader(table.Row{"bundle", "height", "branch", "spends", "outputs", "result", "reason"})

	rejected := 0
	for i, res := range results {
		b := bundles[i]
		id := res.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}
		status, reason := "valid", ""
		if !res.Valid() {
			rejected++
			status, reason = "invalid", validation.Reason(res.Err)
		}
		t.AppendRow(table.Row{id, b.Height, res.Branch, len(b.Spends), len(b.Outputs), status, reason})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "rejected", rejected})
	t.Render()
	return rejected
}

func printMetrics(ctx *cli.Context, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(ctx.App.Writer)
	t.AppendHeader(table.Row{"metric", "labels", "value"})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var value any
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = fmt.Sprintf("n=%d sum=%.4fs", m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			default:
				continue
			}
			t.AppendRow(table.Row{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	t.Render()
	return nil
}

func fixtureCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:  "fixture",
		Usage: "generate stand-in verifying keys and a signed sample bundle",
		Description: "Compiles circuits with the spend and output public-input layouts, " +
			"runs a local Groth16 setup and writes spend.vk, output.vk and bundles.json.",
		Flags: []cli.Flag{outFlag, heightFlag, spendsFlag, outputsFlag},
		Action: func(ctx *cli.Context) error {
			dir := ctx.String(outFlag.Name)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			height := consensus.BlockHeight(0)
			if ctx.IsSet(heightFlag.Name) {
				h, err := consensus.HeightFromUint64(ctx.Uint64(heightFlag.Name))
				if err != nil {
					return err
				}
				height = h
			} else if h, ok := state.params().ActivationHeight(consensus.Sapling); ok {
				height = h
			}

			timer := state.log.Start("groth16 setup")
			f, err := saplingtest.NewFixture()
			if err != nil {
				return err
			}
			timer.Stop()

			tx, err := f.Transaction(ctx.Uint64Slice(spendsFlag.Name), ctx.Uint64Slice(outputsFlag.Name))
			if err != nil {
				return err
			}
			bundle, err := tx.Bundle("fixture", height)
			if err != nil {
				return err
			}

			if err := sapling.SaveVerifyingKey(filepath.Join(dir, "spend.vk"), f.Spends.VK); err != nil {
				return err
			}
			if err := sapling.SaveVerifyingKey(filepath.Join(dir, "output.vk"), f.Outputs.VK); err != nil {
				return err
			}
			raw, err := json.MarshalIndent([]*validation.Bundle{bundle}, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, "bundles.json"), raw, 0o644); err != nil {
				return err
			}

			state.log.Info().
				Str("dir", dir).
				Stringer("height", height).
				Int64("value_balance", int64(tx.ValueBalance)).
				Msg("fixture written")
			return nil
		},
	}
}
