package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	stackgraph "github.com/viant/stackgraph"
	"github.com/viant/stackgraph/discovery"
	"github.com/viant/stackgraph/frontend/goref"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
	"github.com/viant/stackgraph/stitching"
	"github.com/viant/stackgraph/telemetry"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
)

func newCheckCmd() *cobra.Command {
	var timeout int

	cmd := &cobra.Command{
		Use:   "check <project-dir> <assertions.yaml>",
		Short: "Build a stack graph for a Go project and check an assertion file against it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], timeout)
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout-seconds", 0, "abort stitching after this many seconds (0 means no limit)")
	return cmd
}

func runCheck(cmd *cobra.Command, dir, assertionsPath string, timeoutSeconds int) error {
	ctx := context.Background()

	proj, err := discovery.DetectProject(dir)
	if err != nil {
		return err
	}
	sources, err := proj.Sources(ctx, afs.New())
	if err != nil {
		return err
	}

	g := graph.New()
	builder := goref.NewBuilder(g)
	for _, src := range sources {
		data, err := os.ReadFile(src.AbsPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", src.AbsPath, err)
		}
		if err := builder.ParseFile(src.RelPath, data); err != nil {
			return err
		}
	}
	builder.Link()

	assertions, err := loadAssertions(assertionsPath, g)
	if err != nil {
		return err
	}

	var cancel stackgraph.CancellationFlag = stackgraph.NoCancellation{}
	if timeoutSeconds > 0 {
		cancel = stackgraph.NewCancelAfterDuration(time.Duration(timeoutSeconds) * time.Second)
	}

	tracer, err := telemetry.NewProvider(telemetry.DefaultConfig(), nil)
	if err != nil {
		return err
	}
	defer tracer.Shutdown(ctx)

	db := stitching.NewDatabase()
	config := stitching.DefaultStitcherConfig()
	// Shared across precompute and every assertion below: partial path
	// variables are only ever unique within the PartialPaths that minted
	// them, and db's precomputed entries must compose safely with
	// whatever the assertion runs mint of their own.
	partials := partial.NewPartialPaths()

	for _, file := range g.Files() {
		err := telemetry.RunStitcher(ctx, tracer, g, config, func(ctx context.Context) error {
			return stitching.PrecomputeFile(g, db, partials, file, config, cancel)
		})
		if err != nil {
			return fmt.Errorf("precompute %s: %w", g.FileName(file), err)
		}
	}

	failures := 0
	for _, a := range assertions {
		err := telemetry.RunStitcher(ctx, tracer, g, config, func(ctx context.Context) error {
			return a.Run(g, partials, db, config, cancel)
		})
		if err != nil {
			failures++
			fmt.Fprintln(cmd.OutOrStdout(), failureColor.Sprintf("FAIL %s", err.Error()))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), successColor.Sprintf("ok   %s", a.Source.String(g)))
	}

	if failures > 0 {
		return fmt.Errorf("%d assertion(s) failed", failures)
	}
	return nil
}
