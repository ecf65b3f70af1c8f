package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/gilchrisn/cross-associations/pkg/autopart"
	"github.com/gilchrisn/cross-associations/pkg/parser"
	"github.com/gilchrisn/cross-associations/pkg/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "configuration file (yaml, json, toml)")
	directed := flag.Bool("directed", false, "treat edges as directed")
	outputDir := flag.String("out", "", "directory for mapping, blocks and summary files")
	prefix := flag.String("prefix", "autopart", "output file prefix")
	snapshots := flag.String("snapshots", "", "directory for per-step matrix snapshots")
	trackFile := flag.String("track", "", "JSON lines file receiving one event per step")
	outliers := flag.Int("outliers", 0, "print the n most outlying edges")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <edgelist>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return errors.New("expected exactly one edge list file")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	config := autopart.NewConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if *snapshots != "" {
		config.Set("output.snapshot_dir", *snapshots)
	}
	if *trackFile != "" {
		config.Set("output.track_file", *trackFile)
	}
	logger := config.CreateLogger()

	graph, err := parser.ReadEdgeList(flag.Arg(0), *directed)
	if err != nil {
		return err
	}
	logger.Info().
		Str("file", flag.Arg(0)).
		Int("nodes", graph.NumNodes()).
		Int("cells", graph.NumEdges()).
		Msg("Graph loaded")

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("autopart"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
	)
	observers := []autopart.Observer{
		autopart.ObserverFunc(func(step autopart.Step, view autopart.View) error {
			bar.Describe(fmt.Sprintf("k=%d cost=%.2f", view.K(), view.TotalCost()))
			return bar.Add(1)
		}),
	}

	if dir := config.SnapshotDir(); dir != "" {
		sw, err := render.NewSnapshotWriter(dir)
		if err != nil {
			return err
		}
		sw.Density = config.SnapshotDensity()
		observers = append(observers, sw)
	}
	if path := config.TrackFile(); path != "" {
		tracker, err := autopart.NewStepTracker(path)
		if err != nil {
			return fmt.Errorf("create step tracker: %w", err)
		}
		defer tracker.Close()
		observers = append(observers, tracker)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := autopart.Run(ctx, graph, config, observers...)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	displayResults(result)

	if *outliers > 0 {
		fmt.Println("\nMost outlying edges:")
		for _, o := range result.Model.EdgeOutliers(*outliers) {
			fmt.Printf("  %s -> %s  block (%d,%d)  score %.4f\n", o.From, o.To, o.RowGroup, o.ColGroup, o.Score)
		}
	}

	if *outputDir != "" {
		if err := autopart.WriteAll(result, *outputDir, *prefix); err != nil {
			return err
		}
		logger.Info().Str("dir", *outputDir).Str("prefix", *prefix).Msg("Results written")
	}
	return nil
}

func displayResults(result *autopart.Result) {
	fmt.Println("\n=== Results ===")
	fmt.Printf("Groups: %d\n", result.K)
	fmt.Printf("Initial cost: %.4f bits\n", result.InitialCost)
	fmt.Printf("Total cost: %.4f bits (code %.4f + description %.4f)\n",
		result.TotalCost, result.CodeCost, result.DescriptionCost)
	fmt.Printf("Outer steps: %d, inner iterations: %d\n",
		result.Statistics.OuterSteps, result.Statistics.InnerIterations)
	fmt.Printf("Runtime: %d ms\n", result.Statistics.RuntimeMS)

	for g, members := range result.Groups {
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		fmt.Printf("  Group %d (%d): %v\n", g, len(sorted), sorted)
	}
}
