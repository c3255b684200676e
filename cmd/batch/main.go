package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"passenger-satisfaction-go/internal/config"
	"passenger-satisfaction-go/internal/dataset"
	"passenger-satisfaction-go/internal/logger"
	"passenger-satisfaction-go/internal/normalizer"
	"passenger-satisfaction-go/internal/predictor"
	"passenger-satisfaction-go/internal/processor"
	"passenger-satisfaction-go/internal/store"
)

type cliOptions struct {
	inputPath  string
	outputPath string
	checkOnly  bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "batch: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.inputPath, "input", "", "Survey workbook (.xlsx) to score")
	flag.StringVar(&opts.outputPath, "output", dataset.ResultFilename, "Where to write the annotated workbook")
	flag.BoolVar(&opts.checkOnly, "check", false, "Only validate the workbook columns")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	table, err := dataset.Load(opts.inputPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.inputPath, err)
	}
	log.WithField("path", opts.inputPath).WithField("rows", len(table.Rows)).Info("workbook loaded")
	if err := normalizer.ValidateColumns(table); err != nil {
		return err
	}
	if opts.checkOnly {
		fmt.Printf("%s: %d rows, all required columns present\n", opts.inputPath, len(table.Rows))
		return nil
	}

	var p predictor.Predictor = predictor.NewHeuristic()
	if !cfg.UseMockPredictor {
		p = predictor.NewHTTPClient(cfg.PredictorURL, cfg.PredictorTimeout, log.Component("predictor"))
	}
	svc := processor.New(
		normalizer.New(cfg.CategoryPolicy, log.Component("normalizer")),
		p,
		store.NewMemory(),
		time.Hour,
		log.Component("processor"),
	)

	in, err := os.Open(opts.inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := context.Background()
	res, err := svc.PredictBatch(ctx, filepath.Base(opts.inputPath), in)
	if err != nil {
		return err
	}
	rd, err := svc.Download(ctx, res.ResultID)
	if err != nil {
		return err
	}
	out, err := os.Create(opts.outputPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rd); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", opts.outputPath, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.WithField("output", opts.outputPath).Info("annotated workbook written")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.BatchInsights)
}
