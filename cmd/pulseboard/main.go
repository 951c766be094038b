package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/pulseboard/pkg/config"
	"github.com/umputun/pulseboard/pkg/discovery"
	"github.com/umputun/pulseboard/pkg/intel"
	"github.com/umputun/pulseboard/pkg/issues"
	"github.com/umputun/pulseboard/pkg/posts"
	"github.com/umputun/pulseboard/pkg/roadmap"
	"github.com/umputun/pulseboard/pkg/writeups"
	"github.com/umputun/pulseboard/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"pulseboard.yml" description:"config file path"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address override"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting pulseboard version %s", revision)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] can't load config: %v", err)
		os.Exit(1)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err = run(ctx, cfg, opts.Debug)
	cancel()

	if err != nil {
		log.Printf("[ERROR] server failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires the analysis modules together and starts the server
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	intelCfg := cfg.GetIntelConfig()
	client := intel.New(intelCfg.BaseURL, intelCfg.Timeout, intelCfg.MaxRetries)

	// optional community write-up ingestion
	var supplement discovery.Supplementer
	if wCfg := cfg.GetWriteupsConfig(); wCfg.Enabled {
		extractor := writeups.NewHTTPExtractor(wCfg.ExtractTimeout, wCfg.UserAgent)
		watcher := writeups.NewWatcher(writeups.Config{
			Feeds:         wCfg.Feeds,
			Interval:      wCfg.PollInterval,
			MaxConcurrent: wCfg.MaxConcurrent,
			MaxPerFeed:    wCfg.MaxPerFeed,
			MinTextLength: wCfg.MinTextLength,
		}, extractor)
		go watcher.Run(ctx)
		supplement = watcher
	}

	sumOpts := []roadmap.Option{}
	if rCfg := cfg.GetRoadmapConfig(); rCfg.RecencyFilter {
		sumOpts = append(sumOpts, roadmap.WithRecencyFilter(time.Duration(rCfg.RecencyWindowDays)*24*time.Hour))
	}

	srv := server.New(cfg,
		discovery.NewRanker(client, supplement),
		issues.NewClassifier(client),
		roadmap.NewService(client, roadmap.NewSummarizer(sumOpts...)),
		posts.NewEngine(client),
		revision, debug)

	return srv.Run(ctx)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
