// Copyright 2025 The Yosoku Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the prediction engine server and CLI application.

Yosoku provides ranked Japanese input-method predictions: dictionary
completions of the in-progress reading, bigram continuations of the last
committed word, suffix and zero-query suggestions, English completions and
typing-corrected predictions, all merged under one language-model cost.

The default mode starts a MessagePack IPC server that reads prediction
requests from stdin and writes ranked candidate lists to stdout, for
integration with an input-method front end through process communication.

# Usage

Start the server with default settings:

	yosoku

Use custom dictionary files and enable debug mode:

	yosoku -system /path/to/system.tsv -suffix /path/to/suffix.tsv -d

Run in CLI mode for interactive testing:

	yosoku -c -limit 10

# Configuration

Runtime configuration is managed through a TOML file:

	[prediction]
	use_dictionary_suggest = true
	use_realtime_conversion = false
	mixed_conversion = false
	zero_query_suggestion = false

	[server]
	max_candidates = 10
	max_key_bytes = 300

The config file is created with defaults if it doesn't exist.

# Command Line Flags

	-config string
	    Path to the TOML config file (default "yosoku.toml")
	-system string
	    System dictionary TSV (overrides config)
	-suffix string
	    Suffix dictionary TSV (overrides config)
	-filter string
	    Suggestion filter word list (overrides config)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of candidates to return in CLI mode
	-expansion
	    Enable ambiguity expansion lookups
	-mixed
	    Force mixed conversion mode
	-typing-correction
	    Force typing correction
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbc-developers/yosoku/internal/cli"
	"github.com/kbc-developers/yosoku/pkg/config"
	"github.com/kbc-developers/yosoku/pkg/dictionary"
	"github.com/kbc-developers/yosoku/pkg/predictor"
	"github.com/kbc-developers/yosoku/pkg/request"
	"github.com/kbc-developers/yosoku/pkg/segments"
	"github.com/kbc-developers/yosoku/pkg/server"
	"github.com/kbc-developers/yosoku/pkg/stats"
	"github.com/kbc-developers/yosoku/pkg/suggestionfilter"
)

const (
	Version = "0.3.0"
	AppName = "yosoku"
	gh      = "https://github.com/kbc-developers/yosoku"
)

// The standalone binary has no lattice converter attached; realtime
// conversion stays disabled unless a host process wires real ones in.
type noConverter struct{}

func (noConverter) StartConversionForRequest(*request.ConversionRequest, *segments.Segments) bool {
	return false
}
func (noConverter) ConvertForRequest(*request.ConversionRequest, *segments.Segments) bool {
	return false
}

// flatConnector approximates transition costs with a single constant;
// ranking then degenerates to word costs, which is adequate for the
// standalone dictionaries shipped with the binary.
type flatConnector struct{}

func (flatConnector) TransitionCost(rid, lid int) int { return 0 }

type flatSegmenter struct{}

func (flatSegmenter) SuffixPenalty(rid int) int { return 0 }

type staticPOSMatcher struct{}

// 2004 is the counter-suffix connection id in the shipped id set.
func (staticPOSMatcher) CounterSuffixWordID() int { return 2004 }

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the collaborators and hands control to the server or CLI;
// it implements no engine logic itself.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "yosoku.toml", "Path to the TOML config file")
	systemPath := flag.String("system", "", "System dictionary TSV (overrides config)")
	suffixPath := flag.String("suffix", "", "Suffix dictionary TSV (overrides config)")
	filterPath := flag.String("filter", "", "Suggestion filter word list (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 10, "Number of candidates to return in CLI mode")
	expansion := flag.Bool("expansion", false, "Enable ambiguity expansion lookups")
	mixed := flag.Bool("mixed", false, "Force mixed conversion mode")
	typingCorrection := flag.Bool("typing-correction", false, "Force typing correction")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("[ Yosoku ] Japanese input prediction engine")
		logger.Print("", "version", Version)
		logger.Print("Github Repo", "gh", gh)
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, err := config.Init(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *systemPath != "" {
		cfg.Dict.SystemPath = *systemPath
	}
	if *suffixPath != "" {
		cfg.Dict.SuffixPath = *suffixPath
	}
	if *filterPath != "" {
		cfg.Dict.SuggestionFilterPath = *filterPath
	}

	systemDict := dictionary.NewTrieDictionary()
	if n, err := dictionary.LoadTSV(systemDict, cfg.Dict.SystemPath); err != nil {
		log.Warnf("System dictionary unavailable: %v", err)
	} else {
		log.Debugf("System dictionary ready: %d tokens", n)
	}

	suffixDict := dictionary.NewTrieDictionary()
	if n, err := dictionary.LoadTSV(suffixDict, cfg.Dict.SuffixPath); err != nil {
		log.Warnf("Suffix dictionary unavailable: %v", err)
	} else {
		log.Debugf("Suffix dictionary ready: %d tokens", n)
	}

	var filter predictor.SuggestionFilter = suggestionfilter.New(nil)
	if cfg.Dict.SuggestionFilterPath != "" {
		loaded, err := suggestionfilter.Load(cfg.Dict.SuggestionFilterPath)
		if err != nil {
			log.Warnf("Suggestion filter unavailable: %v", err)
		} else {
			filter = loaded
		}
	}

	recorder := stats.NewRecorder(prometheus.DefaultRegisterer)

	p := predictor.New(
		noConverter{},
		noConverter{},
		systemDict,
		suffixDict,
		flatConnector{},
		flatSegmenter{},
		staticPOSMatcher{},
		filter,
		recorder,
		predictor.Options{
			EnableExpansion:       *expansion,
			ForceMixedConversion:  *mixed,
			ForceTypingCorrection: *typingCorrection,
			Debug:                 *debugMode,
		},
	)

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(p, cfg, *limit)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	showStartupInfo()

	srv := server.NewServer(p, cfg, os.Stdin, os.Stdout)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo() {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Yosoku %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
