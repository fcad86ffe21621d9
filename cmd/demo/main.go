// Command demo is an interactive lifecycle inspector. It mounts a
// Manager/Reference/Popper tree against a scriptable engine and replays
// a YAML scenario step by step, showing the engine call journal, the
// derived options, and the published render state after each action.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-popper/popper/pkg/errors"
	"github.com/go-popper/popper/pkg/popper"
)

func main() {
	var (
		scenarioFile = flag.String("scenario", "", "Path to a YAML scenario file (default: built-in tour)")
		logFile      = flag.String("log", "", "Write a development log to this file")
	)
	flag.Parse()

	sc := defaultScenario()
	if *scenarioFile != "" {
		loaded, err := loadScenario(*scenarioFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sc = loaded
	}

	logs, err := wireLogging(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newInspectorModel(sc, logs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// wireLogging routes library diagnostics into the inspector. Warnings
// land in an observer the TUI renders; with -log they also go to a
// development log file, since the terminal belongs to the TUI.
func wireLogging(path string) (*observer.ObservedLogs, error) {
	obsCore, logs := observer.New(zap.WarnLevel)
	cores := []zapcore.Core{obsCore}

	if path != "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
		fileLogger, err := cfg.Build()
		if err != nil {
			return nil, &errors.Error{
				Op:   "demo.wireLogging",
				Kind: errors.KindInit,
				Err:  fmt.Errorf("failed to open log file %s: %w", path, err),
			}
		}
		cores = append(cores, fileLogger.Core())
	}

	logger := zap.New(zapcore.NewTee(cores...))
	popper.SetLogger(logger)
	errors.SetHandler(&errors.ZapHandler{Logger: logger})
	return logs, nil
}
