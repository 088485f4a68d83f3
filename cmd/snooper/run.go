package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snooper/cmd/snooper/ui"
	"snooper/internal/config"
	"snooper/internal/sandbox"
	"snooper/internal/session"
)

const timeRound = 10 * time.Millisecond

// runTarget is the run pipeline: load config, obtain question, execute the
// target, assemble the trace, resolve a backend, analyze, report.
func runTarget(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(ui.Banner("snooper - Debug your Go code with AI"))

	cfg, err := loadOrSetupConfig()
	if err != nil {
		return err
	}

	question, err := ui.AskRequired("What would you like to know about the code execution?",
		"e.g. why did the loop stop early?")
	if err != nil {
		return err
	}

	logger.Debug("starting session",
		zap.String("target", targetPath),
		zap.String("provider", cfg.Provider))

	executor := sandbox.NewExecutor()
	executor.Timeout = timeout

	fmt.Println(ui.InfoStyle.Render("Running your code and capturing the execution trace..."))

	outcome, err := session.New(cfg, executor).Run(ctx, session.Options{
		TargetPath: targetPath,
		Question:   question,
		APIKey:     apiKey,
	})
	if err != nil {
		return err
	}

	if outcome.Faulted {
		fmt.Println(ui.ErrorStyle.Render("The target raised an uncaught fault; it was captured in the trace."))
	}
	if showTrace || cfg.ShowTrace {
		if outcome.Faulted {
			fmt.Println(ui.ErrorPanel("Execution Trace", outcome.Trace.String()))
		} else {
			fmt.Println(ui.Panel("Execution Trace", outcome.Trace.String()))
		}
	}

	fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("Analysis from %s:", outcome.Provider.Title())))
	fmt.Println(ui.Panel("", ui.RenderMarkdown(outcome.Answer)))
	fmt.Println(ui.MutedStyle.Render(fmt.Sprintf("session %s · %s · %v", outcome.ID, outcome.Model, outcome.Elapsed.Round(timeRound))))

	return nil
}

// loadOrSetupConfig loads the workspace config, running the interactive setup
// flow when none exists yet.
func loadOrSetupConfig() (*config.Config, error) {
	path := config.DefaultPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	fmt.Println(ui.InfoStyle.Render("No configuration found, let's set one up."))
	return setupConfig(path)
}
