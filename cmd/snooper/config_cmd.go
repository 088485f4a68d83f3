package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snooper/cmd/snooper/ui"
	"snooper/internal/config"
)

// runConfigure drives the interactive settings flow and prints the result.
func runConfigure(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.Banner("snooper - Configure your settings"))

	path := config.DefaultPath()
	cfg, err := setupConfig(path)
	if err != nil {
		return err
	}

	fmt.Println(ui.InfoStyle.Render("Current configuration:"))
	fmt.Println(ui.Panel("Settings", fmt.Sprintf(
		"Provider: %s\nClaude model: %s\nOpenAI model: %s\nPropagate --api-key to fallback: %v",
		cfg.Provider, cfg.ClaudeModel(), cfg.OpenAIModel(), cfg.PropagateAPIKeyOnFallback)))

	return nil
}

// setupConfig prompts for settings, starting from the existing config when
// present, and saves the result to path.
func setupConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	for {
		provider, err := ui.AskLine(
			fmt.Sprintf("Which provider do you want to use? (%s/%s)", config.ProviderClaude, config.ProviderOpenAI),
			config.ProviderClaude, cfg.Provider)
		if err != nil {
			return nil, err
		}
		cfg.Provider = provider
		if cfg.Validate() == nil {
			break
		}
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("Unknown provider %q, try again.", provider)))
	}

	claudeModel, err := ui.AskLine("Claude model:", config.DefaultClaudeModel, cfg.ClaudeModel())
	if err != nil {
		return nil, err
	}
	cfg.Claude.Model = claudeModel

	openaiModel, err := ui.AskLine("OpenAI model:", config.DefaultOpenAIModel, cfg.OpenAIModel())
	if err != nil {
		return nil, err
	}
	cfg.OpenAI.Model = openaiModel

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println(ui.MutedStyle.Render("Saved " + path))
	return cfg, nil
}
