package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// GeneratedConfigFile is where the wizard saves its result.
const GeneratedConfigFile = "config.gen.yaml"

// RunSetup launches the terminal configuration wizard and writes the
// chosen settings to config.gen.yaml.
func RunSetup() error {
	var (
		input       string
		output      string
		shardsStr   string
		journal     bool
		journalDir  string
		logOutcomes bool
		confirm     bool
	)

	// defaults
	shardsStr = "1"
	journalDir = "./wal/outcomes"

	fmt.Println(headerStyle.Render("TXPROC CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Configure the transaction processor.\n"))

	fmt.Println(stepStyle.Render("STEP 1: FILES"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Transactions CSV").
				Description("Path of the input file to process").
				Value(&input).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("input path cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Output CSV").
				Description("Leave empty to print the snapshot to stdout").
				Value(&output),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: PROCESSING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Shards").
				Description("1 processes sequentially; more shards split work by client").
				Value(&shardsStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("must be an integer >= 1")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: AUDITING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Keep a WAL journal of event outcomes?").
				Value(&journal),
			huh.NewConfirm().
				Title("Log every accepted/rejected event to stderr?").
				Value(&logOutcomes),
		),
	).Run()
	if err != nil {
		return err
	}

	if journal {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Journal directory").
					Value(&journalDir),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))
	summary := fmt.Sprintf("Input: %s\nOutput: %s\nShards: %s\nJournal: %v\nLog outcomes: %v\n",
		input, orStdout(output), shardsStr, journal, logOutcomes)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	shards, _ := strconv.Atoi(shardsStr)
	cfg := configYaml{
		Input:       input,
		Output:      output,
		Shards:      shards,
		LogOutcomes: logOutcomes,
	}
	if journal {
		cfg.JournalDir = journalDir
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(GeneratedConfigFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\nConfiguration saved to %s\nRun: txproc --config %s", GeneratedConfigFile, GeneratedConfigFile)))
	return nil
}

func orStdout(s string) string {
	if s == "" {
		return "stdout"
	}
	return s
}
