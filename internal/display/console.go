// Package display renders panels, tables and progress lines for the CLI. It
// is the only place configuration is turned into user-visible text, and it
// never renders credential material, only a present/absent indicator.
package display

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"trae/internal/config"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// Console writes user-facing output to one sink.
type Console struct {
	out io.Writer
}

// New creates a console writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Info prints a neutral progress line.
func (c *Console) Info(format string, args ...any) {
	color.New(color.FgBlue).Fprintf(c.out, format+"\n", args...)
}

// Success prints a completion line.
func (c *Console) Success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(c.out, format+"\n", args...)
}

// Warn prints a calmer-than-error line, used for user-initiated cancellation.
func (c *Console) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(c.out, format+"\n", args...)
}

// Error prints a failure line.
func (c *Console) Error(format string, args ...any) {
	color.New(color.FgRed).Fprintf(c.out, format+"\n", args...)
}

// Panel prints a titled, bordered block.
func (c *Console) Panel(title, body string) {
	content := titleStyle.Render(title) + "\n" + body
	fmt.Fprintln(c.out, panelStyle.Render(content))
}

// Clear clears the terminal.
func (c *Console) Clear() {
	fmt.Fprint(c.out, "\033[H\033[2J")
}

// Prompt prints an inline input prompt without a trailing newline.
func (c *Console) Prompt(label string) {
	color.New(color.FgBlue, color.Bold).Fprintf(c.out, "%s: ", label)
}

// TaskDetails describes the run about to start.
type TaskDetails struct {
	Task           string
	WorkingDir     string
	Provider       string
	Model          string
	MaxSteps       int
	ConfigFile     string
	TrajectoryPath string
}

// TaskDetails renders the pre-execution summary panel.
func (c *Console) TaskDetails(d TaskDetails) {
	body := fmt.Sprintf(
		"Task: %s\nWorking Directory: %s\nProvider: %s\nModel: %s\nMax Steps: %d\nConfig File: %s\nTrajectory File: %s",
		d.Task, d.WorkingDir, d.Provider, d.Model, d.MaxSteps, d.ConfigFile, d.TrajectoryPath,
	)
	c.Panel("Task Details", body)
}

// Status is the live snapshot shown by the interactive status command.
type Status struct {
	Provider   string
	Model      string
	ToolCount  int
	ConfigFile string
	WorkingDir string
}

// Status renders the interactive-session status panel.
func (c *Console) Status(s Status) {
	body := fmt.Sprintf(
		"Provider: %s\nModel: %s\nAvailable Tools: %d\nConfig File: %s\nWorking Directory: %s",
		s.Provider, s.Model, s.ToolCount, s.ConfigFile, s.WorkingDir,
	)
	c.Panel("Agent Status", body)
}

// Help renders the interactive-session help panel.
func (c *Console) Help() {
	c.Panel("Help", `Available Commands:

- Type any task description to execute it
- 'status' - Show agent status
- 'clear' - Clear the screen
- 'exit' or 'quit' - End the session`)
}

// Welcome renders the interactive-session banner.
func (c *Console) Welcome(provider, model string, maxSteps int, configFile string) {
	body := fmt.Sprintf(
		"Provider: %s\nModel: %s\nMax Steps: %d\nConfig File: %s",
		provider, model, maxSteps, configFile,
	)
	c.Panel("Interactive Mode", body)
}

// EffectiveConfig renders the resolved configuration: general settings, then
// one table per provider. Credentials appear only as a Set / Not set
// indicator; the top_k row is rendered only for the anthropic provider.
func (c *Console) EffectiveConfig(cfg *config.Config) {
	general := newTable("Setting", "Value")
	general.Row("Default Provider", orNotSet(cfg.DefaultProvider))
	general.Row("Max Steps", fmt.Sprintf("%d", cfg.MaxSteps))

	fmt.Fprintln(c.out, titleStyle.Render("General Settings"))
	fmt.Fprintln(c.out, general.Render())

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := cfg.Providers[name]

		t := newTable("Setting", "Value")
		t.Row("Model", orNotSet(s.Model))
		t.Row("API Key", presence(s.APIKey))
		t.Row("Max Tokens", fmt.Sprintf("%d", s.MaxTokens))
		t.Row("Temperature", fmt.Sprintf("%g", s.Temperature))
		t.Row("Top P", fmt.Sprintf("%g", s.TopP))
		if name == "anthropic" {
			t.Row("Top K", fmt.Sprintf("%d", s.TopK))
		}

		fmt.Fprintln(c.out, titleStyle.Render(name+" Configuration"))
		fmt.Fprintln(c.out, t.Render())
	}
}

// ToolInfo is one row of the tools listing. A tool whose constructor failed
// carries the error text instead of a description.
type ToolInfo struct {
	Name        string
	Description string
	Err         error
}

// ToolList renders the registered tools table.
func (c *Console) ToolList(infos []ToolInfo) {
	t := newTable("Tool Name", "Description")
	for _, info := range infos {
		if info.Err != nil {
			t.Row(info.Name, fmt.Sprintf("Error loading: %v", info.Err))
			continue
		}
		t.Row(info.Name, info.Description)
	}

	fmt.Fprintln(c.out, titleStyle.Render("Available Tools"))
	fmt.Fprintln(c.out, t.Render())
}

// StepStarted implements the agent progress console.
func (c *Console) StepStarted(step, maxSteps int) {
	c.Info("Step %d/%d", step, maxSteps)
}

// ToolCalled implements the agent progress console.
func (c *Console) ToolCalled(name string, err error) {
	if err != nil {
		c.Error("  tool %s failed: %v", name, err)
		return
	}
	c.Info("  tool %s", name)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}

func presence(secret string) string {
	if secret == "" {
		return "Not set"
	}
	return "Set"
}
