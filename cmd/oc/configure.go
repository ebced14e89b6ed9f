package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/faegents/openclaw/internal/config"
	"github.com/faegents/openclaw/internal/errors"
)

// configField is one prompt of the configure wizard.
type configField struct {
	key    string
	label  string
	secret bool
	get    func(*config.Config) string
	set    func(*config.Config, string)
}

var configFields = []configField{
	{
		key: "github-token", label: "GitHub token", secret: true,
		get: func(c *config.Config) string { return c.GitHubToken },
		set: func(c *config.Config, v string) { c.GitHubToken = v },
	},
	{
		key: "assistant-key", label: "Gemini API key", secret: true,
		get: func(c *config.Config) string { return c.AssistantAPIKey },
		set: func(c *config.Config, v string) { c.AssistantAPIKey = v },
	},
	{
		key: "repo", label: "Workspace repository (owner/name)",
		get: func(c *config.Config) string { return c.GitHubRepo },
		set: func(c *config.Config, v string) { c.GitHubRepo = v },
	},
	{
		key: "branch", label: "Branch",
		get: func(c *config.Config) string { return c.GitHubBranch },
		set: func(c *config.Config, v string) { c.GitHubBranch = v },
	},
	{
		key: "model", label: "Assistant model",
		get: func(c *config.Config) string { return c.Model },
		set: func(c *config.Config, v string) { c.Model = v },
	},
}

// configureCmd creates the configure command.
func configureCmd(env *runtimeEnv) *cli.Command {
	flags := make([]cli.Flag, 0, len(configFields))
	for _, f := range configFields {
		flags = append(flags, &cli.StringFlag{Name: f.key, Usage: f.label})
	}

	return &cli.Command{
		Name:  "configure",
		Usage: "Store credentials and workspace settings in ~/.openclaw/config.json",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadFile(env.baseDir)
			if err != nil {
				return outputError(errors.NewInvalidConfig(err.Error()))
			}

			fromFlags := false
			for _, f := range configFields {
				if c.IsSet(f.key) {
					f.set(cfg, strings.TrimSpace(c.String(f.key)))
					fromFlags = true
				}
			}

			if !fromFlags {
				if !env.interactive {
					return outputError(errors.NewInvalidRequest("configure needs a terminal, or pass values as flags"))
				}
				done, err := runWizard(env, cfg)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if !done {
					fmt.Fprintln(env.out, "Configuration unchanged.")
					return nil
				}
			}

			if err := config.Save(env.baseDir, cfg); err != nil {
				return outputError(err)
			}
			env.log.Info("config saved")
			color.New(color.FgGreen).Fprintf(env.out, "Saved %s\n", config.Path(env.baseDir))
			return nil
		},
	}
}

// runWizard edits cfg in place. It reports false when the user cancelled.
func runWizard(env *runtimeEnv, cfg *config.Config) (bool, error) {
	p := tea.NewProgram(newConfigureModel(cfg, env.styles.Title), tea.WithInput(env.in), tea.WithOutput(env.out))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m := final.(configureModel)
	if !m.done {
		return false, nil
	}
	m.apply(cfg)
	return true, nil
}

type configureModel struct {
	inputs    []textinput.Model
	focus     int
	done      bool
	cancelled bool
	title     lipgloss.Style
}

func newConfigureModel(cfg *config.Config, title lipgloss.Style) configureModel {
	inputs := make([]textinput.Model, len(configFields))
	for i, f := range configFields {
		ti := textinput.New()
		ti.Prompt = "  › "
		ti.CharLimit = 256
		ti.Width = 60
		current := f.get(cfg)
		if f.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
			ti.Placeholder = "not set"
			if current != "" {
				ti.Placeholder = "set, leave blank to keep"
			}
		} else {
			ti.SetValue(current)
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	return configureModel{inputs: inputs, title: title}
}

func (m configureModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m configureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			return m.move(1), textinput.Blink
		case "tab", "down":
			return m.move(1), textinput.Blink
		case "shift+tab", "up":
			return m.move(-1), textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// move shifts focus by delta, wrapping around.
func (m configureModel) move(delta int) configureModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m configureModel) View() string {
	var b strings.Builder
	b.WriteString(m.title.Render("OpenClaw configuration"))
	b.WriteString("\n\n")
	for i, f := range configFields {
		b.WriteString(f.label)
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}
	b.WriteString("tab/↓ next · shift+tab/↑ back · enter on the last field saves · esc cancels\n")
	return b.String()
}

// apply copies the entered values into cfg. Blank secrets keep their
// current value.
func (m configureModel) apply(cfg *config.Config) {
	for i, f := range configFields {
		v := strings.TrimSpace(m.inputs[i].Value())
		if f.secret && v == "" {
			continue
		}
		f.set(cfg, v)
	}
}
