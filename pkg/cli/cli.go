/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	inputWidth  = 40
	inputLimit  = 64
	appPadding  = 1
	appPaddingX = 2
)

type styles struct {
	title, label, help, success, error, app lipgloss.Style
}

// Styling with lipgloss (for TUI mode).
func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		app: lipgloss.NewStyle().
			Padding(appPadding, appPaddingX).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)).
			Foreground(lipgloss.Color(draculaForeground)),
	}
}

// typeModel asks for the asset type of records about to be created.
type typeModel struct {
	input       textinput.Model
	defaultType string
	value       string
	done        bool
	cancelled   bool
	styles      styles
}

func newTypeModel(defaultType string) *typeModel {
	ti := textinput.New()
	ti.Placeholder = defaultType
	ti.Focus()
	ti.CharLimit = inputLimit
	ti.Width = inputWidth
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

	return &typeModel{
		input:       ti,
		defaultType: defaultType,
		styles:      newStyles(),
	}
}

func (*typeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *typeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // Default case handles all unlisted keys
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true

			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *typeModel) submit() (tea.Model, tea.Cmd) {
	m.value = strings.TrimSpace(m.input.Value())
	if m.value == "" {
		m.value = m.defaultType
	}

	m.done = true
	m.input.Blur()

	return m, tea.Quit
}

func (m *typeModel) View() string {
	var content strings.Builder

	content.WriteString(m.styles.title.Render("Inventory: new asset") + "\n\n")

	if m.done {
		content.WriteString(m.styles.success.Render(fmt.Sprintf("Type: %s", m.value)))

		return m.styles.app.Align(lipgloss.Left).Render(content.String())
	}

	content.WriteString(lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.label.Render("Asset type:"),
		m.input.View(),
	))
	content.WriteString("\n\n")
	content.WriteString(m.styles.help.Render(fmt.Sprintf("Enter → accept (empty uses %q) | Ctrl+C/Esc → cancel", m.defaultType)))

	return m.styles.app.Align(lipgloss.Left).Render(content.String())
}

// TypePrompter implements inventory.Prompter. It runs the TUI when both streams are
// terminals and falls back to reading one line otherwise.
type TypePrompter struct {
	in          io.Reader
	out         io.Writer
	defaultType string
}

// NewTypePrompter returns a prompter reading from in and drawing on out.
func NewTypePrompter(in io.Reader, out io.Writer, defaultType string) *TypePrompter {
	return &TypePrompter{in: in, out: out, defaultType: defaultType}
}

// PromptAssetType asks once for the type of the records being created.
func (p *TypePrompter) PromptAssetType() (string, error) {
	if isTerminal(p.in) && isTerminal(p.out) {
		return p.promptTUI()
	}

	return p.promptLine()
}

func (p *TypePrompter) promptTUI() (string, error) {
	final, err := tea.NewProgram(newTypeModel(p.defaultType), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(*typeModel)
	if !ok || m.cancelled || !m.done {
		return "", errPromptCancelled
	}

	return m.value, nil
}

func (p *TypePrompter) promptLine() (string, error) {
	fmt.Fprintf(p.out, "Asset type [%s]: ", p.defaultType)

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", errPromptCancelled
	}

	if value := strings.TrimSpace(line); value != "" {
		return value, nil
	}

	return p.defaultType, nil
}

func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
