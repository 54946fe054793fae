// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui implements the interactive terminal interface: a small action
// menu (build, stamp, deploy) with streamed command output rendered in a
// viewport while a step runs.
package ui

import (
	"fmt"
	"strings"

	"pagewright/internal/config"
	"pagewright/internal/runner"
	"pagewright/internal/site"
	"pagewright/internal/ssh"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// state represents the different views or modes of the TUI.
type state int

const (
	stateMenu state = iota
	stateHostSelect
	stateRunning
	stateDone
	stateError
)

// action is an entry in the main menu.
type action int

const (
	actionBuildStamp action = iota
	actionBuildOnly
	actionStampOnly
	actionDeploy
	actionQuit
)

var actionLabels = map[action]string{
	actionBuildStamp: "Build & Stamp",
	actionBuildOnly:  "Build Only",
	actionStampOnly:  "Stamp Only",
	actionDeploy:     "Deploy",
	actionQuit:       "Quit",
}

var menuActions = []action{actionBuildStamp, actionBuildOnly, actionStampOnly, actionDeploy, actionQuit}

// Model is the top-level Bubble Tea model.
type Model struct {
	site       site.Site
	sshManager *ssh.Manager
	hosts      []config.DeployHost

	currentState state
	cursor       int
	hostCursor   int
	running      action

	spinner  spinner.Model
	viewport viewport.Model
	output   strings.Builder

	outChan <-chan runner.OutputLine
	errChan <-chan error

	result string
	err    error

	width  int
	height int
}

// InitialModel builds the TUI model for the given site.
func InitialModel(s site.Site, manager *ssh.Manager) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	return Model{
		site:       s,
		sshManager: manager,
		spinner:    sp,
		viewport:   viewport.New(80, 20),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadHostsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case hostsLoadedMsg:
		if msg.err == nil {
			m.hosts = msg.hosts
		}
		return m, nil

	case channelsAvailableMsg:
		m.outChan = msg.outChan
		m.errChan = msg.errChan
		return m, tea.Batch(waitForOutputCmd(m.outChan), waitForStepCmd(m.errChan))

	case outputLineMsg:
		m.output.WriteString(msg.line.Line)
		m.viewport.SetContent(m.output.String())
		m.viewport.GotoBottom()
		return m, waitForOutputCmd(m.outChan)

	case outputClosedMsg:
		return m, nil

	case stepFinishedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentState = stateError
			return m, nil
		}
		if m.running == actionBuildStamp {
			return m, stampCmd(m.site)
		}
		m.result = "Build completed."
		m.currentState = stateDone
		return m, nil

	case stampFinishedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentState = stateError
			return m, nil
		}
		m.result = fmt.Sprintf("Stamped %s into %s", m.site.Domain, msg.path)
		m.currentState = stateDone
		return m, nil

	case deployFinishedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentState = stateError
			return m, nil
		}
		m.result = fmt.Sprintf("Deployed to %s", msg.host)
		m.currentState = stateDone
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) && m.currentState != stateRunning {
		return m, tea.Quit
	}

	switch m.currentState {
	case stateMenu:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(menuActions)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Select):
			return m.selectAction(menuActions[m.cursor])
		}

	case stateHostSelect:
		switch {
		case key.Matches(msg, keys.Back):
			m.currentState = stateMenu
		case key.Matches(msg, keys.Up):
			if m.hostCursor > 0 {
				m.hostCursor--
			}
		case key.Matches(msg, keys.Down):
			if m.hostCursor < len(m.hosts)-1 {
				m.hostCursor++
			}
		case key.Matches(msg, keys.Select):
			if len(m.hosts) > 0 {
				host := m.hosts[m.hostCursor]
				m.startAction(actionDeploy)
				return m, tea.Batch(m.spinner.Tick, deployCmd(m.sshManager, host, m.site.OutputDir()))
			}
		}

	case stateRunning:
		// No interaction while a step runs; ctrl+c still quits.
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case stateDone, stateError:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Select) {
			m.currentState = stateMenu
			m.err = nil
			m.result = ""
			m.output.Reset()
			m.viewport.SetContent("")
		}
	}

	return m, nil
}

func (m Model) selectAction(a action) (tea.Model, tea.Cmd) {
	switch a {
	case actionQuit:
		return m, tea.Quit
	case actionDeploy:
		if len(m.hosts) == 0 {
			m.err = fmt.Errorf("no deploy hosts configured (see 'pw hosts add')")
			m.currentState = stateError
			return m, nil
		}
		m.hostCursor = 0
		m.currentState = stateHostSelect
		return m, nil
	case actionStampOnly:
		m.startAction(a)
		return m, tea.Batch(m.spinner.Tick, stampCmd(m.site))
	default: // build variants
		m.startAction(a)
		return m, tea.Batch(m.spinner.Tick, startBuildCmd(m.site))
	}
}

func (m *Model) startAction(a action) {
	m.running = a
	m.currentState = stateRunning
	m.output.Reset()
	m.viewport.SetContent("")
}

func (m Model) View() string {
	header := titleStyle.Render("Pagewright") + "  " +
		domainStyle.Render(m.site.Domain) + footerStyle.Render(" → "+m.site.Output)

	var body string
	switch m.currentState {
	case stateMenu:
		body = m.viewMenu()
	case stateHostSelect:
		body = m.viewHostSelect()
	case stateRunning:
		body = m.viewRunning()
	case stateDone:
		body = successStyle.Render(m.result) + "\n\n" + m.viewOutput()
	case stateError:
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + m.viewOutput()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", m.viewFooter())
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(statusStyle.Render("Select an action:") + "\n\n")
	for i, a := range menuActions {
		cursor := "  "
		label := actionLabels[a]
		if m.cursor == i {
			cursor = cursorStyle.Render("> ")
			label = cursorStyle.Render(label)
		}
		b.WriteString(cursor + label + "\n")
	}
	return b.String()
}

func (m Model) viewHostSelect() string {
	var b strings.Builder
	b.WriteString(statusStyle.Render("Deploy to which host?") + "\n\n")
	for i, h := range m.hosts {
		cursor := "  "
		if m.hostCursor == i {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, h.Name, hostStyle.Render(h.Hostname)))
	}
	return b.String()
}

func (m Model) viewRunning() string {
	running := stepStyle.Render(fmt.Sprintf("%s Running: %s", m.spinner.View(), actionLabels[m.running]))
	return running + "\n\n" + m.viewOutput()
}

func (m Model) viewOutput() string {
	if m.output.Len() == 0 {
		return ""
	}
	return outputBorderStyle.Render(m.viewport.View())
}

func (m Model) viewFooter() string {
	sep := footerSeparatorStyle.Render(" | ")
	entries := []string{
		footerKeyStyle.Render("↑/↓") + footerStyle.Render(" navigate"),
		footerKeyStyle.Render("enter") + footerStyle.Render(" select"),
		footerKeyStyle.Render("esc/b") + footerStyle.Render(" back"),
		footerKeyStyle.Render("q") + footerStyle.Render(" quit"),
	}
	return footerStyle.Render(strings.Join(entries, sep))
}
