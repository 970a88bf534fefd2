// Package monitor is a terminal view over one or more running signer
// services: network, served signers, stored keys and the log tail.
package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/abcfe/avax-types/api/rest"
	"github.com/abcfe/avax-types/internal/monitor/api"
	"github.com/abcfe/avax-types/internal/monitor/components"
	"github.com/abcfe/avax-types/internal/monitor/styles"
	"github.com/abcfe/avax-types/key"
	bkey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const Version = "1.0.0"

type Config struct {
	Host       string
	Ports      []int
	LogPaths   []string
	RefreshSec int
}

// ServiceInfo is the last poll result of one service.
type ServiceInfo struct {
	Port   int
	Online bool
	Status *rest.StatusResp
	Keys   []key.Info
	Error  string
}

type keyMap struct {
	Up      bkey.Binding
	Down    bkey.Binding
	Refresh bkey.Binding
	Help    bkey.Binding
	Quit    bkey.Binding
}

var keys = keyMap{
	Up:      bkey.NewBinding(bkey.WithKeys("up", "k"), bkey.WithHelp("↑/k", "select up")),
	Down:    bkey.NewBinding(bkey.WithKeys("down", "j"), bkey.WithHelp("↓/j", "select down")),
	Refresh: bkey.NewBinding(bkey.WithKeys("r"), bkey.WithHelp("r", "refresh")),
	Help:    bkey.NewBinding(bkey.WithKeys("?"), bkey.WithHelp("?", "help")),
	Quit:    bkey.NewBinding(bkey.WithKeys("q", "ctrl+c"), bkey.WithHelp("q", "quit")),
}

func (k keyMap) bindings() []bkey.Binding {
	return []bkey.Binding{k.Up, k.Down, k.Refresh, k.Help, k.Quit}
}

type Model struct {
	config    Config
	services  []ServiceInfo
	clients   []*api.Client
	selected  int
	width     int
	logViewer *components.LogViewer
	showHelp  bool
	quitting  bool
}

func Run(config Config) error {
	p := tea.NewProgram(NewModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func NewModel(config Config) Model {
	clients := make([]*api.Client, len(config.Ports))
	for i, port := range config.Ports {
		clients[i] = api.NewClient(config.Host, port)
	}
	return newModel(config, clients)
}

func newModel(config Config, clients []*api.Client) Model {
	services := make([]ServiceInfo, len(clients))
	for i := range services {
		if i < len(config.Ports) {
			services[i].Port = config.Ports[i]
		}
	}
	if config.RefreshSec <= 0 {
		config.RefreshSec = 1
	}
	return Model{
		config:    config,
		services:  services,
		clients:   clients,
		logViewer: components.NewLogViewer(config.LogPaths, 10),
	}
}

type tickMsg time.Time

type serviceUpdateMsg struct {
	index  int
	status *rest.StatusResp
	keys   []key.Info
	err    error
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.config.RefreshSec), m.fetchAll())
}

func tickCmd(seconds int) tea.Cmd {
	return tea.Tick(time.Duration(seconds)*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchAll() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.clients {
		cmds = append(cmds, m.fetch(i))
	}
	return tea.Batch(cmds...)
}

func (m Model) fetch(index int) tea.Cmd {
	return func() tea.Msg {
		client := m.clients[index]

		status, err := client.GetStatus()
		if err != nil {
			return serviceUpdateMsg{index: index, err: err}
		}
		// services without a key store still report status
		infos, _ := client.GetKeys()

		return serviceUpdateMsg{index: index, status: status, keys: infos}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bkey.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case bkey.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		case bkey.Matches(msg, keys.Refresh):
			return m, m.fetchAll()
		case bkey.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
				m.logViewer.SetService(m.selected)
			}
		case bkey.Matches(msg, keys.Down):
			if m.selected < len(m.services)-1 {
				m.selected++
				m.logViewer.SetService(m.selected)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		cmds = append(cmds, tickCmd(m.config.RefreshSec), m.fetchAll())
		_ = m.logViewer.Refresh()

	case serviceUpdateMsg:
		if msg.index < len(m.services) {
			s := &m.services[msg.index]
			if msg.err != nil {
				s.Online = false
				s.Error = msg.err.Error()
			} else {
				s.Online = true
				s.Status = msg.status
				s.Keys = msg.keys
				s.Error = ""
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	if m.selected < len(m.services) {
		b.WriteString(m.renderDetails(m.services[m.selected]))
		b.WriteString("\n")
	}
	b.WriteString(m.logViewer.Render(m.width))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render(fmt.Sprintf(" avax-types monitor v%s ", Version))

	online := 0
	for _, s := range m.services {
		if s.Online {
			online++
		}
	}
	status := styles.MutedStyle.Render(fmt.Sprintf("services: %d/%d online", online, len(m.services)))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status
}

const rowFormat = "%-4s %-6s %-10s %-6s %-8s %-6s"

func (m Model) renderTable() string {
	var b strings.Builder
	b.WriteString(styles.TableHeaderStyle.Render(fmt.Sprintf(rowFormat, "#", "Port", "Network", "HRP", "Signers", "Keys")))
	b.WriteString("\n")

	for i, s := range m.services {
		row := renderRow(i, s)
		if i == m.selected {
			b.WriteString(styles.TableSelectedRowStyle.Render(row))
		} else {
			b.WriteString(styles.TableRowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(index int, s ServiceInfo) string {
	num := fmt.Sprintf("%d", index+1)
	port := fmt.Sprintf("%d", s.Port)
	if !s.Online || s.Status == nil {
		return fmt.Sprintf(rowFormat, num, port, "OFFLINE", "-", "-", "-")
	}
	return fmt.Sprintf(rowFormat, num, port,
		fmt.Sprintf("%d", s.Status.NetworkID),
		s.Status.HRP,
		fmt.Sprintf("%d", len(s.Status.Signers)),
		fmt.Sprintf("%d", len(s.Keys)))
}

func (m Model) renderDetails(s ServiceInfo) string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Service %d (port %d)", m.selected+1, s.Port)))
	b.WriteString("\n")

	if !s.Online {
		b.WriteString(styles.ErrorStyle.Render("  ✗ offline"))
		if s.Error != "" {
			b.WriteString("\n")
			b.WriteString(styles.MutedStyle.Render("  " + s.Error))
		}
		return b.String()
	}

	if s.Status != nil {
		b.WriteString(styles.SuccessStyle.Render("  signers: " + strings.Join(s.Status.Signers, ", ")))
		b.WriteString("\n")
	}
	for _, info := range s.Keys {
		b.WriteString(fmt.Sprintf("  %s %-12s %s  %s\n",
			styles.KeyTypeStyle(info.KeyType).Render(fmt.Sprintf("%-7s", info.KeyType)),
			info.KeyID,
			info.EthAddress,
			styles.MutedStyle.Render(info.XAddress)))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	var parts []string
	for _, k := range keys.bindings() {
		h := k.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+styles.HelpDescStyle.Render(" "+h.Desc))
	}
	sep := "  │  "
	if m.showHelp {
		sep = "\n"
	}
	return styles.HelpBarStyle.Render(strings.Join(parts, sep))
}
