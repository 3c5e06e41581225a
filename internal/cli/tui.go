package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meltgauge/internal/config"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/render"
	"github.com/matzehuels/meltgauge/pkg/store"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

// Screen layout of the view: title, help line, then the bordered gauge.
// The gauge interior starts one cell right of and one row below the border.
const (
	gaugeLeft   = 1
	gaugeTop    = 3
	chromeLines = 6 // title, help, two border rows, blank, status
	minViewRows = 4
)

var (
	gaugeBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	tooltipStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
	tooltipTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

func (c *CLI) viewCommand() *cobra.Command {
	tankID := defaultTankID

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show a tank gauge in the terminal",
		Long: `Show an interactive gauge for a tank.

Hover a layer to see its tooltip. Hold Shift or press tab for bucket units.
Click a layer to move that fluid to the bottom of the tank.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(cfg config.Config, s store.Store) error {
				sender, closeSender, err := newSender(cfg, s)
				if err != nil {
					return err
				}
				defer closeSender()

				m := NewGaugeModel(ctx, s, sender, tankID, viewWidget(cfg))
				final, err := tea.NewProgram(m,
					tea.WithContext(ctx),
					tea.WithAltScreen(),
					tea.WithMouseAllMotion(),
				).Run()
				if err != nil {
					return err
				}
				if gm, ok := final.(GaugeModel); ok && gm.Err != nil {
					return gm.Err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tankID, "tank", "t", tankID, "tank id")
	return cmd
}

// viewWidget places the configured widget at the view's gauge origin.
func viewWidget(cfg config.Config) gauge.Widget {
	w := cfg.GaugeWidget()
	w.Bounds.X, w.Bounds.Y = gaugeLeft, gaugeTop
	return w
}

// =============================================================================
// GaugeModel - Interactive gauge
// =============================================================================

type tankLoadedMsg struct {
	tank *tank.Tank
	err  error
}

type clickDoneMsg struct {
	index int
	name  string
	sent  bool
	err   error
}

// GaugeModel is the bubbletea model for the interactive gauge.
type GaugeModel struct {
	ctx    context.Context
	store  store.Store
	sender events.Sender

	TankID string
	Tank   *tank.Tank
	Widget gauge.Widget
	Hover  *[2]int
	Detail bool // toggled with tab
	Shift  bool // held during the last mouse event
	Status string
	Err    error // fatal load error; ends the program

	maxHeight int
}

// NewGaugeModel creates a model that shows tankID from s and sends clicks
// through sender.
func NewGaugeModel(ctx context.Context, s store.Store, sender events.Sender, tankID string, w gauge.Widget) GaugeModel {
	return GaugeModel{
		ctx:       ctx,
		store:     s,
		sender:    sender,
		TankID:    tankID,
		Widget:    w,
		maxHeight: w.Bounds.H,
	}
}

func (m GaugeModel) Init() tea.Cmd {
	return m.load
}

func (m GaugeModel) load() tea.Msg {
	t, err := loadTank(m.ctx, m.store, m.TankID)
	return tankLoadedMsg{tank: t, err: err}
}

func (m GaugeModel) click(x, y int) tea.Cmd {
	t, w, sender := m.Tank, m.Widget, m.sender
	return func() tea.Msg {
		i, ok := w.Hovered(t, x, y)
		if !ok {
			return clickDoneMsg{}
		}
		sent, err := w.Click(m.ctx, t, x, y, sender)
		return clickDoneMsg{index: i, name: t.Fluids[i].Name, sent: sent, err: err}
	}
}

func (m GaugeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.Detail = !m.Detail
		case "r":
			return m, m.load
		}

	case tea.MouseMsg:
		m.Hover = &[2]int{msg.X, msg.Y}
		m.Shift = msg.Shift
		if m.Tank != nil && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.click(msg.X, msg.Y)
		}

	case tea.WindowSizeMsg:
		m.Widget.Bounds.H = max(minViewRows, min(m.maxHeight, msg.Height-chromeLines))

	case tankLoadedMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, tea.Quit
		}
		m.Tank = msg.tank

	case clickDoneMsg:
		switch {
		case msg.err != nil:
			m.Status = StyleWarning.Render("Click failed: " + msg.err.Error())
		case msg.sent:
			m.Status = StyleSuccess.Render(fmt.Sprintf("Moved %s to the bottom", gauge.DisplayName(msg.name)))
			return m, m.load
		}
	}
	return m, nil
}

func (m GaugeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName + " · " + m.TankID))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("hover: tooltip  click: move to bottom  tab/shift: buckets  r: reload  q: quit"))
	b.WriteString("\n")

	if m.Tank == nil {
		b.WriteString(StyleDim.Render("loading..."))
		return b.String()
	}

	box := gaugeBoxStyle.Render(render.RenderText(m.Widget, m.Tank, render.TextOptions{Hover: m.Hover}))
	if lines := m.tooltip(); len(lines) > 0 {
		body := tooltipTitle.Render(lines[0])
		if len(lines) > 1 {
			body += "\n" + StyleDim.Render(strings.Join(lines[1:], "\n"))
		}
		box = lipgloss.JoinHorizontal(lipgloss.Top, box, " ", tooltipStyle.Render(body))
	}
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.Status)
	return b.String()
}

func (m GaugeModel) tooltip() []string {
	if m.Hover == nil || m.Tank == nil {
		return nil
	}
	lines, _ := m.Widget.Tooltip(m.Tank, m.Hover[0], m.Hover[1], m.Detail || m.Shift)
	return lines
}
