package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lapakhq/lapak/internal/ledger"
)

var (
	dashTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dashBoxStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	dashWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

type DashboardModel struct {
	CommonModel
	svc *ledger.Service

	loading  bool
	summary  ledger.Summary
	lowStock []ledger.Product
	err      error
}

func NewDashboardModel(svc *ledger.Service) DashboardModel {
	return DashboardModel{svc: svc, loading: true}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.lowStock = msg.lowStock
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\nEsc: back", m.err))
	}

	profit := m.summary.Revenue - m.summary.Expenses

	summaryBox := dashBoxStyle.Render(fmt.Sprintf(
		"Revenue:     %s\nExpenses:    %s\nProfit:      %s\nReceivables: %s\nPayables:    %s",
		FormatAmount(m.summary.Revenue),
		FormatAmount(m.summary.Expenses),
		FormatAmount(profit),
		FormatAmount(m.summary.Receivables),
		FormatAmount(m.summary.Payables),
	))

	var b strings.Builder
	b.WriteString(dashTitleStyle.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(summaryBox)
	b.WriteString("\n\n")

	if len(m.lowStock) == 0 {
		b.WriteString("All products above minimum stock.\n")
	} else {
		b.WriteString(dashWarnStyle.Render(fmt.Sprintf("Low stock (%d):", len(m.lowStock))))
		b.WriteString("\n")

		for _, p := range m.lowStock {
			b.WriteString(fmt.Sprintf("  %s (%s): %d %s, minimum %d\n",
				p.Name, p.SKU, p.Stock, p.Unit, p.MinStockLevel))
		}
	}

	b.WriteString("\nr: refresh | Esc: back")

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

type dashboardLoadedMsg struct {
	summary  ledger.Summary
	lowStock []ledger.Product
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		summary, err := svc.Summary(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		lowStock, err := svc.LowStock(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{summary: summary, lowStock: lowStock}
	}
}
