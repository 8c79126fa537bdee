package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lapakhq/lapak/internal/advisor"
	"github.com/lapakhq/lapak/internal/ledger"
)

var severityStyles = map[advisor.Severity]lipgloss.Style{
	advisor.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
	advisor.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	advisor.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

type AuditModel struct {
	CommonModel
	svc     *ledger.Service
	advisor advisor.HealthAdvisor

	running  bool
	findings []advisor.Finding
	err      error
}

func NewAuditModel(svc *ledger.Service, adv advisor.HealthAdvisor) AuditModel {
	return AuditModel{svc: svc, advisor: adv, running: true}
}

func (m AuditModel) Init() tea.Cmd {
	return m.runCmd()
}

func (m AuditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case auditDoneMsg:
		m.running = false
		m.findings = msg.findings
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			if !m.running {
				m.running = true
				return m, m.runCmd()
			}
		}
	}

	return m, nil
}

func (m AuditModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Business Health Audit")

	if m.running {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nAnalyzing ledger and inventory...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf(
			"%s\n\nFailed: %v\n\nEsc: back", header, m.err,
		))
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, f := range m.findings {
		sev := severityStyles[f.Severity].Render(fmt.Sprintf("[%s]", f.Severity))
		b.WriteString(fmt.Sprintf("%s %s\n", sev, f.Message))

		if f.Recommendation != "" {
			b.WriteString(lipgloss.NewStyle().Faint(true).Render("      " + f.Recommendation))
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	b.WriteString("r: run again | Esc: back")

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

type auditDoneMsg struct {
	findings []advisor.Finding
	err      error
}

func (m AuditModel) runCmd() tea.Cmd {
	svc := m.svc
	adv := m.advisor

	return func() tea.Msg {
		// The advisor may call out to a model; allow more than a store read.
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		txs, err := svc.Transactions(ctx, ledger.ListFilter{})
		if err != nil {
			return auditDoneMsg{err: err}
		}

		products, err := svc.Products(ctx)
		if err != nil {
			return auditDoneMsg{err: err}
		}

		return auditDoneMsg{findings: adv.AnalyzeBusinessHealth(ctx, txs, products)}
	}
}
