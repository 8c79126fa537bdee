package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lapakhq/lapak/internal/ledger"
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx ledger.Transaction
}

func (i txItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Status))

	return fmt.Sprintf("%s  %s  %s  %s  %s",
		FormatDate(i.tx.Date), i.tx.ReferenceNumber, i.tx.Type,
		FormatAmount(i.tx.TotalAmount), status)
}

func (i txItem) Description() string {
	names := make([]string, len(i.tx.Items))
	for idx, it := range i.tx.Items {
		names[idx] = fmt.Sprintf("%dx %s", it.Quantity, it.ProductName)
	}

	return fmt.Sprintf("%s: %s", i.tx.Counterparty, strings.Join(names, ", "))
}

func (i txItem) FilterValue() string {
	return i.tx.Counterparty + " " + i.tx.ReferenceNumber
}

type TransactionsModel struct {
	CommonModel
	svc *ledger.Service

	list    list.Model
	typeSel *ledger.Type
	loading bool
	status  string
}

func NewTransactionsModel(svc *ledger.Service) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{svc: svc, list: l, loading: true}
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.txs))
		for i, tx := range msg.txs {
			items[i] = txItem{tx: tx}
		}

		m.list.SetItems(items)

		m.status = ""
		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "s":
			t := ledger.TypeSale
			m.typeSel = &t
			m.loading = true

			return m, m.loadCmd()
		case "p":
			t := ledger.TypePurchase
			m.typeSel = &t
			m.loading = true

			return m, m.loadCmd()
		case "a":
			m.typeSel = nil
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	help := lipgloss.NewStyle().Faint(true).Render("s: sales | p: purchases | a: all | Esc: back")

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View() + "\n" + help)
}

type loadTxsMsg struct {
	txs []ledger.Transaction
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	svc := m.svc
	filter := ledger.ListFilter{Type: m.typeSel}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		txs, err := svc.Transactions(ctx, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
