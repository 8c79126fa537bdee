package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/lapakhq/lapak/internal/ledger"
)

type entryState int

const (
	entryStateLoading entryState = iota
	entryStateItem
	entryStateCheckout
	entryStateDone
)

// EntryModel records a sale or a purchase. Items are collected one by
// one, then the counterparty and payment method close the draft.
type EntryModel struct {
	CommonModel
	svc    *ledger.Service
	txType ledger.Type

	state    entryState
	products []ledger.Product
	parties  []string
	items    []ledger.DraftItem
	form     *huh.Form
	result   *ledger.Transaction
	err      error
}

func NewEntryModel(svc *ledger.Service, txType ledger.Type) EntryModel {
	return EntryModel{svc: svc, txType: txType, state: entryStateLoading}
}

func (m EntryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entryLoadedMsg:
		if msg.err != nil {
			m.state = entryStateDone
			m.err = msg.err

			return m, nil
		}

		m.products = msg.products
		m.parties = msg.parties
		m.state = entryStateItem
		m.form = m.itemForm()

		return m, m.form.Init()

	case commitResultMsg:
		m.state = entryStateDone
		m.result = msg.tx
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || (m.state == entryStateDone && msg.String() == "q") {
			return m, Back
		}
	}

	if m.state != entryStateItem && m.state != entryStateCheckout {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == entryStateItem {
		return m.itemCompleted()
	}

	return m, m.commitCmd(
		m.form.GetString("counterparty"),
		ledger.PaymentMethod(m.form.GetString("payment")),
	)
}

func (m EntryModel) itemCompleted() (tea.Model, tea.Cmd) {
	id, err := uuid.Parse(m.form.GetString("product"))
	if err != nil {
		m.state = entryStateDone
		m.err = fmt.Errorf("invalid product selection: %w", err)

		return m, nil
	}

	qty, _ := strconv.Atoi(m.form.GetString("quantity"))

	var unitPrice *int64
	if s := strings.TrimSpace(m.form.GetString("price")); s != "" {
		parsed, _ := strconv.ParseInt(s, 10, 64)
		unitPrice = &parsed
	}

	m.items = append(m.items, ledger.DraftItem{
		ProductID: id,
		Quantity:  qty,
		UnitPrice: unitPrice,
	})

	if m.form.GetBool("another") {
		m.form = m.itemForm()
		return m, m.form.Init()
	}

	m.state = entryStateCheckout
	m.form = m.checkoutForm()

	return m, m.form.Init()
}

func (m EntryModel) itemForm() *huh.Form {
	options := make([]huh.Option[string], len(m.products))
	for i, p := range m.products {
		label := fmt.Sprintf("%s (%s), %d %s in stock", p.Name, p.SKU, p.Stock, p.Unit)
		options[i] = huh.NewOption(label, p.ID.String())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("product").
				Title("Product").
				Options(options...),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive whole number")
					}
					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Unit price (blank = catalog price)").
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}

					n, err := strconv.ParseInt(s, 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative amount in rupiah")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("another").
				Title("Add another item?").
				Affirmative("Yes").
				Negative("No"),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m EntryModel) checkoutForm() *huh.Form {
	partyTitle := "Customer"
	if m.txType == ledger.TypePurchase {
		partyTitle = "Supplier"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("counterparty").
				Title(partyTitle).
				Suggestions(m.parties).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("%s is required", strings.ToLower(partyTitle))
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("payment").
				Title("Payment method").
				Options(
					huh.NewOption("Cash", string(ledger.PaymentCash)),
					huh.NewOption("Credit", string(ledger.PaymentCredit)),
				),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m EntryModel) View() string {
	title := "Record Sale"
	if m.txType == ledger.TypePurchase {
		title = "Record Purchase"
	}

	header := lipgloss.NewStyle().Bold(true).Render(title)

	switch m.state {
	case entryStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nLoading catalog...")

	case entryStateItem, entryStateCheckout:
		cart := ""
		if len(m.items) > 0 {
			cart = lipgloss.NewStyle().Faint(true).
				Render(fmt.Sprintf("%d item(s) in draft", len(m.items))) + "\n\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + cart + m.form.View())

	case entryStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf(
				"%s\n\nFailed: %v\n\nEsc: back", header, m.err,
			))
		}

		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf(
			"%s\n\nRecorded %s for %s, total %s.\n\nEsc: back",
			header, m.result.ReferenceNumber, m.result.Counterparty,
			FormatAmount(m.result.TotalAmount),
		))
	}

	return ""
}

type entryLoadedMsg struct {
	products []ledger.Product
	parties  []string
	err      error
}

func (m EntryModel) loadCmd() tea.Cmd {
	svc := m.svc
	txType := m.txType

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		products, err := svc.Products(ctx)
		if err != nil {
			return entryLoadedMsg{err: err}
		}

		parties, err := svc.Counterparties(ctx, txType)
		if err != nil {
			return entryLoadedMsg{err: err}
		}

		return entryLoadedMsg{products: products, parties: parties}
	}
}

type commitResultMsg struct {
	tx  *ledger.Transaction
	err error
}

func (m EntryModel) commitCmd(counterparty string, payment ledger.PaymentMethod) tea.Cmd {
	svc := m.svc
	draft := ledger.Draft{
		Type:          m.txType,
		PaymentMethod: payment,
		Counterparty:  counterparty,
		Items:         m.items,
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		tx, err := svc.Commit(ctx, draft)

		return commitResultMsg{tx: tx, err: err}
	}
}
