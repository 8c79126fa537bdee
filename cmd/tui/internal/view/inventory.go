package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/lapakhq/lapak/internal/ledger"
)

type invState int

const (
	invStateList invState = iota
	invStateEditing
)

// productItem wraps a product to implement list.Item.
type productItem struct {
	product ledger.Product
}

func (i productItem) Title() string {
	warn := ""
	if i.product.BelowMinStock() {
		warn = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render("  LOW")
	}

	return fmt.Sprintf("%s (%s)  %d %s%s",
		i.product.Name, i.product.SKU, i.product.Stock, i.product.Unit, warn)
}

func (i productItem) Description() string {
	return fmt.Sprintf("sell %s / cost %s / min %d",
		FormatAmount(i.product.Price), FormatAmount(i.product.Cost), i.product.MinStockLevel)
}

func (i productItem) FilterValue() string {
	return i.product.Name + " " + i.product.SKU
}

type InventoryModel struct {
	CommonModel
	svc *ledger.Service

	state   invState
	list    list.Model
	form    *huh.Form
	editing ledger.Product
	loading bool
	status  string
}

func NewInventoryModel(svc *ledger.Service) InventoryModel {
	l := list.New([]list.Item{}, productItemDelegate{}, 0, 0)
	l.Title = "Inventory"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return InventoryModel{svc: svc, list: l, loading: true}
}

func (m InventoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		m.loading = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.products))
		for i, p := range msg.products {
			items[i] = productItem{product: p}
		}

		m.list.SetItems(items)
		m.status = ""

		return m, nil

	case saveProductMsg:
		m.state = invStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Saved %s.", msg.product.Name)
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case invStateList:
		return m.updateList(msg)
	case invStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m InventoryModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			selected, ok := m.list.SelectedItem().(productItem)
			if !ok {
				return m, nil
			}

			return m.startEditing(selected.product)
		case "n":
			return m.startEditing(ledger.Product{Unit: "pcs"})
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m InventoryModel) startEditing(p ledger.Product) (tea.Model, tea.Cmd) {
	m.editing = p
	m.form = productForm(p)
	m.state = invStateEditing

	return m, m.form.Init()
}

func prefilled(s string) *string {
	v := s
	return &v
}

func productForm(p ledger.Product) *huh.Form {
	intField := func(key, title string, value int) *huh.Input {
		return huh.NewInput().
			Key(key).
			Title(title).
			Value(prefilled(strconv.Itoa(value))).
			Validate(validateNonNegativeInt)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(prefilled(p.Name)).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("sku").
				Title("SKU").
				Value(prefilled(p.SKU)).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("SKU is required")
					}
					return nil
				}),

			intField("price", "Selling price (rupiah)", int(p.Price)),
			intField("cost", "Cost price (rupiah)", int(p.Cost)),
			intField("stock", "Stock", p.Stock),
			intField("min_stock", "Minimum stock", p.MinStockLevel),

			huh.NewInput().
				Key("unit").
				Title("Unit").
				Value(prefilled(p.Unit)),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative whole number")
	}

	return nil
}

func (m InventoryModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	price, _ := strconv.ParseInt(strings.TrimSpace(m.form.GetString("price")), 10, 64)
	cost, _ := strconv.ParseInt(strings.TrimSpace(m.form.GetString("cost")), 10, 64)
	stock, _ := strconv.Atoi(strings.TrimSpace(m.form.GetString("stock")))
	minStock, _ := strconv.Atoi(strings.TrimSpace(m.form.GetString("min_stock")))

	product := ledger.Product{
		ID:            m.editing.ID,
		Name:          strings.TrimSpace(m.form.GetString("name")),
		SKU:           strings.TrimSpace(m.form.GetString("sku")),
		Price:         price,
		Cost:          cost,
		Stock:         stock,
		MinStockLevel: minStock,
		Unit:          strings.TrimSpace(m.form.GetString("unit")),
	}

	return m, m.saveCmd(product)
}

func (m InventoryModel) View() string {
	switch m.state {
	case invStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading inventory...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		help := lipgloss.NewStyle().Faint(true).Render("Enter: edit | n: new | Esc: back")

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View() + "\n" + help)

	case invStateEditing:
		if m.form == nil {
			return ""
		}

		title := "Edit Product"
		if m.editing.ID == uuid.Nil {
			title = "New Product"
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + m.form.View(),
		)
	}

	return ""
}

type loadProductsMsg struct {
	products []ledger.Product
	err      error
}

func (m InventoryModel) loadCmd() tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		products, err := svc.Products(ctx)

		return loadProductsMsg{products: products, err: err}
	}
}

type saveProductMsg struct {
	product ledger.Product
	err     error
}

func (m InventoryModel) saveCmd(product ledger.Product) tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		saved, err := svc.SaveProduct(ctx, product)
		if err != nil {
			return saveProductMsg{err: err}
		}

		return saveProductMsg{product: *saved}
	}
}

// productItemDelegate renders items in the list.
type productItemDelegate struct{}

func (d productItemDelegate) Height() int                             { return 2 }
func (d productItemDelegate) Spacing() int                            { return 0 }
func (d productItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d productItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(productItem)
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
