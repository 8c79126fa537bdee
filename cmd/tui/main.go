package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/lapakhq/lapak/cmd/tui/internal/view"
	"github.com/lapakhq/lapak/internal/advisor"
	"github.com/lapakhq/lapak/internal/config"
	"github.com/lapakhq/lapak/internal/database"
	"github.com/lapakhq/lapak/internal/ledger"
	"github.com/lapakhq/lapak/internal/store"
	"github.com/lapakhq/lapak/internal/store/memory"
	"github.com/lapakhq/lapak/internal/store/postgres"
	"github.com/lapakhq/lapak/internal/store/sqlite"
)

type model struct {
	svc     *ledger.Service
	advisor advisor.HealthAdvisor

	currentView View

	dashboardView view.DashboardModel
	saleView      view.EntryModel
	purchaseView  view.EntryModel
	txView        view.TransactionsModel
	inventoryView view.InventoryModel
	auditView     view.AuditModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewSale      View = 2
	ViewPurchase  View = 3
	ViewTxList    View = 4
	ViewInventory View = 5
	ViewAudit     View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	kv, err := openKV(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(store.New(kv))

	var adv advisor.HealthAdvisor
	if cfg.Advisor.APIKey != "" {
		adv = advisor.NewGemini(advisor.GeminiConfig{
			APIKey:     cfg.Advisor.APIKey,
			Model:      cfg.Advisor.Model,
			HTTPClient: &http.Client{Timeout: cfg.Advisor.Timeout},
		})
	} else {
		adv = advisor.NewRules()
	}

	return model{
		svc:         svc,
		advisor:     adv,
		currentView: ViewMenu,
	}
}

func openKV(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.New(), nil
	case "postgres":
		db, err := database.New("pgx", cfg.DSN())
		if err != nil {
			return nil, err
		}

		kv := postgres.New(db)
		if err := kv.Ensure(ctx); err != nil {
			return nil, err
		}

		return kv, nil
	case "sqlite":
		db, err := database.New("sqlite", cfg.DSN())
		if err != nil {
			return nil, err
		}

		kv := sqlite.New(db)
		if err := kv.Ensure(ctx); err != nil {
			return nil, err
		}

		return kv, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.svc)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewSale
				m.saleView = view.NewEntryModel(m.svc, ledger.TypeSale)

				return m, m.saleView.Init()
			case "3":
				m.currentView = ViewPurchase
				m.purchaseView = view.NewEntryModel(m.svc, ledger.TypePurchase)

				return m, m.purchaseView.Init()
			case "4":
				m.currentView = ViewTxList
				m.txView = view.NewTransactionsModel(m.svc)

				return m, m.txView.Init()
			case "5":
				m.currentView = ViewInventory
				m.inventoryView = view.NewInventoryModel(m.svc)

				return m, m.inventoryView.Init()
			case "6":
				m.currentView = ViewAudit
				m.auditView = view.NewAuditModel(m.svc, m.advisor)

				return m, m.auditView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewSale:
		var newModel tea.Model
		newModel, cmd = m.saleView.Update(msg)
		m.saleView = newModel.(view.EntryModel)
	case ViewPurchase:
		var newModel tea.Model
		newModel, cmd = m.purchaseView.Update(msg)
		m.purchaseView = newModel.(view.EntryModel)
	case ViewTxList:
		var newModel tea.Model
		newModel, cmd = m.txView.Update(msg)
		m.txView = newModel.(view.TransactionsModel)
	case ViewInventory:
		var newModel tea.Model
		newModel, cmd = m.inventoryView.Update(msg)
		m.inventoryView = newModel.(view.InventoryModel)
	case ViewAudit:
		var newModel tea.Model
		newModel, cmd = m.auditView.Update(msg)
		m.auditView = newModel.(view.AuditModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Lapak TUI\n\n" +
				"1. Dashboard\n" +
				"2. Record Sale\n" +
				"3. Record Purchase\n" +
				"4. Transactions\n" +
				"5. Inventory\n" +
				"6. Business Health Audit\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewSale:
		return m.saleView.View()
	case ViewPurchase:
		return m.purchaseView.View()
	case ViewTxList:
		return m.txView.View()
	case ViewInventory:
		return m.inventoryView.View()
	case ViewAudit:
		return m.auditView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
