package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teslashibe/go-grocer/internal/log"
	"github.com/teslashibe/go-grocer/pkg/catalog"
	"github.com/teslashibe/go-grocer/pkg/orders"
	"github.com/teslashibe/go-grocer/pkg/shop"
	"github.com/teslashibe/go-grocer/pkg/voice"
	_ "github.com/teslashibe/go-grocer/pkg/voice/bundled" // Register voice providers
	"github.com/teslashibe/go-grocer/pkg/web"
)

// Instructions contains the assistant's personality and behavior guidelines.
const Instructions = `You are a helpful voice shopping assistant for a small grocery store. The user is interacting with you via voice, even if you perceive the conversation as text.
Your responses are concise, to the point, and without any complex formatting including emojis, asterisks, or other weird symbols. Speak prices as plain words, never as symbols.
You are friendly and have a sense of humor.

SHOPPING TOOLS - USE THESE ACTIVELY:
- search_catalog: Find items and prices when the user asks what is available
- add_to_cart: Put an item in the cart (merges quantities if already there)
- add_recipe: Add all ingredients for a known recipe at once
- remove_from_cart: Take an item out of the cart
- list_cart: Read back the cart contents and total
- list_recipes: Tell the user which recipes you know
- place_order: Finalize the order; ask for a name and delivery address first

BEHAVIOR:
- Keep responses conversational - 1-2 sentences usually
- When the user names an item, pass their words to the tool; it resolves names to catalog items
- Confirm what was added or removed using the tool's reply
- Before placing an order, read back the cart and the total
- If an item is not in the catalog, say so and suggest a search
- Never invent items or prices - always go through the tools

TOOL EXECUTION:
- Execute tools SILENTLY - never say what tool you're calling
- Just call the tool and continue the conversation naturally`

// App is the main application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config Config

	// Commerce state
	session *shop.Session

	// Voice pipeline
	voicePipeline voice.Pipeline

	// Optional Google Docs receipt ledger
	receipts *orders.ReceiptSync

	// Web dashboard
	webServer *web.Server

	// Response tracking
	respMu          sync.Mutex
	responseStarted bool
	currentResponse string
}

// New creates a new application with the given configuration.
func New(cfg Config) (*App, error) {
	// Apply environment overrides
	cfg.LoadEnvConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &App{config: cfg}, nil
}

// Init initializes all components.
// Call this after New() and before Run().
func (a *App) Init() error {
	// Catalog load failure is fatal: an assistant with an empty
	// catalog would agree to sell nothing.
	cat, err := a.loadCatalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	log.Info("catalog loaded", "items", cat.Len())

	store, err := orders.NewJSONStore(a.config.OrdersDir)
	if err != nil {
		return fmt.Errorf("order store: %w", err)
	}

	a.session = shop.NewSession(cat, store)

	if a.config.GoogleClientID != "" && a.config.GoogleClientSecret != "" {
		rs, err := orders.NewReceiptSync(orders.ReceiptSyncConfig{
			ClientID:     a.config.GoogleClientID,
			ClientSecret: a.config.GoogleClientSecret,
			RedirectURL:  "http://localhost:" + a.config.WebPort + "/api/google/callback",
		})
		if err != nil {
			log.Warn("receipt sync disabled", "error", err)
		} else {
			a.receipts = rs
		}
	}

	return nil
}

// Run starts the assistant and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	tools := a.buildTools()

	a.webServer = web.NewServer(web.Config{
		Port:     a.config.WebPort,
		Session:  a.session,
		Tools:    tools,
		Receipts: a.receipts,
	})
	a.webServer.StartAsync()

	if err := a.connectVoicePipeline(ctx, tools); err != nil {
		return fmt.Errorf("voice pipeline: %w", err)
	}

	// Wait for pipeline ready
	for i := 0; i < 50; i++ {
		if a.voicePipeline.IsConnected() {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	a.webServer.UpdateState(func(s *web.ShopState) {
		s.PipelineConnected = a.voicePipeline.IsConnected()
		s.Listening = true
	})
	a.webServer.AddLog("info", "assistant started")
	a.webServer.RefreshCart()

	log.Info("assistant listening")

	<-ctx.Done()
	return nil
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown() {
	if a.voicePipeline != nil {
		a.voicePipeline.Stop()
	}
	if a.webServer != nil {
		a.webServer.Shutdown()
	}
}

// Session exposes the commerce state, mainly for tests.
func (a *App) Session() *shop.Session {
	return a.session
}

// loadCatalog reads the catalog from the configured URL or path.
func (a *App) loadCatalog() (*catalog.Catalog, error) {
	if a.config.CatalogURL != "" {
		return catalog.LoadURL(a.config.CatalogURL)
	}
	return catalog.Load(a.config.CatalogPath)
}

// buildTools assembles the shopping tool surface with dashboard hooks.
func (a *App) buildTools() []voice.Tool {
	return shop.Tools(shop.ToolsConfig{
		Session: a.session,
		OnCartChange: func() {
			if a.webServer != nil {
				a.webServer.RefreshCart()
			}
		},
		OnOrder: func(order *orders.Order) {
			log.Info("order placed", "id", order.ID, "total", order.Total)
			if a.webServer != nil {
				a.webServer.AddLog("order", fmt.Sprintf("order %s placed, total %.0f", order.ID, order.Total))
			}
			if a.receipts != nil && a.receipts.IsAuthenticated() {
				go func() {
					if err := a.receipts.Sync(order); err != nil {
						log.Warn("receipt sync failed", "id", order.ID, "error", err)
					}
				}()
			}
		},
	})
}

// connectVoicePipeline creates, wires, and starts the voice pipeline.
func (a *App) connectVoicePipeline(ctx context.Context, tools []voice.Tool) error {
	voiceCfg := a.config.ToVoiceConfig()
	voiceCfg.SystemPrompt = Instructions

	pipeline, err := voice.New(voiceCfg)
	if err != nil {
		return fmt.Errorf("failed to create voice pipeline: %w", err)
	}
	a.voicePipeline = pipeline

	for _, tool := range tools {
		a.voicePipeline.RegisterTool(tool)
	}

	a.voicePipeline.OnTranscript(func(text string, isFinal bool) {
		if isFinal && text != "" {
			log.Info("user said", "text", text)
			a.respMu.Lock()
			a.responseStarted = false
			a.respMu.Unlock()
			if a.webServer != nil {
				a.webServer.UpdateState(func(s *web.ShopState) {
					s.LastUserMessage = text
					s.Listening = true
					s.Speaking = false
				})
				a.webServer.AddConversation("user", text)
			}
		}
	})

	a.voicePipeline.OnResponse(func(text string, isFinal bool) {
		a.respMu.Lock()
		defer a.respMu.Unlock()
		if !isFinal && text != "" {
			if !a.responseStarted {
				a.responseStarted = true
				a.currentResponse = ""
			}
			a.currentResponse += text
			return
		}
		if isFinal {
			a.responseStarted = false
			if a.webServer != nil && a.currentResponse != "" {
				reply := a.currentResponse
				a.webServer.UpdateState(func(s *web.ShopState) {
					s.Speaking = true
					s.Listening = false
					s.LastReply = reply
				})
				a.webServer.AddConversation("assistant", reply)
			}
			a.currentResponse = ""
		}
	})

	a.voicePipeline.OnError(func(err error) {
		log.Error("voice pipeline error", "error", err)
		if a.webServer != nil {
			a.webServer.AddLog("error", err.Error())
		}
	})

	return a.voicePipeline.Start(ctx)
}
