// Package web provides a real-time dashboard for the shopping assistant
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-grocer/internal/log"
	"github.com/teslashibe/go-grocer/pkg/hub"
	"github.com/teslashibe/go-grocer/pkg/orders"
	"github.com/teslashibe/go-grocer/pkg/shop"
	"github.com/teslashibe/go-grocer/pkg/voice"
)

// ShopState represents the assistant's current state for the dashboard
type ShopState struct {
	PipelineConnected bool    `json:"pipeline_connected"`
	Speaking          bool    `json:"speaking"`
	Listening         bool    `json:"listening"`
	CartLines         int     `json:"cart_lines"`
	CartTotal         float64 `json:"cart_total"`
	OrdersPlaced      int     `json:"orders_placed"`
	LastUserMessage   string  `json:"last_user_message"`
	LastReply         string  `json:"last_reply"`
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, tool, speech, error, order
	Message string `json:"message"`
}

// ConversationEntry represents a message in the conversation
type ConversationEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user, assistant, tool
	Message string `json:"message"`
}

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	port string

	session  *shop.Session
	tools    []voice.Tool
	receipts *orders.ReceiptSync // nil when Google sync is not configured

	// State
	state   ShopState
	stateMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Conversation buffer
	conversation   []ConversationEntry
	conversationMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub

	// Tool trigger callback; defaults to running the registered handler
	OnToolTrigger func(name string, args map[string]interface{}) (string, error)
}

// Config carries the dashboard server's dependencies.
type Config struct {
	Port     string
	Session  *shop.Session
	Tools    []voice.Tool
	Receipts *orders.ReceiptSync
}

// NewServer creates a new web dashboard server
func NewServer(cfg Config) *Server {
	s := &Server{
		port:         cfg.Port,
		session:      cfg.Session,
		tools:        cfg.Tools,
		receipts:     cfg.Receipts,
		logs:         make([]LogEntry, 0, 500),
		conversation: make([]ConversationEntry, 0, 100),
		statusHub:    hub.New("status"),
		logHub:       hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Grocer Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/catalog", s.handleCatalog)
	api.Get("/cart", s.handleCart)
	api.Get("/orders", s.handleOrders)
	api.Get("/orders/:id", s.handleOrder)
	api.Get("/tools", s.handleListTools)
	api.Post("/tools/:name", s.handleTriggerTool)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/conversation", s.handleGetConversation)

	// Google Docs receipt sync
	google := api.Group("/google")
	google.Get("/status", s.handleGoogleStatus)
	google.Get("/callback", s.handleGoogleCallback)
	google.Post("/disconnect", s.handleGoogleDisconnect)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("web dashboard listening", "url", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.logHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// UpdateState updates the dashboard state and broadcasts to clients
func (s *Server) UpdateState(update func(*ShopState)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state // Copy for broadcast
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// RefreshCart recomputes the cart figures and broadcasts the new state.
func (s *Server) RefreshCart() {
	sum := s.session.Cart().Summarize()
	s.UpdateState(func(st *ShopState) {
		st.CartLines = len(sum.Lines)
		st.CartTotal = sum.Total
		st.OrdersPlaced = s.session.Orders().Count()
	})
}

// AddLog adds a log entry and broadcasts to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// AddConversation adds a conversation entry
func (s *Server) AddConversation(role, message string) {
	entry := ConversationEntry{
		Time:    time.Now().Format("15:04:05"),
		Role:    role,
		Message: message,
	}

	s.conversationMu.Lock()
	s.conversation = append(s.conversation, entry)
	if len(s.conversation) > 100 {
		s.conversation = s.conversation[1:]
	}
	s.conversationMu.Unlock()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
