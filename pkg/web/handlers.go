package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-grocer/pkg/hub"
)

// ToolInfo describes an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleStatus returns the assistant's current state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleCatalog returns the loaded catalog
func (s *Server) handleCatalog(c *fiber.Ctx) error {
	return c.JSON(s.session.Catalog().Items())
}

// handleCart returns the live cart summary
func (s *Server) handleCart(c *fiber.Ctx) error {
	return c.JSON(s.session.Cart().Summarize())
}

// handleOrders returns placed orders, newest first
func (s *Server) handleOrders(c *fiber.Ctx) error {
	list, err := s.session.Orders().List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

// handleOrder returns a single order by id
func (s *Server) handleOrder(c *fiber.Ctx) error {
	order, err := s.session.Orders().Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}

// handleListTools returns available tools
func (s *Server) handleListTools(c *fiber.Ctx) error {
	infos := make([]ToolInfo, 0, len(s.tools))
	for _, t := range s.tools {
		infos = append(infos, ToolInfo{Name: t.Name, Description: t.Description})
	}
	return c.JSON(infos)
}

// TriggerToolRequest is the request body for triggering a tool
type TriggerToolRequest struct {
	Args map[string]interface{} `json:"args"`
}

// handleTriggerTool triggers a tool manually from the dashboard
func (s *Server) handleTriggerTool(c *fiber.Ctx) error {
	name := c.Params("name")

	var req TriggerToolRequest
	if err := c.BodyParser(&req); err != nil {
		req.Args = make(map[string]interface{})
	}

	trigger := s.OnToolTrigger
	if trigger == nil {
		trigger = s.runTool
	}

	result, err := trigger(name, req.Args)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	s.AddLog("tool", "Manual: "+name+" → "+result)
	s.RefreshCart()

	return c.JSON(fiber.Map{
		"tool":   name,
		"result": result,
	})
}

// runTool executes a registered tool handler by name.
func (s *Server) runTool(name string, args map[string]interface{}) (string, error) {
	for _, t := range s.tools {
		if t.Name == name && t.Handler != nil {
			return t.Handler(args)
		}
	}
	return "", fiber.NewError(404, "unknown tool: "+name)
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleGetConversation returns recent conversation
func (s *Server) handleGetConversation(c *fiber.Ctx) error {
	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	return c.JSON(s.conversation)
}

// handleGoogleStatus reports the receipt sync connection state
func (s *Server) handleGoogleStatus(c *fiber.Ctx) error {
	if s.receipts == nil {
		return c.JSON(fiber.Map{"configured": false})
	}
	st := s.receipts.Status()
	return c.JSON(fiber.Map{
		"configured": true,
		"connected":  st.Connected,
		"auth_url":   st.AuthURL,
		"doc_url":    st.DocURL,
	})
}

// handleGoogleCallback completes the OAuth flow
func (s *Server) handleGoogleCallback(c *fiber.Ctx) error {
	if s.receipts == nil {
		return c.Status(503).SendString("Google sync not configured")
	}
	code := c.Query("code")
	if code == "" {
		return c.Status(400).SendString("missing code")
	}
	if err := s.receipts.HandleCallback(code); err != nil {
		return c.Status(500).SendString("authorization failed: " + err.Error())
	}
	s.AddLog("info", "Google Docs receipt sync connected")
	return c.SendString("Connected. You can close this tab.")
}

// handleGoogleDisconnect severs the receipt sync connection
func (s *Server) handleGoogleDisconnect(c *fiber.Ctx) error {
	if s.receipts == nil {
		return c.Status(503).JSON(fiber.Map{"error": "not configured"})
	}
	if err := s.receipts.Disconnect(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"disconnected": true})
}

// handleLogsWS streams live logs over WebSocket
func (s *Server) handleLogsWS(c *websocket.Conn) {
	// Send recent logs before joining the broadcast set
	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()

	client := hub.NewClient(s.logHub, c)
	client.Run() // Blocks until the connection closes
}

// handleStatusWS streams state updates over WebSocket
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Send current status first
	s.stateMu.RLock()
	c.WriteJSON(s.state)
	s.stateMu.RUnlock()

	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
