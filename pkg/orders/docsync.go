package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// ReceiptSync mirrors placed orders into a Google Doc receipt ledger.
// The JSON file store stays the durable sink of record; the ledger is a
// best-effort convenience and a sync failure never fails an order.
type ReceiptSync struct {
	config      *oauth2.Config
	token       *oauth2.Token
	statePath   string
	docID       string
	docsService *docs.Service

	mu sync.RWMutex
}

// ReceiptSyncConfig configures the Google Docs receipt ledger.
type ReceiptSyncConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "http://localhost:8090/api/google/callback"
	StatePath    string // token + doc id storage (default: ~/.grocer/google_sync.json)
}

// syncState is what persists between sessions: the OAuth token and the
// id of the ledger doc we keep appending to.
type syncState struct {
	Token *oauth2.Token `json:"token"`
	DocID string        `json:"doc_id,omitempty"`
}

// NewReceiptSync creates a receipt sync client.
func NewReceiptSync(cfg ReceiptSyncConfig) (*ReceiptSync, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("orders: GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required for receipt sync")
	}

	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "http://localhost:8090/api/google/callback"
	}
	if cfg.StatePath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.StatePath = filepath.Join(homeDir, ".grocer", "google_sync.json")
	}

	s := &ReceiptSync{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/documents",
				"https://www.googleapis.com/auth/drive.file",
			},
			Endpoint: google.Endpoint,
		},
		statePath: cfg.StatePath,
	}

	if err := s.loadState(); err == nil && s.token != nil {
		if err := s.initService(); err != nil {
			s.token = nil
		}
	}

	return s, nil
}

// IsAuthenticated returns true when a valid token is loaded.
func (s *ReceiptSync) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.token.Valid()
}

// AuthURL returns the OAuth2 consent URL for the dashboard to open.
func (s *ReceiptSync) AuthURL() string {
	return s.config.AuthCodeURL("grocer-sync", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback exchanges the OAuth authorization code for a token.
func (s *ReceiptSync) HandleCallback(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("orders: exchange auth code: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.saveState(); err != nil {
		return fmt.Errorf("orders: save sync state: %w", err)
	}
	return s.initService()
}

// Disconnect drops the token and forgets the ledger doc.
func (s *ReceiptSync) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.docID = ""
	s.docsService = nil

	if err := os.Remove(s.statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("orders: remove sync state: %w", err)
	}
	return nil
}

// Sync appends one order to the receipt ledger doc, creating the doc on
// first use. Callers treat errors as advisory; the file store already
// holds the order.
func (s *ReceiptSync) Sync(order *Order) error {
	s.mu.RLock()
	service := s.docsService
	docID := s.docID
	s.mu.RUnlock()

	if service == nil {
		return fmt.Errorf("orders: receipt sync not authenticated")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if docID == "" {
		created, err := service.Documents.Create(&docs.Document{Title: "Grocer Receipts"}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("orders: create ledger doc: %w", err)
		}
		docID = created.DocumentId

		s.mu.Lock()
		s.docID = docID
		s.mu.Unlock()

		if err := s.saveState(); err != nil {
			return fmt.Errorf("orders: save sync state: %w", err)
		}
	}

	doc, err := service.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("orders: get ledger doc: %w", err)
	}

	// Insert just before the trailing newline of the document body.
	endIndex := doc.Body.Content[len(doc.Body.Content)-1].EndIndex - 1
	if endIndex < 1 {
		endIndex = 1
	}

	_, err = service.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: endIndex},
					Text:     formatReceipt(order),
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("orders: append receipt: %w", err)
	}
	return nil
}

// DocURL returns the URL of the ledger doc, or "" before first sync.
func (s *ReceiptSync) DocURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.docID == "" {
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", s.docID)
}

// SyncStatus reports the connection state for the dashboard.
type SyncStatus struct {
	Connected bool   `json:"connected"`
	AuthURL   string `json:"auth_url,omitempty"`
	DocURL    string `json:"doc_url,omitempty"`
}

// Status returns the current receipt sync status.
func (s *ReceiptSync) Status() SyncStatus {
	status := SyncStatus{Connected: s.IsAuthenticated()}
	if status.Connected {
		status.DocURL = s.DocURL()
	} else {
		status.AuthURL = s.AuthURL()
	}
	return status
}

// formatReceipt renders one order as ledger text.
func formatReceipt(order *Order) string {
	text := fmt.Sprintf("%s — %s\n", order.ID, order.Timestamp.Format("January 2, 2006 3:04 PM"))
	if order.CustomerName != "" {
		text += fmt.Sprintf("Customer: %s\n", order.CustomerName)
	}
	if order.Address != "" {
		text += fmt.Sprintf("Address: %s\n", order.Address)
	}
	for _, item := range order.Items {
		text += fmt.Sprintf("  %d x %s @ %.2f\n", item.Quantity, item.Name, item.Price)
	}
	text += fmt.Sprintf("Total: %.2f\n\n", order.Total)
	return text
}

func (s *ReceiptSync) initService() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return fmt.Errorf("orders: no token available")
	}

	ctx := context.Background()
	client := s.config.Client(ctx, s.token)

	service, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("orders: create docs service: %w", err)
	}
	s.docsService = service
	return nil
}

func (s *ReceiptSync) loadState() error {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		return err
	}

	var state syncState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = state.Token
	s.docID = state.DocID
	s.mu.Unlock()
	return nil
}

func (s *ReceiptSync) saveState() error {
	s.mu.RLock()
	state := syncState{Token: s.token, DocID: s.docID}
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.statePath), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.statePath, data, 0600)
}
