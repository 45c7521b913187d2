package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Stream keys a client can subscribe to
const (
	StreamAllLogs = "logs:all"
)

// TemplateStreamKey is the stream of logs for one template name
func TemplateStreamKey(templateName string) string {
	return fmt.Sprintf("template:%s", templateName)
}

// SSEHub manages Server-Sent Events connections for real-time campaign log streaming
type SSEHub struct {
	// Key format: "logs:all" or "template:<name>"
	clients map[string]map[chan []byte]bool
	mu      sync.RWMutex
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]map[chan []byte]bool),
	}
}

// RegisterClient registers a new SSE client for a stream key
func (h *SSEHub) RegisterClient(key string) chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	clientChan := make(chan []byte, 10)

	if h.clients[key] == nil {
		h.clients[key] = make(map[chan []byte]bool)
	}
	h.clients[key][clientChan] = true

	logrus.Infof("SSE client registered for %s (total clients: %d)", key, len(h.clients[key]))
	return clientChan
}

// UnregisterClient unregisters an SSE client and closes its channel
func (h *SSEHub) UnregisterClient(key string, clientChan chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[key] != nil {
		if _, ok := h.clients[key][clientChan]; ok {
			delete(h.clients[key], clientChan)
			close(clientChan)
		}

		if len(h.clients[key]) == 0 {
			delete(h.clients, key)
		}
	}

	logrus.Infof("SSE client unregistered for %s (remaining clients: %d)", key, len(h.clients[key]))
}

// BroadcastLog sends a newly created log to the global stream and to its template's stream
func (h *SSEHub) BroadcastLog(log *models.CampaignLog) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.broadcastToKeyLocked(StreamAllLogs, log, h.clients[StreamAllLogs])

	templateKey := TemplateStreamKey(log.TemplateName)
	h.broadcastToKeyLocked(templateKey, log, h.clients[templateKey])
}

// broadcastToKeyLocked assumes the read lock is held
func (h *SSEHub) broadcastToKeyLocked(key string, log *models.CampaignLog, clients map[chan []byte]bool) {
	if len(clients) == 0 {
		return
	}

	message, err := FormatLogEvent(log)
	if err != nil {
		logrus.Errorf("Failed to marshal log for SSE: %v", err)
		return
	}

	for clientChan := range clients {
		select {
		case clientChan <- message:
		default:
			logrus.Warnf("SSE client channel full, skipping: %s", key)
		}
	}
}

// FormatLogEvent encodes a log as an SSE "log" event
func FormatLogEvent(log *models.CampaignLog) ([]byte, error) {
	logJSON, err := json.Marshal(log)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: log\ndata: %s\n\n", string(logJSON))), nil
}

// GetClientCount returns the number of clients subscribed to a stream key
func (h *SSEHub) GetClientCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

// SendHeartbeat sends a comment line to every client to keep idle connections open
func (h *SSEHub) SendHeartbeat() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	heartbeat := []byte(fmt.Sprintf(": heartbeat %s\n\n", time.Now().Format(time.RFC3339)))
	for _, clients := range h.clients {
		for clientChan := range clients {
			select {
			case clientChan <- heartbeat:
			default:
			}
		}
	}
}
