package websocket

import (
	"time"

	"go.uber.org/zap"
)

// clientIdleLimit is how long a connection may go without any inbound frame
// before the reaper closes it. Ping/pong keeps the transport alive, so this
// catches abandoned tabs, not slow networks.
const clientIdleLimit = 30 * time.Minute

// ConnectionReaper closes client connections that have gone idle.
type ConnectionReaper struct {
	hub      *Hub
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewConnectionReaper creates a reaper for the hub's clients.
func NewConnectionReaper(hub *Hub, logger *zap.Logger) *ConnectionReaper {
	return &ConnectionReaper{
		hub:      hub,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background reaping process
func (r *ConnectionReaper) Start() {
	go r.reapLoop()
	r.logger.Info("Connection reaper started")
}

// Stop gracefully stops the reaper
func (r *ConnectionReaper) Stop() {
	close(r.stopChan)
	r.logger.Info("Connection reaper stopped")
}

func (r *ConnectionReaper) reapLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.reapIdle()
		}
	}
}

// reapIdle closes connections past the idle limit. Closing the conn makes
// the client's readPump exit and unregister itself.
func (r *ConnectionReaper) reapIdle() {
	r.hub.mu.RLock()
	var idle []*Client
	for _, client := range r.hub.clients {
		if client.IdleFor() > clientIdleLimit {
			idle = append(idle, client)
		}
	}
	r.hub.mu.RUnlock()

	for _, client := range idle {
		r.logger.Info("Closing idle connection", zap.String("userID", client.userID))
		client.conn.Close()
	}
}
