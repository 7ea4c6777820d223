package controller

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"imovelhub/models"
)

// Live lead feed for the admin dashboard. Connections register here
// and every new lead is pushed to all of them.
var (
	leadFeedMu    sync.Mutex
	leadFeedConns = make(map[*websocket.Conn]struct{})
)

type leadEvent struct {
	Type         string    `json:"type"`
	LeadID       uint      `json:"lead_id"`
	PropertyID   uint      `json:"property_id"`
	PropertyCode string    `json:"property_code"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// HandleLeadFeedWS keeps an admin connection subscribed until it
// closes. Reads are discarded; the socket is push-only.
func HandleLeadFeedWS(c *websocket.Conn) {
	leadFeedMu.Lock()
	leadFeedConns[c] = struct{}{}
	leadFeedMu.Unlock()

	defer func() {
		leadFeedMu.Lock()
		delete(leadFeedConns, c)
		leadFeedMu.Unlock()
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// BroadcastLead pushes a new lead to every subscribed admin. Dead
// connections are dropped on write failure.
func BroadcastLead(lead *models.Lead, property *models.Property) {
	event := leadEvent{
		Type:         "new_lead",
		LeadID:       lead.ID,
		PropertyID:   property.ID,
		PropertyCode: property.PropertyCode,
		Name:         lead.Name,
		Phone:        lead.Phone,
		CreatedAt:    lead.CreatedAt,
	}

	leadFeedMu.Lock()
	defer leadFeedMu.Unlock()
	for conn := range leadFeedConns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("lead feed: dropping connection: %v", err)
			conn.Close()
			delete(leadFeedConns, conn)
		}
	}
}
