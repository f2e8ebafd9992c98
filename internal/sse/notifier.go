package sse

import (
	"time"

	"github.com/replaygear/replay_api/internal/models"
)

// SellRequestNotifier is the interface services use to emit lifecycle events.
type SellRequestNotifier interface {
	NotifySubmitted(req *models.SellRequest)
	NotifyApproved(req *models.SellRequest, productID string)
	NotifyRejected(req *models.SellRequest)
}

// HubNotifier implements SellRequestNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifySubmitted(req *models.SellRequest) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(requestToEvent(EventSellRequestSubmitted, req, nil))
}

func (n *HubNotifier) NotifyApproved(req *models.SellRequest, productID string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(requestToEvent(EventSellRequestApproved, req, &productID))
}

func (n *HubNotifier) NotifyRejected(req *models.SellRequest) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(requestToEvent(EventSellRequestRejected, req, nil))
}

func requestToEvent(eventType EventType, req *models.SellRequest, productID *string) *SellRequestEvent {
	return &SellRequestEvent{
		Event:        eventType,
		RequestID:    req.ID,
		Reference:    req.Reference,
		Title:        req.Title,
		Category:     req.Category,
		AskingPrice:  req.AskingPrice,
		Status:       string(req.Status),
		ProductID:    productID,
		RejectReason: req.RejectReason,
		Timestamp:    time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifySubmitted(req *models.SellRequest)                  {}
func (n *NopNotifier) NotifyApproved(req *models.SellRequest, productID string) {}
func (n *NopNotifier) NotifyRejected(req *models.SellRequest)                   {}
