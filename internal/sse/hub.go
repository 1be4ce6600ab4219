package sse

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"repohub/internal/model"
)

// Client receives events for one repository, or for all of them when RepositoryID is uuid.Nil.
type Client struct {
	RepositoryID uuid.UUID
	Ch           chan model.RepositoryEvent
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.RepositoryEvent
	clients    map[uuid.UUID]map[*Client]struct{}
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.RepositoryEvent, 64),
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues an event without blocking; it is dropped when the queue is full.
func (h *Hub) Broadcast(event model.RepositoryEvent) bool {
	select {
	case h.broadcast <- event:
		return true
	default:
		return false
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

// Subscribers returns the number of registered clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.RepositoryID] == nil {
		h.clients[client.RepositoryID] = make(map[*Client]struct{})
	}
	h.clients[client.RepositoryID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[client.RepositoryID]
	if set == nil {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.RepositoryID)
	}
}

func (h *Hub) fanOut(event model.RepositoryEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	send(h.clients[uuid.Nil], event)
	if event.Repository.ID != uuid.Nil {
		send(h.clients[event.Repository.ID], event)
	}
}

func send(set map[*Client]struct{}, event model.RepositoryEvent) {
	for client := range set {
		select {
		case client.Ch <- event:
		default:
			// Drop if the client is too slow.
		}
	}
}
