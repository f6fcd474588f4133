package realtime

import "sync"

// Hub mantiene las conexiones vivas de ESTE proceso, indexadas por
// (subject, scope) → handle. El registro cross-proceso vive en el
// PresenceRegistry; el hub sólo sabe entregar a sus propias conexiones.
type Hub struct {
	mu      sync.RWMutex
	clients map[hubKey]map[string]*Client
}

type hubKey struct {
	subjectID string
	scope     string
}

// NewHub crea un hub vacío.
func NewHub() *Hub {
	return &Hub{clients: make(map[hubKey]map[string]*Client)}
}

// Register agrega un cliente al índice local.
func (h *Hub) Register(c *Client) {
	k := hubKey{subjectID: c.SubjectID, scope: c.Scope}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[k] == nil {
		h.clients[k] = make(map[string]*Client)
	}
	h.clients[k][c.Handle] = c
}

// Unregister saca un cliente del índice local. No-op si no estaba.
func (h *Hub) Unregister(c *Client) {
	k := hubKey{subjectID: c.SubjectID, scope: c.Scope}

	h.mu.Lock()
	defer h.mu.Unlock()

	if m := h.clients[k]; m != nil {
		delete(m, c.Handle)
		if len(m) == 0 {
			delete(h.clients, k)
		}
	}
}

// Deliver encola el payload a todas las conexiones locales del subject en el
// scope. Devuelve cuántas lo aceptaron; una cola llena descarta para esa
// conexión en vez de bloquear al emisor.
func (h *Hub) Deliver(subjectID, scope string, payload []byte) int {
	k := hubKey{subjectID: subjectID, scope: scope}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[k]))
	for _, c := range h.clients[k] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		select {
		case <-c.Done():
			// Cliente apagándose: todavía en el índice pero ya no recibe.
			continue
		default:
		}
		select {
		case c.Send <- payload:
			delivered++
		default:
			// Cola llena: el receptor está atrasado, no frenamos al resto.
		}
	}
	return delivered
}
