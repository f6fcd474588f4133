package realtime

import "sync"

// Client representa una conexión websocket establecida.
//
// Send no se cierra nunca desde el server: cerrarlo con broadcasters
// concurrentes es un panic esperando a pasar. done señala el apagado y
// Close es idempotente.
type Client struct {
	Handle    string
	SubjectID string
	Scope     string
	Send      chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient crea un Client con cola de envío acotada.
func NewClient(handle, subjectID, scope string, sendQueueSize int) *Client {
	if sendQueueSize <= 0 {
		sendQueueSize = 64
	}
	return &Client{
		Handle:    handle,
		SubjectID: subjectID,
		Scope:     scope,
		Send:      make(chan []byte, sendQueueSize),
		done:      make(chan struct{}),
	}
}

// Done devuelve un canal que se cierra cuando el cliente se está apagando.
func (c *Client) Done() <-chan struct{} {
	if c == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return c.done
}

// Close señala a las goroutines del cliente que paren (idempotente).
// No cierra Send para mantener seguro el broadcast concurrente.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
