package providers

import "context"

// IServerProvider defines HTTP server.
type IServerProvider interface {
	Start() error
	Shutdown(ctx context.Context) error
}
