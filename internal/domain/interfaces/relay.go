package interfaces

import (
	"context"

	domaintypes "ciphera/internal/domain/types"
)

// Channel is the send half of one live relay connection.
// Implementations must be safe for concurrent use and keep write order.
type Channel interface {
	Send(ctx context.Context, event domaintypes.Event) error
}

// KeyDirectory is how clients fetch another identity's published bundle.
type KeyDirectory interface {
	FetchKeys(ctx context.Context, identity domaintypes.Identity) (domaintypes.UserInfo, error)
}
