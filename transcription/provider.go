package transcription

import (
	"context"

	"github.com/kbukum/scribe/provider"
)

// Provider is the interface that transcription backends must implement.
// Backends report failures as *errors.AppError with REMOTE_ERROR or
// TRANSPORT_FAILURE codes.
type Provider interface {
	provider.Provider

	Health(ctx context.Context) (*Health, error)
	Transcribe(ctx context.Context, req Request) (*Result, error)
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
