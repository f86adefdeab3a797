// Package clipboard bridges the system clipboard and the editors' yank text.
// When no system clipboard is available the text is kept in memory so yank
// and paste still work within the session.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/studiowebux/perseus/internal/logger"
)

// Provider reads and writes clipboard text
type Provider struct {
	mu       sync.Mutex
	fallback string
	system   bool
	read     func() (string, error)
	write    func(string) error
}

// New returns a provider backed by the system clipboard
func New() *Provider {
	return &Provider{
		system: !clipboard.Unsupported,
		read:   clipboard.ReadAll,
		write:  clipboard.WriteAll,
	}
}

// NewFuncs returns a provider backed by custom read and write functions,
// such as an external copy command
func NewFuncs(read func() (string, error), write func(string) error) *Provider {
	return &Provider{system: true, read: read, write: write}
}

// NewMemory returns a provider that never touches the system clipboard
func NewMemory() *Provider {
	return &Provider{}
}

// Set stores text. A failing system clipboard falls back to memory and the
// error is returned for display.
func (p *Provider) Set(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = text
	if !p.system {
		return nil
	}
	if err := p.write(text); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		return err
	}
	return nil
}

// Get returns the clipboard text, or the last Set text when the system
// clipboard cannot be read
func (p *Provider) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.system {
		text, err := p.read()
		if err == nil {
			return text
		}
		logger.Warn("clipboard read failed", "error", err)
	}
	return p.fallback
}
