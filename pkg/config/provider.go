package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Provider keeps the last valid Settings loaded from a file and reloads it when the file changes
type Provider struct {
	Path           string
	ReloadInterval time.Duration

	mutex      sync.RWMutex
	current    *Settings
	modTime    time.Time
	generation uint64
}

func NewProvider(path string, reloadInterval time.Duration) *Provider {
	provider := &Provider{
		Path:           path,
		ReloadInterval: reloadInterval,
		current:        Default(),
	}

	provider.Reload()

	return provider
}

func (p *Provider) Current() *Settings {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.current
}

// Reload reads the file if its modification time changed since the last successful load.
// On any failure the previous Settings stay active.
func (p *Provider) Reload() bool {
	fileInfo, err := os.Stat(p.Path)
	if err != nil {
		logLoadError(p.Path, err)
		return false
	}

	p.mutex.RLock()
	unchanged := p.generation > 0 && fileInfo.ModTime().Equal(p.modTime)
	p.mutex.RUnlock()

	if unchanged {
		return false
	}

	settings, err := LoadFile(p.Path)
	if err != nil {
		logLoadError(p.Path, err)
		return false
	}

	p.mutex.Lock()
	p.generation++
	settings.Generation = p.generation
	p.current = settings
	p.modTime = fileInfo.ModTime()
	p.mutex.Unlock()

	log.Info().
		Str("path", p.Path).
		Int("routes", len(settings.Routes)).
		Uint64("generation", settings.Generation).
		Msg("Loaded configuration")

	return true
}

func (p *Provider) Watch(ctx context.Context) {
	if p.ReloadInterval <= 0 {
		return
	}

	ticker := time.NewTicker(p.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Reload()
		}
	}
}

func logLoadError(path string, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Error().Err(err).Str("path", path).Msg("Configuration file missing, keeping previous configuration")
	case errors.Is(err, ErrConfigInvalid):
		log.Error().Err(err).Str("path", path).Msg("Configuration file could not be parsed, keeping previous configuration")
	default:
		log.Error().Err(err).Str("path", path).Msg("Configuration file unreadable, keeping previous configuration")
	}
}

// Static always returns the same Settings
type Static struct {
	Settings *Settings
}

func (s Static) Current() *Settings {
	return s.Settings
}
