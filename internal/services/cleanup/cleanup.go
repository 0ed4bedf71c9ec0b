// Package cleanup sweeps upload spool files left behind by interrupted runs.
package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service periodically removes stale spool files from the temp directory
type Service struct {
	tempDir         string
	prefix          string
	maxAge          time.Duration
	cleanupInterval time.Duration
	logger          *zap.Logger
	now             func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a cleanup service for files named prefix* in tempDir
func NewService(tempDir, prefix string, maxAge, cleanupInterval time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tempDir:         tempDir,
		prefix:          prefix,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		now:             time.Now,
	}
}

// Start runs one sweep immediately, then one per interval until ctx ends or
// Stop is called.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.Sweep()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				s.logger.Debug("cleanup service stopped")
				return
			}
		}
	}()

	s.logger.Info("cleanup service started",
		zap.String("dir", s.tempDir),
		zap.Duration("interval", s.cleanupInterval),
		zap.Duration("max_age", s.maxAge))
}

// Stop stops the sweep loop and waits for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Sweep removes spool files older than maxAge and returns how many went.
// Only the top level of the temp directory is scanned.
func (s *Service) Sweep() int {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cleanup scan failed", zap.String("dir", s.tempDir), zap.Error(err))
		}
		return 0
	}

	removed := 0
	cutoff := s.now().Add(-s.maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), s.prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.tempDir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove spool file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("removed stale spool files", zap.Int("count", removed))
	}
	return removed
}
