// Package greeter serves the greeting endpoint and tracks unique visitors.
package greeter

import (
	"strings"
	"sync"

	"github.com/bankapp/transfer_service/internal/app/metrics"
	"github.com/bankapp/transfer_service/pkg/logger"
)

// DefaultName greets anonymous callers.
const DefaultName = "Guest"

// Service produces greetings and keeps the unique-name count published as a
// gauge.
type Service struct {
	mu    sync.Mutex
	names map[string]struct{}
	log   *logger.Logger
}

// New creates the greeter service.
func New(log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("greeter")
	}
	return &Service{names: make(map[string]struct{}), log: log}
}

// Greet returns a greeting for name, counting the request and remembering the
// name if it has not been seen before.
func (s *Service) Greet(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	metrics.IncHelloRequests(name)

	var greeting string
	_ = metrics.Timed(metrics.HelloDuration, func() error {
		s.mu.Lock()
		if _, seen := s.names[name]; !seen {
			s.names[name] = struct{}{}
			metrics.SetHelloUniqueNames(int64(len(s.names)))
		}
		s.mu.Unlock()

		greeting = "Hello, " + name + "!"
		return nil
	})
	return greeting
}

// UniqueNames reports how many distinct names have been greeted.
func (s *Service) UniqueNames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}
