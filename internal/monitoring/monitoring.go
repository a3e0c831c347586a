package monitoring

import (
	"sort"
	"strings"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	// Retention bounds how long recorded events are kept for GetEventMetrics.
	Retention time.Duration
	Now       func() time.Time
}

type event struct {
	name string
	at   time.Time
}

// Service records domain events and answers windowed counts over them
type Service struct {
	config Config
	mu     sync.Mutex
	events []event
	totals map[string]int64
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	if config.Retention <= 0 {
		config.Retention = 24 * time.Hour
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Service{
		config: config,
		totals: make(map[string]int64),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := s.config.Now()

	s.mu.Lock()
	s.events = append(s.events, event{name: eventName, at: ts})
	s.totals[eventName]++
	s.prune(ts)
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %s", eventName, ts.UTC().Format(time.RFC3339), formatLabels(labels))
}

// GetEventMetrics counts events whose name starts with eventType ("" matches all)
// recorded within the last duration, keyed by event name.
func (s *Service) GetEventMetrics(eventType string, duration time.Duration) (map[string]int64, error) {
	now := s.config.Now()
	since := now.Add(-duration)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(now)

	out := make(map[string]int64)
	for _, e := range s.events {
		if e.at.Before(since) || !strings.HasPrefix(e.name, eventType) {
			continue
		}
		out[e.name]++
	}
	return out, nil
}

// Totals returns the per-event counts since start-up.
func (s *Service) Totals() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.totals))
	for k, v := range s.totals {
		out[k] = v
	}
	return out
}

// prune drops events older than the retention; callers hold mu.
func (s *Service) prune(now time.Time) {
	cutoff := now.Add(-s.config.Retention)
	i := sort.Search(len(s.events), func(i int) bool { return !s.events[i].at.Before(cutoff) })
	if i > 0 {
		s.events = append(s.events[:0], s.events[i:]...)
	}
}

func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}
