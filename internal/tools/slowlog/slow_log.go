package slowlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger measures named sections and logs their duration at debug level.
type Logger interface {
	Start(name string)
	Stop(name string) time.Duration
}

type slowLogger struct {
	log           *zerolog.Logger
	ongoingTimers map[string]time.Time
	sync.Mutex
}

func (s *slowLogger) Start(name string) {
	s.Lock()
	s.ongoingTimers[name] = time.Now()
	s.Unlock()
}

// Stop returns zero for a name that was never started.
func (s *slowLogger) Stop(name string) time.Duration {
	s.Lock()
	start, ok := s.ongoingTimers[name]
	delete(s.ongoingTimers, name)
	s.Unlock()

	if !ok {
		return 0
	}

	duration := time.Since(start)

	s.log.Debug().
		Float64("duration", duration.Seconds()).
		Str("breakpoint_name", name).
		Msg("")

	return duration
}

func CreateLogger(log *zerolog.Logger) *slowLogger {
	logger := log.With().Str("label", "slowlog").Logger()
	return &slowLogger{
		log:           &logger,
		ongoingTimers: make(map[string]time.Time),
	}
}
