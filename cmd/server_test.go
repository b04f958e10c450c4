//go:build !integration

package main

import (
	"bytes"
	"net/http"
	"os"
	"sync"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServerApp(t *testing.T) {
	t.Run("should exit cleanly on stop", func(t *testing.T) {
		out := &syncBuffer{}
		log := zerolog.New(out)
		stop := make(chan os.Signal, 1)
		stop <- syscall.SIGTERM

		code := serverApp(&http.Server{Addr: "127.0.0.1:0"}, &log, stop)

		assert.Equal(t, 0, code)
		assert.Contains(t, out.String(), "Shutting down server...")
		assert.NotContains(t, out.String(), "Server failed")
	})

	t.Run("should fail when the server cannot listen", func(t *testing.T) {
		out := &syncBuffer{}
		log := zerolog.New(out)

		code := serverApp(&http.Server{Addr: "127.0.0.1:-1"}, &log, make(chan os.Signal))

		assert.Equal(t, 1, code)
		assert.Contains(t, out.String(), "Server failed")
	})
}
