package bootstrap_test

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"kazini-payroll/internal/bootstrap"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recordingAuditLogger struct {
	mu      sync.Mutex
	actions []string
}

func (r *recordingAuditLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, entry.Action)
}

func TestStartHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		audit := &recordingAuditLogger{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bootstrap.StartHTTPServer(ctx, gin.New(), bootstrap.ServerConfig{
			Port:            "0",
			ShutdownTimeout: time.Second,
		}, audit)

		assert.NoError(t, err)
		assert.Equal(t, []string{"SERVER_START", "SERVER_SHUTDOWN"}, audit.actions)
	})

	t.Run("port in use", func(t *testing.T) {
		ln, err := net.Listen("tcp", ":0")
		if err != nil {
			t.Fatal(err)
		}
		defer ln.Close()
		port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = bootstrap.StartHTTPServer(ctx, gin.New(), bootstrap.ServerConfig{Port: port}, &recordingAuditLogger{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "listen on :"+port)
	})
}
