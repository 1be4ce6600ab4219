package rabbitmq

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"repohub/internal/config"
	"repohub/internal/idgen"
	"repohub/internal/metrics"
	"repohub/internal/service/repos"
	"repohub/internal/sse"
	"repohub/internal/store/memory"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublishHonoursContextDeadline(t *testing.T) {
	cfg := &config.Config{RabbitMQURL: silentBroker(t), RabbitExchange: "repositories"}
	pub := NewPublisher(cfg, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := pub.Publish(ctx, []byte(`{}`), "repository.event.created")
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestCreateReturnsWhileBrokerHangs(t *testing.T) {
	cfg := &config.Config{
		RabbitMQURL:       silentBroker(t),
		RabbitExchange:    "repositories",
		RabbitEventPrefix: "repository.event",
	}
	dispatcher := NewEventDispatcher(cfg, zap.NewNop())

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go dispatcher.Run(runCtx)

	svc := repos.NewService(cfg, memory.New(zap.NewNop()), idgen.NewV4(), sse.NewHub(), dispatcher, metrics.New(), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	created, err := svc.Create(ctx, repos.Draft{Title: "a"})
	require.NoError(t, err)
	require.Equal(t, "a", created.Title)
	require.Less(t, time.Since(start), 100*time.Millisecond)
}
