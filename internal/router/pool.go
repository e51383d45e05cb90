package router

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/af-corp/llm-router/internal/config"
)

// NewPool returns the HTTP client shared by every provider adapter. The
// transport keeps at most MaxKeepAlive idle connections, and the dialer
// refuses to hold more than MaxConnections open at once across all
// providers; further dials wait for a slot or for their context to end.
//
// The client has no overall timeout: adapters bound unary calls with a
// deadline and streams with an idle timer.
func NewPool(cfg config.PoolConfig) *http.Client {
	dialer := &limitedDialer{
		dialer: &net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		},
		slots: semaphore.NewWeighted(int64(cfg.MaxConnections)),
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxKeepAlive,
		MaxIdleConnsPerHost:   cfg.MaxKeepAlive,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if cfg.MaxKeepAlive == 0 {
		// A zero MaxIdleConns means unlimited to net/http.
		transport.DisableKeepAlives = true
	}

	return &http.Client{Transport: transport}
}

// limitedDialer caps the number of open connections with a weighted
// semaphore. A slot is released when its connection is closed.
type limitedDialer struct {
	dialer *net.Dialer
	slots  *semaphore.Weighted
}

func (d *limitedDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if err := d.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	conn, err := d.dialer.DialContext(ctx, network, addr)
	if err != nil {
		d.slots.Release(1)
		return nil, err
	}
	return &pooledConn{Conn: conn, release: func() { d.slots.Release(1) }}, nil
}

type pooledConn struct {
	net.Conn
	once    sync.Once
	release func()
}

func (c *pooledConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(c.release)
	return err
}
