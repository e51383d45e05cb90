package router

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/af-corp/llm-router/internal/config"
)

func TestLimitedDialer_CapsOpenConnections(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		var accepted []net.Conn
		defer func() {
			for _, c := range accepted {
				c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted = append(accepted, conn)
		}
	}()

	d := &limitedDialer{dialer: &net.Dialer{Timeout: time.Second}, slots: semaphore.NewWeighted(2)}
	addr := ln.Addr().String()

	c1, err := d.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		t.Fatalf("first dial: %v", err)
	}
	c2, err := d.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		t.Fatalf("second dial: %v", err)
	}
	defer c2.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := d.DialContext(ctx, "tcp", addr); err == nil {
		t.Fatal("expected third dial to wait for a free slot")
	}

	c1.Close()
	c1.Close()
	c3, err := d.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		t.Fatalf("dial after release: %v", err)
	}
	c3.Close()

	// The double Close above must have released only one slot.
	c4, err := d.DialContext(context.Background(), "tcp", addr)
	if err != nil {
		t.Fatalf("dial after c3 close: %v", err)
	}
	defer c4.Close()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	if _, err := d.DialContext(ctx2, "tcp", addr); err == nil {
		t.Fatal("expected pool to be full again")
	}
}

func TestNewPool_Transport(t *testing.T) {
	client := NewPool(config.DefaultConfig().Pool)
	if client.Timeout != 0 {
		t.Errorf("expected no client-wide timeout, got %s", client.Timeout)
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("expected an *http.Transport")
	}
	if transport.MaxIdleConns != 100 || transport.MaxIdleConnsPerHost != 100 {
		t.Errorf("expected 100 idle connections, got %d/%d", transport.MaxIdleConns, transport.MaxIdleConnsPerHost)
	}
	if transport.IdleConnTimeout != 90*time.Second {
		t.Errorf("expected idle timeout 90s, got %s", transport.IdleConnTimeout)
	}
	if transport.DisableKeepAlives {
		t.Error("expected keep-alives enabled")
	}
}

func TestNewPool_NoKeepAlive(t *testing.T) {
	cfg := config.DefaultConfig().Pool
	cfg.MaxKeepAlive = 0
	transport := NewPool(cfg).Transport.(*http.Transport)
	if !transport.DisableKeepAlives {
		t.Error("expected keep-alives disabled when max_keepalive is 0")
	}
}
