// ABOUTME: SSH+SOCKS5 egress for reaching a backend behind a jumpbox
// ABOUTME: Wraps cloudfoundry/socks5-proxy as an http.Transport dialer

package client

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// createSOCKS5DialContextFunc creates a dial function for SSH+SOCKS5 proxy connections.
// Supports format: ssh+socks5://user@host:port?private-key=/path/to/key
func createSOCKS5DialContextFunc(allProxy string) (func(ctx context.Context, network, address string) (net.Conn, error), error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if proxyURL.Scheme != "socks5" || proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy URL must look like ssh+socks5://user@host:port?private-key=/path")
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyPath := proxyURL.Query().Get("private-key")
	if keyPath == "" {
		return nil, fmt.Errorf("proxy URL missing required 'private-key' query param")
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH private key: %w", err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), proxyLogger(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(key), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}, nil
}

// proxyLogger routes the proxy library's log output through slog at debug
// level so it never lands on stderr under the TUI
func proxyLogger() *log.Logger {
	return slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug)
}
