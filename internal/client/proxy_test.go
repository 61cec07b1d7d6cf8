// ABOUTME: Tests for SSH+SOCKS5 proxy URL handling
// ABOUTME: Validates parsing errors without opening SSH connections

package client

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSOCKS5DialContextFunc_Errors(t *testing.T) {
	tests := []struct {
		name  string
		proxy string
	}{
		{"wrong scheme", "http://proxy:8080"},
		{"missing host", "ssh+socks5://"},
		{"missing private key", "ssh+socks5://jumpbox@10.0.0.5:22"},
		{"unreadable private key", "ssh+socks5://jumpbox@10.0.0.5:22?private-key=/nonexistent/key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := createSOCKS5DialContextFunc(tc.proxy); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCreateSOCKS5DialContextFunc_Valid(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	os.WriteFile(keyPath, []byte("not-a-real-key"), 0600)

	dial, err := createSOCKS5DialContextFunc("ssh+socks5://jumpbox@10.0.0.5:22?private-key=" + keyPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dial == nil {
		t.Fatal("expected a dial function")
	}
}

func TestProxyLoggerUsesSlog(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	proxyLogger().Print("ssh tunnel opened")
	if buf.Len() != 0 {
		t.Errorf("expected proxy output hidden at info level, got %q", buf.String())
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	proxyLogger().Print("ssh tunnel opened")
	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "ssh tunnel opened") {
		t.Errorf("expected debug record, got %q", out)
	}
}
