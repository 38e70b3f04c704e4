package dev

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer()
	srv := httptest.NewServer(rs)
	defer srv.Close()
	defer rs.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for the server to register the client.
	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rs.NotifyCSS("main.css")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != ReloadTypeCSS || msg.File != "main.css" {
		t.Errorf("got %+v", msg)
	}
}

func TestWatcherDetectsChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var changes []Change
	w := NewWatcher(WatcherConfig{
		Paths:    []string{dir},
		Interval: 10 * time.Millisecond,
	})
	w.OnChange(func(c Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	defer w.Stop()

	// Let the initial scan record the baseline.
	time.Sleep(50 * time.Millisecond)

	// Force a newer mtime; coarse filesystem timestamps would otherwise
	// hide a fast rewrite.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(file, future, future); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(changes)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("change never detected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatcherClassifiesCSS(t *testing.T) {
	if classify("dist/app.css") != ChangeCSS {
		t.Error("css not classified")
	}
	if classify("dist/app.js") != ChangeAsset {
		t.Error("js misclassified")
	}
}

func TestWatcherIgnores(t *testing.T) {
	w := NewWatcher(WatcherConfig{})
	for _, base := range []string{".git", "x.tmp", "y.swp"} {
		if !w.ignored(base) {
			t.Errorf("%s should be ignored", base)
		}
	}
	if w.ignored("manifest.json") {
		t.Error("manifest.json wrongly ignored")
	}
}
