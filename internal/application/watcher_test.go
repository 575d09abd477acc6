package application

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/JonMunkholm/craftcatalog/internal/logging"
)

func TestPriceWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "prices.csv")
	if err := os.WriteFile(path, []byte("name\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := WatchPrices(path, 20*time.Millisecond, logging.Discard())
	if err != nil {
		t.Fatalf("WatchPrices() error = %v", err)
	}

	// Other files in the folder are ignored.
	if err := os.WriteFile(filepath.Join(dir, "objects.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changes():
		t.Fatal("change reported for another file")
	case <-time.After(100 * time.Millisecond):
	}

	// A burst of writes is reported once.
	for i := range 3 {
		if err := os.WriteFile(path, []byte("name\nMadera"+string(rune('0'+i))+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	msg := waitForPriceChange(w)
	done := make(chan any, 1)
	go func() { done <- msg() }()
	select {
	case got := <-done:
		if _, ok := got.(pricesChangedMsg); !ok {
			t.Fatalf("msg = %#v, want pricesChangedMsg", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("Changes() still open after Close")
	}
	// Closing twice is safe.
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWaitForPriceChange_NoWatcher(t *testing.T) {
	if cmd := waitForPriceChange(nil); cmd != nil {
		t.Error("expected nil command without a watcher")
	}
}
