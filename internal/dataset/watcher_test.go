package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

func TestRelevantEvents(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/data/DB_bar_chart_start.csv", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/data/Citi_Bike_Trips.HTML", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/data/DB_pie_payment.csv", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := relevant(tt.event); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewWatcher(50*time.Millisecond, zap.NewNop(), dir, dir+string(filepath.Separator))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 10)
	go watcher.Watch(ctx, func() { changes <- struct{}{} })

	for _, name := range []string{StartStationsFile, EndStationsFile} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	if _, err := NewScheduler("not a schedule", func() error { return nil }, zap.NewNop()); err == nil {
		t.Error("NewScheduler() accepted an invalid spec")
	}

	scheduler, err := NewScheduler("@every 1h", func() error { return nil }, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	scheduler.Start()
	scheduler.Stop()
}
