package sse

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/scistudy/internal/models"
)

func newBroker() *Broker {
	return NewBroker(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := newBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return ""
	}
}

func TestRenderDelivery(t *testing.T) {
	b := newBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Render("timer", map[string]any{"display": "24:59"})

	s := recv(t, ch)
	if !strings.Contains(s, "event: timer.state") {
		t.Errorf("missing event type in %q", s)
	}
	if !strings.Contains(s, `"display":"24:59"`) {
		t.Errorf("missing data in %q", s)
	}
}

func TestNotifyDelivery(t *testing.T) {
	b := newBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Notify(models.Notification{Kind: models.NotifyAchievement, Title: "Week Streak!", Message: "7 days"})

	s := recv(t, ch)
	if !strings.Contains(s, "event: notification\n") {
		t.Errorf("missing event type in %q", s)
	}
	if !strings.Contains(s, `"kind":"achievement"`) {
		t.Errorf("missing kind in %q", s)
	}
}

func TestUnencodableStateIsSkipped(t *testing.T) {
	b := newBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Render("notes", func() {})
	b.Render("goals", map[string]int{"notes": 15})

	if s := recv(t, ch); !strings.Contains(s, "event: goals.state") {
		t.Errorf("got %q, want goals.state", s)
	}
}

func TestSSEHandler(t *testing.T) {
	b := newBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Render("flashcards", map[string]int{"position": 1})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: flashcards.state") {
		t.Errorf("handler output missing event: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := newBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Capacity is 64; the tick stream must never block the publisher.
	for i := 0; i < 70; i++ {
		b.Render("timer", map[string]int{"remaining": i})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := newBroker()
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Safe no-ops after close.
	b.Render("timer", nil)
	b.Notify(models.Notification{Kind: models.NotifyInfo, Message: "bye"})
}
