package handlers_test

import (
	"bufio"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/userhub/internal/domain/user"
	"github.com/habitflow/userhub/internal/http/handlers"
	"github.com/habitflow/userhub/internal/live"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// streamLines reads the response body line by line and forwards every line
// onto the returned channel. The channel closes when the stream ends.
func streamLines(t *testing.T, body *bufio.Scanner) <-chan string {
	t.Helper()

	lines := make(chan string, 64)

	go func() {
		defer close(lines)

		for body.Scan() {
			lines <- body.Text()
		}
	}()

	return lines
}

func waitForLine(t *testing.T, lines <-chan string, want string) string {
	t.Helper()

	deadline := time.After(3 * time.Second)

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed before %q arrived", want)
			}

			if strings.Contains(line, want) {
				return line
			}

		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestStreamDeliversRegisteredEvents(t *testing.T) {
	hub := live.NewHub(discardLogger())

	defer hub.Close()

	h := handlers.NewEventsHandler(hub)

	r := gin.New()
	r.GET("/events", h.Stream)

	srv := httptest.NewServer(r)

	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")

	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/event-stream") {
		t.Fatalf("content type %q", got)
	}

	lines := streamLines(t, bufio.NewScanner(resp.Body))

	// the hello comment confirms the subscription is live before we publish
	waitForLine(t, lines, ": connected")

	hub.Publish(user.User{ID: "u1", Name: "Ana", Email: "ana@test.com"})

	waitForLine(t, lines, "user-registered")
	waitForLine(t, lines, "ana@test.com")
}

func TestStreamEndsWhenHubCloses(t *testing.T) {
	hub := live.NewHub(discardLogger())

	h := handlers.NewEventsHandler(hub)

	r := gin.New()
	r.GET("/events", h.Stream)

	srv := httptest.NewServer(r)

	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")

	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	defer resp.Body.Close()

	lines := streamLines(t, bufio.NewScanner(resp.Body))

	waitForLine(t, lines, ": connected")

	hub.Close()

	deadline := time.After(3 * time.Second)

	for {
		select {
		case _, ok := <-lines:
			if !ok {
				// server closed the stream after the hub shut down
				return
			}

		case <-deadline:
			t.Fatal("stream did not end after hub close")
		}
	}
}
