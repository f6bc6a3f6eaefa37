package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// Two producers share each quiz stream connection, so frames written
// through Conn from multiple goroutines must interleave cleanly instead
// of tripping gorilla's concurrent-writer check.
func TestConn_SerializesConcurrentWriters(t *testing.T) {
	const (
		writers    = 4
		framesEach = 50
	)

	upgrader := websocket.Upgrader{}
	serverErr := make(chan error, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			serverErr <- err
			return
		}
		defer raw.Close()

		conn := NewConn(raw)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < framesEach; j++ {
					if err := conn.WriteTyped(StateResponse{Event: EventState, CurrentIndex: id}); err != nil {
						return
					}
				}
			}(i)
		}
		wg.Wait()
		serverErr <- nil
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	for i := 0; i < writers*framesEach; i++ {
		var resp StateResponse
		if err := client.ReadJSON(&resp); err != nil {
			t.Fatalf("frame %d unreadable: %v", i, err)
		}
		if resp.Event != EventState {
			t.Fatalf("frame %d: unexpected event %q", i, resp.Event)
		}
	}

	if err := <-serverErr; err != nil {
		t.Fatalf("server side failed: %v", err)
	}
}

func TestConn_WriteError(t *testing.T) {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer raw.Close()
		NewConn(raw).WriteError("bad frame")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	var resp ErrorResponse
	if err := client.ReadJSON(&resp); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if resp.Event != EventError || resp.Error != "bad frame" {
		t.Errorf("got %+v, want error event with message", resp)
	}
}
