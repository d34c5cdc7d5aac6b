package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
	"github.com/Rachel1809/gmaps-scraper/pkg/protocol"
)

func TestEndpoint(t *testing.T) {
	tunnels := []string{".ngrok-free.app", ".ngrok.io"}

	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{"local default", "127.0.0.1", 8000, "ws://127.0.0.1:8000/ws"},
		{"lan host", "192.168.1.40", 9001, "ws://192.168.1.40:9001/ws"},
		{"tunnel host", "a1b2.ngrok-free.app", 8000, "wss://a1b2.ngrok-free.app/ws"},
		{"legacy tunnel host", "demo.ngrok.io", 8000, "wss://demo.ngrok.io/ws"},
		{"whitespace trimmed", " 127.0.0.1 ", 8000, "ws://127.0.0.1:8000/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Endpoint(tt.host, tt.port, tunnels)
			if got != tt.want {
				t.Errorf("Endpoint(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
			}
		})
	}
}

func TestEndpointNoTunnels(t *testing.T) {
	got := Endpoint("x.ngrok.io", 8000, nil)
	if got != "ws://x.ngrok.io:8000/ws" {
		t.Errorf("without tunnel suffixes got %q, want plain ws", got)
	}
}

// fakeWorker upgrades the connection, records the first inbound frame,
// then replays the given outbound frames and closes.
func fakeWorker(t *testing.T, outbound []string, gotFrame chan<- []byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		if gotFrame != nil {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			gotFrame <- data
		}
		for _, frame := range outbound {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func collect(t *testing.T, c *Channel, n int) []protocol.Event {
	t.Helper()
	var events []protocol.Event
	deadline := time.After(3 * time.Second)
	for len(events) < n {
		select {
		case ev, ok := <-c.Events():
			if !ok {
				t.Fatalf("events channel closed after %d of %d events", len(events), n)
			}
			events = append(events, ev)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(events), n)
		}
	}
	return events
}

func TestChannelDeliversEventsInOrder(t *testing.T) {
	gotFrame := make(chan []byte, 1)
	srv := fakeWorker(t, []string{
		`{"type":"log","payload":"> Navigating results"}`,
		`{"type":"status","payload":"RUNNING"}`,
		`{"type":"row","payload":{"name":"Cafe A","address":"1 Main St","phone":"N/A","website":"N/A","rating":"4.5","link":"https://maps.google.com/?cid=1"}}`,
	}, gotFrame)
	defer srv.Close()

	c, err := Dial(wsURL(srv))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Send(protocol.StartCommand("coffee", true, nil)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case frame := <-gotFrame:
		if !strings.Contains(string(frame), `"action":"start"`) {
			t.Errorf("worker received %s, want a start frame", frame)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("worker never received the start frame")
	}

	events := collect(t, c, 4)

	if events[0].Type != protocol.EventLog || !strings.Contains(events[0].Log, "Connected to") {
		t.Errorf("first event = %+v, want synthetic connected log", events[0])
	}
	if events[1].Type != protocol.EventLog || events[1].Log != "> Navigating results" {
		t.Errorf("second event = %+v, want worker log", events[1])
	}
	if events[2].Type != protocol.EventStatus || events[2].Status != model.StatusRunning {
		t.Errorf("third event = %+v, want RUNNING status", events[2])
	}
	if events[3].Type != protocol.EventRow || events[3].Row.Name != "Cafe A" {
		t.Errorf("fourth event = %+v, want row for Cafe A", events[3])
	}
}

func TestChannelClosedFiresOnce(t *testing.T) {
	srv := fakeWorker(t, nil, nil)
	defer srv.Close()

	c, err := Dial(wsURL(srv))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	// Worker handler returns immediately, closing its side.
	select {
	case <-c.Closed():
	case <-time.After(3 * time.Second):
		t.Fatal("Closed() never fired after the worker hung up")
	}

	// Events drains the synthetic connected log, then closes.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-c.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed")
		}
	}
}

func TestChannelDropsMalformedFrames(t *testing.T) {
	srv := fakeWorker(t, []string{
		`{"type":"telemetry","payload":1}`,
		`{"type":"status","payload":"IDLE"}`,
	}, nil)
	defer srv.Close()

	c, err := Dial(wsURL(srv))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	events := collect(t, c, 3)
	if events[1].Type != protocol.EventLog || !strings.Contains(events[1].Log, "Dropped malformed frame") {
		t.Errorf("second event = %+v, want malformed-frame log", events[1])
	}
	if events[2].Type != protocol.EventStatus || events[2].Status != model.StatusIdle {
		t.Errorf("third event = %+v, want IDLE status after the bad frame", events[2])
	}
}

func TestDialReplacesPreviousChannel(t *testing.T) {
	srvA := fakeWorker(t, nil, nil)
	defer srvA.Close()
	srvB := fakeWorker(t, nil, nil)
	defer srvB.Close()

	a, err := Dial(wsURL(srvA))
	if err != nil {
		t.Fatalf("Dial a: %v", err)
	}
	b, err := Dial(wsURL(srvB))
	if err != nil {
		t.Fatalf("Dial b: %v", err)
	}
	defer b.Close()

	select {
	case <-a.Closed():
	case <-time.After(3 * time.Second):
		t.Fatal("dialing a new channel did not close the previous one")
	}
}

func TestSendAfterClose(t *testing.T) {
	srv := fakeWorker(t, nil, nil)
	defer srv.Close()

	c, err := Dial(wsURL(srv))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	c.Close()

	if err := c.Send(protocol.StopCommand()); err == nil {
		t.Error("Send after Close returned nil error")
	}
}
