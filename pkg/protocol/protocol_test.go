package protocol

import (
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

func TestStartCommand_Encode(t *testing.T) {
	cmd := StartCommand("Coffee NYC", true, []string{"https://a", "https://b"})
	data, err := cmd.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if got["action"] != "start" {
		t.Errorf("action = %v", got["action"])
	}
	if got["keyword"] != "Coffee NYC" {
		t.Errorf("keyword = %v", got["keyword"])
	}
	if got["headless"] != true {
		t.Errorf("headless = %v", got["headless"])
	}
	urls, ok := got["ignore_urls"].([]any)
	if !ok || len(urls) != 2 {
		t.Errorf("ignore_urls = %v", got["ignore_urls"])
	}
}

func TestStartCommand_EmptySkipListStillPresent(t *testing.T) {
	data, err := StartCommand("Gyms NYC", false, nil).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `"ignore_urls":[]`) {
		t.Errorf("new-session start should carry an explicit empty skip-list, got %s", data)
	}
}

func TestStopCommand_Encode(t *testing.T) {
	data, err := StopCommand().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != `{"action":"stop"}` {
		t.Errorf("stop frame = %s", data)
	}
}

func TestDecodeEvent_Log(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"log","payload":"> Feed loaded."}`))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Type != EventLog || ev.Log != "> Feed loaded." {
		t.Errorf("got %+v", ev)
	}
}

func TestDecodeEvent_Row(t *testing.T) {
	frame := `{"type":"row","payload":{
		"name":"Blue Bottle","address":"1 Ferry Building","phone":"N/A",
		"website":"bluebottle.com","rating":"4.6",
		"link":"https://maps.google.com/maps/place/bb"}}`

	ev, err := DecodeEvent([]byte(frame))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Type != EventRow {
		t.Fatalf("type = %q", ev.Type)
	}
	if ev.Row.Name != "Blue Bottle" || ev.Row.Rating != "4.6" {
		t.Errorf("row = %+v", ev.Row)
	}
	if !ev.Row.HasIdentity() {
		t.Error("row with real link should have identity")
	}
}

func TestDecodeEvent_Status(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"status","payload":"RUNNING"}`))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Status != model.StatusRunning {
		t.Errorf("status = %q", ev.Status)
	}
}

func TestDecodeEvent_Image(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"image","payload":"aGVsbG8="}`))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Type != EventImage || ev.Image != "aGVsbG8=" {
		t.Errorf("got %+v", ev)
	}
}

func TestDecodeEvent_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"unknown type", `{"type":"telemetry","payload":1}`, ErrUnknownEventType},
		{"bad status", `{"type":"status","payload":"PAUSED"}`, ErrBadPayload},
		{"row with scalar payload", `{"type":"row","payload":"oops"}`, ErrBadPayload},
		{"log with object payload", `{"type":"log","payload":{}}`, ErrBadPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.frame))
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeEvent error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeEvent([]byte(`not json`)); err == nil {
		t.Error("expected error for non-JSON frame")
	}
}
