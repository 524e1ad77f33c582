package webtty

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseClientMessage(t *testing.T) {
	tests := []struct {
		name     string
		frame    []byte
		mouse    bool
		expected *ClientMessage
	}{
		{
			name:     "input",
			frame:    []byte("0ls -la\r"),
			expected: &ClientMessage{Type: Input, Data: []byte("ls -la\r")},
		},
		{
			name:     "input empty payload",
			frame:    []byte("0"),
			expected: &ClientMessage{Type: Input, Data: []byte{}},
		},
		{
			name:     "resize",
			frame:    []byte(`1{"columns":120,"rows":40}`),
			expected: &ClientMessage{Type: ResizeTerminal, Resize: &ResizePayload{Columns: 120, Rows: 40}},
		},
		{
			name:     "pause",
			frame:    []byte("2"),
			expected: &ClientMessage{Type: Pause},
		},
		{
			name:     "resume",
			frame:    []byte("3"),
			expected: &ClientMessage{Type: Resume},
		},
		{
			name:  "init includes the tag brace in its JSON",
			frame: []byte(`{"columns":80,"rows":24,"AuthToken":"secret"}`),
			expected: &ClientMessage{Type: InitMessage, Init: &InitPayload{
				Columns: 80, Rows: 24, AuthToken: strPtr("secret"),
			}},
		},
		{
			name:     "init without token",
			frame:    []byte(`{"columns":0,"rows":0}`),
			expected: &ClientMessage{Type: InitMessage, Init: &InitPayload{}},
		},
		{
			name:  "mouse click",
			frame: []byte(`4{"x":5,"y":10,"button":0,"pressed":true}`),
			mouse: true,
			expected: &ClientMessage{Type: MouseClick, Click: &MouseClickPayload{
				X: 5, Y: 10, Button: 0, Pressed: true,
			}},
		},
		{
			name:  "mouse drag",
			frame: []byte(`5{"x":7,"y":8,"button":2,"start_x":1,"start_y":2}`),
			mouse: true,
			expected: &ClientMessage{Type: MouseDrag, Drag: &MouseDragPayload{
				X: 7, Y: 8, Button: 2, StartX: 1, StartY: 2,
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			message, err := ParseClientMessage(tc.frame, tc.mouse)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(message, tc.expected) {
				t.Errorf("got %+v, expected %+v", message, tc.expected)
			}
		})
	}
}

func TestParseClientMessageErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		mouse bool
	}{
		{name: "empty frame", frame: nil},
		{name: "unknown tag", frame: []byte("9")},
		{name: "malformed resize", frame: []byte("1not-json")},
		{name: "malformed init", frame: []byte("{broken")},
		{name: "mouse click without extension", frame: []byte(`4{"x":1,"y":1,"button":0,"pressed":true}`)},
		{name: "mouse drag without extension", frame: []byte(`5{"x":1,"y":1,"button":0,"start_x":0,"start_y":0}`)},
		{name: "malformed mouse click", frame: []byte("4nope"), mouse: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseClientMessage(tc.frame, tc.mouse); err == nil {
				t.Errorf("expected an error for frame %q", tc.frame)
			}
		})
	}
}

func TestResizeRoundTrip(t *testing.T) {
	frame := []byte(`1{"columns":132,"rows":43}`)
	message, err := ParseClientMessage(frame, false)
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := json.Marshal(message.Resize)
	if err != nil {
		t.Fatal(err)
	}
	var decoded ResizePayload
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&decoded, message.Resize) {
		t.Errorf("resize did not survive decode-encode: %+v vs %+v", decoded, message.Resize)
	}
}

func TestMouseRoundTrip(t *testing.T) {
	click := MouseClickPayload{X: 12, Y: 34, Button: 1, Pressed: true}
	encoded, err := json.Marshal(click)
	if err != nil {
		t.Fatal(err)
	}
	message, err := ParseClientMessage(append([]byte{MouseClick}, encoded...), true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*message.Click, click) {
		t.Errorf("click did not survive decode: %+v vs %+v", message.Click, click)
	}

	drag := MouseDragPayload{X: 3, Y: 4, Button: 2, StartX: 1, StartY: 2}
	encoded, err = json.Marshal(drag)
	if err != nil {
		t.Fatal(err)
	}
	message, err = ParseClientMessage(append([]byte{MouseDrag}, encoded...), true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*message.Drag, drag) {
		t.Errorf("drag did not survive decode: %+v vs %+v", message.Drag, drag)
	}
}

func TestServerFrame(t *testing.T) {
	frame := serverFrame(Output, []byte("hello"))
	if !reflect.DeepEqual(frame, []byte("0hello")) {
		t.Errorf("unexpected output frame: %q", frame)
	}

	frame = serverFrame(SetWindowTitle, nil)
	if !reflect.DeepEqual(frame, []byte("1")) {
		t.Errorf("unexpected title frame: %q", frame)
	}
}

func strPtr(s string) *string {
	return &s
}
