package webtty

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// InitPayload is the first frame a client must send. Zero columns or
// rows fall back to the 80x24 default at spawn time.
type InitPayload struct {
	Columns   uint16  `json:"columns"`
	Rows      uint16  `json:"rows"`
	AuthToken *string `json:"AuthToken"`
}

// ResizePayload carries new terminal dimensions.
type ResizePayload struct {
	Columns uint16 `json:"columns"`
	Rows    uint16 `json:"rows"`
}

// MouseClickPayload is a button press or release at a cell position.
// Button values: 0=left, 1=middle, 2=right.
type MouseClickPayload struct {
	X       uint16 `json:"x"`
	Y       uint16 `json:"y"`
	Button  uint8  `json:"button"`
	Pressed bool   `json:"pressed"`
}

// MouseDragPayload is a motion event with a button held down.
type MouseDragPayload struct {
	X      uint16 `json:"x"`
	Y      uint16 `json:"y"`
	Button uint8  `json:"button"`
	StartX uint16 `json:"start_x"`
	StartY uint16 `json:"start_y"`
}

// ClientMessage is one decoded client frame. Exactly one of the
// pointer fields is set, matching Type.
type ClientMessage struct {
	Type   byte
	Data   []byte
	Init   *InitPayload
	Resize *ResizePayload
	Click  *MouseClickPayload
	Drag   *MouseDragPayload
}

// ParseClientMessage decodes one inbound frame. The mouse tags are only
// recognized when the mouse extension is enabled; otherwise they are
// unknown commands like any other stray byte.
func ParseClientMessage(frame []byte, mouse bool) (*ClientMessage, error) {
	if len(frame) == 0 {
		return nil, errors.New("empty message")
	}

	tag := frame[0]
	payload := frame[1:]

	switch tag {
	case Input:
		return &ClientMessage{Type: Input, Data: payload}, nil

	case ResizeTerminal:
		var resize ResizePayload
		if err := json.Unmarshal(payload, &resize); err != nil {
			return nil, errors.Wrap(err, "malformed resize message")
		}
		return &ClientMessage{Type: ResizeTerminal, Resize: &resize}, nil

	case Pause:
		return &ClientMessage{Type: Pause}, nil

	case Resume:
		return &ClientMessage{Type: Resume}, nil

	case MouseClick:
		if !mouse {
			break
		}
		var click MouseClickPayload
		if err := json.Unmarshal(payload, &click); err != nil {
			return nil, errors.Wrap(err, "malformed mouse click message")
		}
		return &ClientMessage{Type: MouseClick, Click: &click}, nil

	case MouseDrag:
		if !mouse {
			break
		}
		var drag MouseDragPayload
		if err := json.Unmarshal(payload, &drag); err != nil {
			return nil, errors.Wrap(err, "malformed mouse drag message")
		}
		return &ClientMessage{Type: MouseDrag, Drag: &drag}, nil

	case InitMessage:
		// The tag byte is the opening brace of the JSON object, so the
		// entire frame is decoded, tag included.
		var init InitPayload
		if err := json.Unmarshal(frame, &init); err != nil {
			return nil, errors.Wrap(err, "malformed init message")
		}
		return &ClientMessage{Type: InitMessage, Init: &init}, nil
	}

	return nil, errors.Errorf("unknown command: %q", tag)
}

// serverFrame prefixes the single-byte tag to the payload. Framing
// relies on the transport's message boundaries; there is no length
// prefix.
func serverFrame(tag byte, payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, tag)
	return append(frame, payload...)
}
