package webtty

// Protocols defines the name of this protocol,
// which is supposed to be used to the subprotocol of Websocket streams.
var Protocols = []string{"webtty"}

// Client to server message tags. A frame's first byte selects the
// command; the rest of the frame is the payload.
const (
	// Raw keyboard input forwarded to the process
	Input = '0'
	// Notify that the terminal size has been changed (JSON payload)
	ResizeTerminal = '1'
	// Suspend output delivery to the client
	Pause = '2'
	// Resume output delivery to the client
	Resume = '3'
	// Mouse button press or release (JSON payload, mouse variant only)
	MouseClick = '4'
	// Mouse drag with a button held (JSON payload, mouse variant only)
	MouseDrag = '5'
	// Session initialization. The tag byte is the opening brace of the
	// JSON object, so the whole frame is the payload.
	InitMessage = '{'
)

// Server to client message tags.
const (
	// Normal output to the terminal
	Output = '0'
	// Set window title of the terminal
	SetWindowTitle = '1'
	// Set terminal preferences
	SetPreferences = '2'
)
