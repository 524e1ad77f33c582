package webtty

// X10/VT100 mouse report button-state codes. Drag reports OR the
// motion bit onto the press code for the held button.
const (
	mouseLeftPress   = 0x20
	mouseMiddlePress = 0x21
	mouseRightPress  = 0x22
	mouseRelease     = 0x23
	mouseMotionBit   = 0x40

	// Coordinates are encoded as a single byte offset by 32, so
	// anything past 223 cannot be represented.
	mouseCoordMax = 223
)

// mouseClickReport synthesizes the 5-byte X10 mouse report
// ESC 'M' <state> <col+32> <row+32> for a press or release.
func mouseClickReport(x, y uint16, button uint8, pressed bool) []byte {
	state := byte(mouseRelease)
	if pressed {
		switch button {
		case 0:
			state = mouseLeftPress
		case 1:
			state = mouseMiddlePress
		case 2:
			state = mouseRightPress
		}
	}
	return []byte{0x1b, 'M', state, mouseCoord(x), mouseCoord(y)}
}

// mouseDragReport is the motion variant: the press code for the held
// button with the motion bit set.
func mouseDragReport(x, y uint16, button uint8) []byte {
	state := byte(mouseLeftPress)
	switch button {
	case 1:
		state = mouseMiddlePress
	case 2:
		state = mouseRightPress
	}
	return []byte{0x1b, 'M', state | mouseMotionBit, mouseCoord(x), mouseCoord(y)}
}

func mouseCoord(v uint16) byte {
	if v > mouseCoordMax {
		v = mouseCoordMax
	}
	return byte(v + 32)
}
