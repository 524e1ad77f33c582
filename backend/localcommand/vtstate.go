package localcommand

import (
	"sync"
)

// vtState tracks cursor position and screen size from a raw terminal
// byte stream. The pipe-shim strategy feeds it from two independent
// reader paths, hence the mutex. It exists for echo fidelity and
// diagnostics only; bytes are forwarded to the client unmodified.
type vtState struct {
	mu sync.Mutex

	rows int
	cols int
	row  int
	col  int

	// escape sequence scanning state, kept across chunks
	mode   vtMode
	params []byte
}

type vtMode int

const (
	vtGround vtMode = iota
	vtEscape
	vtCSI
)

func newVTState(rows uint16, cols uint16) *vtState {
	return &vtState{rows: int(rows), cols: int(cols)}
}

// Process consumes one output chunk. Sequences split across chunk
// boundaries are handled.
func (v *vtState) Process(p []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, b := range p {
		switch v.mode {
		case vtGround:
			v.ground(b)
		case vtEscape:
			if b == '[' {
				v.mode = vtCSI
				v.params = v.params[:0]
			} else {
				v.mode = vtGround
			}
		case vtCSI:
			if b >= 0x40 && b <= 0x7e {
				v.dispatchCSI(b)
				v.mode = vtGround
			} else {
				v.params = append(v.params, b)
			}
		}
	}
}

func (v *vtState) ground(b byte) {
	switch {
	case b == 0x1b:
		v.mode = vtEscape
	case b == 0x08: // backspace
		if v.col > 0 {
			v.col--
		}
	case b == 0x0d:
		v.col = 0
	case b == 0x0a:
		if v.row < v.rows-1 {
			v.row++
		}
	case b >= 0x20:
		v.col++
		if v.col >= v.cols {
			v.col = 0
			if v.row < v.rows-1 {
				v.row++
			}
		}
	}
}

func (v *vtState) dispatchCSI(final byte) {
	switch final {
	case 'H', 'f':
		row, col := v.csiPair()
		v.row = clamp(row-1, 0, v.rows-1)
		v.col = clamp(col-1, 0, v.cols-1)
	case 'A':
		v.row = clamp(v.row-v.csiOne(), 0, v.rows-1)
	case 'B':
		v.row = clamp(v.row+v.csiOne(), 0, v.rows-1)
	case 'C':
		v.col = clamp(v.col+v.csiOne(), 0, v.cols-1)
	case 'D':
		v.col = clamp(v.col-v.csiOne(), 0, v.cols-1)
	case 'J', 'K':
		// erases do not move the cursor
	}
}

// csiOne returns the single numeric parameter, defaulting to 1.
func (v *vtState) csiOne() int {
	n := 0
	for _, b := range v.params {
		if b < '0' || b > '9' {
			break
		}
		n = n*10 + int(b-'0')
	}
	if n == 0 {
		n = 1
	}
	return n
}

// csiPair returns the row;col parameters, each defaulting to 1.
func (v *vtState) csiPair() (int, int) {
	row, col := 0, 0
	cur := &row
	for _, b := range v.params {
		switch {
		case b >= '0' && b <= '9':
			*cur = *cur*10 + int(b-'0')
		case b == ';':
			cur = &col
		}
	}
	if row == 0 {
		row = 1
	}
	if col == 0 {
		col = 1
	}
	return row, col
}

func (v *vtState) Resize(rows uint16, cols uint16) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rows = int(rows)
	v.cols = int(cols)
	v.row = clamp(v.row, 0, v.rows-1)
	v.col = clamp(v.col, 0, v.cols-1)
}

func (v *vtState) Cursor() (row int, col int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.row, v.col
}

func (v *vtState) Size() (rows int, cols int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rows, v.cols
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
