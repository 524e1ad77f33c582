package webtty

// Slave is the process side of the bridge: a spawned command attached
// to a pseudo-terminal. The output channel is closed when the process
// ends or its terminal can no longer be read.
type Slave interface {
	// Output yields chunks in the order the terminal produced them.
	Output() <-chan []byte

	// Write queues p for the process, preserving call order. It never
	// blocks; it reports an error when input is being shed.
	Write(p []byte) error

	// Resize propagates new dimensions to the terminal.
	Resize(cols uint16, rows uint16) error

	// Kill terminates the process. Safe to call more than once and
	// after the process has already exited.
	Kill() error

	// Pid identifies the process, for display only.
	Pid() uint32
}

// SlaveFactory spawns one Slave at the size requested by the client's
// init message.
type SlaveFactory interface {
	New(cols uint16, rows uint16) (Slave, error)
}

// Master is the peer connection. One Send or Receive call carries
// exactly one protocol frame.
type Master interface {
	Send(frame []byte) error
	Receive() ([]byte, error)
	Close() error
}
