// Package webtty provides a protocol and a session bridge between
// a process attached to a pseudo-terminal and a client connection
// carrying tagged frames.
package webtty

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// WebTTY bridges one Master connection and at most one Slave process.
// The slave is spawned on the client's init message and killed exactly
// once when the session ends, on every exit path.
type WebTTY struct {
	master  Master
	factory SlaveFactory
	slave   Slave

	sessionID   string
	permitWrite bool
	credential  string
	windowTitle string
	preferences string
	mouse       bool

	paused bool
}

// New creates a WebTTY for one accepted connection. The slave is not
// spawned until the client sends its init message.
func New(master Master, factory SlaveFactory, options ...Option) *WebTTY {
	wt := &WebTTY{
		master:      master,
		factory:     factory,
		sessionID:   uuid.New().String()[:8],
		windowTitle: "webttyd",
		preferences: "{}",
	}

	for _, option := range options {
		option(wt)
	}

	return wt
}

// Run drives the session until the peer disconnects, the process ends,
// authentication fails, or ctx is canceled. It interleaves inbound
// frames with process output in one loop; output is only forwarded
// while a slave exists and the session is not paused.
func (wt *WebTTY) Run(ctx context.Context) error {
	// The child context releases the frame pump once the loop returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Printf("session %s: connection established", wt.sessionID)

	if err := wt.master.Send(serverFrame(SetWindowTitle, []byte(wt.windowTitle))); err != nil {
		return errors.Wrap(err, "failed to send window title")
	}
	if err := wt.master.Send(serverFrame(SetPreferences, []byte(wt.preferences))); err != nil {
		return errors.Wrap(err, "failed to send preferences")
	}

	defer func() {
		if wt.slave == nil {
			return
		}
		log.Printf("session %s: killing process %d", wt.sessionID, wt.slave.Pid())
		if err := wt.slave.Kill(); err != nil {
			log.Printf("session %s: kill failed: %v", wt.sessionID, err)
		}
	}()

	frames := make(chan []byte)
	readErrs := make(chan error, 1)
	go func() {
		for {
			frame, err := wt.master.Receive()
			if err != nil {
				readErrs <- err
				return
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		// A nil channel keeps the output arm from being selected while
		// the session is paused or no process has been spawned yet.
		// Chunks produced meanwhile stay queued in the slave's channel.
		var output <-chan []byte
		if wt.slave != nil && !wt.paused {
			output = wt.slave.Output()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErrs:
			log.Printf("session %s: connection closed: %v", wt.sessionID, err)
			return ErrMasterClosed

		case chunk, ok := <-output:
			if !ok {
				log.Printf("session %s: process ended", wt.sessionID)
				return ErrSlaveClosed
			}
			if err := wt.master.Send(serverFrame(Output, chunk)); err != nil {
				return errors.Wrap(err, "failed to send output to client")
			}

		case frame := <-frames:
			if err := wt.handleFrame(frame); err != nil {
				return err
			}
		}
	}
}

// handleFrame applies one inbound frame. Parse failures are dropped
// and the session continues; only authentication and spawn failures
// are fatal here.
func (wt *WebTTY) handleFrame(frame []byte) error {
	message, err := ParseClientMessage(frame, wt.mouse)
	if err != nil {
		log.Printf("session %s: dropped frame: %v", wt.sessionID, err)
		return nil
	}

	switch message.Type {
	case InitMessage:
		return wt.handleInit(message.Init)

	case Input:
		if !wt.permitWrite {
			return nil
		}
		wt.writeInput(message.Data)

	case ResizeTerminal:
		if wt.slave == nil {
			log.Printf("session %s: resize before init ignored", wt.sessionID)
			return nil
		}
		if err := wt.slave.Resize(message.Resize.Columns, message.Resize.Rows); err != nil {
			log.Printf("session %s: resize failed: %v", wt.sessionID, err)
		}

	case Pause:
		wt.paused = true

	case Resume:
		wt.paused = false

	case MouseClick:
		if !wt.permitWrite {
			return nil
		}
		click := message.Click
		wt.writeInput(mouseClickReport(click.X, click.Y, click.Button, click.Pressed))

	case MouseDrag:
		if !wt.permitWrite {
			return nil
		}
		drag := message.Drag
		wt.writeInput(mouseDragReport(drag.X, drag.Y, drag.Button))
	}

	return nil
}

func (wt *WebTTY) handleInit(init *InitPayload) error {
	if wt.slave != nil {
		log.Printf("session %s: repeated init message dropped", wt.sessionID)
		return nil
	}

	if wt.credential != "" {
		if init.AuthToken == nil {
			log.Printf("session %s: no auth token provided", wt.sessionID)
			return ErrAuthFailed
		}
		if *init.AuthToken != wt.credential {
			log.Printf("session %s: authentication failed", wt.sessionID)
			return ErrAuthFailed
		}
	}

	cols := init.Columns
	rows := init.Rows
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}

	slave, err := wt.factory.New(cols, rows)
	if err != nil {
		return errors.Wrap(err, "failed to spawn process")
	}
	wt.slave = slave
	log.Printf("session %s: spawned process %d at %dx%d", wt.sessionID, slave.Pid(), cols, rows)

	return nil
}

// writeInput is fire-and-forget relative to output delivery: the slave
// sheds rather than blocks when its input queue is full.
func (wt *WebTTY) writeInput(data []byte) {
	if wt.slave == nil {
		log.Printf("session %s: input before init ignored", wt.sessionID)
		return
	}
	if err := wt.slave.Write(data); err != nil {
		log.Printf("session %s: input write failed: %v", wt.sessionID, err)
	}
}
