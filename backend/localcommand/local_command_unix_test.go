//go:build !windows

package localcommand

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// drain collects output until the channel closes or the timeout hits.
func drain(t *testing.T, lcmd *LocalCommand, timeout time.Duration) []byte {
	t.Helper()
	var buf bytes.Buffer
	deadline := time.After(timeout)
	for {
		select {
		case chunk, ok := <-lcmd.Output():
			if !ok {
				return buf.Bytes()
			}
			buf.Write(chunk)
		case <-deadline:
			t.Fatalf("output did not close in time, got so far: %q", buf.String())
		}
	}
}

func TestSpawnAndReadOutput(t *testing.T) {
	lcmd, err := New("sh", []string{"-c", "printf hello-from-pty"}, Size{})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if lcmd.Pid() == 0 {
		t.Error("expected a nonzero pid")
	}

	output := drain(t, lcmd, 5*time.Second)
	if !strings.Contains(string(output), "hello-from-pty") {
		t.Errorf("output %q does not contain the expected text", output)
	}
}

func TestWriteReachesProcess(t *testing.T) {
	lcmd, err := New("cat", nil, Size{Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	defer lcmd.Kill()

	if err := lcmd.Write([]byte("echo-me\r")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var buf bytes.Buffer
	deadline := time.After(5 * time.Second)
	for !strings.Contains(buf.String(), "echo-me") {
		select {
		case chunk, ok := <-lcmd.Output():
			if !ok {
				t.Fatalf("output closed before input came back, got %q", buf.String())
			}
			buf.Write(chunk)
		case <-deadline:
			t.Fatalf("timed out waiting for cat to echo, got %q", buf.String())
		}
	}
}

func TestKillIsIdempotent(t *testing.T) {
	lcmd, err := New("sleep", []string{"60"}, Size{}, WithCloseTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	if err := lcmd.Kill(); err != nil {
		t.Errorf("first kill failed: %v", err)
	}
	if err := lcmd.Kill(); err != nil {
		t.Errorf("second kill failed: %v", err)
	}

	drain(t, lcmd, 5*time.Second)

	// the process is gone; killing again must still be safe
	if err := lcmd.Kill(); err != nil {
		t.Errorf("kill after exit failed: %v", err)
	}
}

func TestKillReleasesReaderWithoutConsumer(t *testing.T) {
	lcmd, err := New("sh", []string{"-c", "yes"}, Size{}, WithCloseTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	// Let the producer fill the output queue while nobody reads it.
	time.Sleep(500 * time.Millisecond)

	if err := lcmd.Kill(); err != nil {
		t.Fatalf("kill failed: %v", err)
	}

	// The reader must give up its pending chunk and close the channel
	// even though the queue was never drained.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-lcmd.Output():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("output channel never closed after kill")
		}
	}
}

func TestSpawnFailure(t *testing.T) {
	if _, err := New("/nonexistent/no-such-binary", nil, Size{}); err == nil {
		t.Error("expected an error for a missing executable")
	}
}

func TestSpawnFailsOnBadCwd(t *testing.T) {
	if _, err := New("sh", []string{"-c", "pwd"}, Size{}, WithCwd("/nonexistent-dir")); err == nil {
		t.Error("expected an error when the working directory does not exist")
	}
}

func TestResizeDoesNotBlock(t *testing.T) {
	lcmd, err := New("sleep", []string{"60"}, Size{}, WithCloseTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	defer lcmd.Kill()

	for _, size := range []Size{{100, 30}, {60, 20}, {132, 43}} {
		if err := lcmd.Resize(size.Cols, size.Rows); err != nil {
			t.Errorf("resize to %dx%d failed: %v", size.Cols, size.Rows, err)
		}
	}
}
