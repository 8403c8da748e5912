package program

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var programLogger atomic.Pointer[slog.Logger]

// SetLogger routes program log messages to l. A nil logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	programLogger.Store(l)
}

// Log emits a program log line.
func Log(msg string, args ...any) {
	l := programLogger.Load()
	if l == nil {
		l = slog.Default()
	}
	l.Info(msg, args...)
}

// Tracer receives raw instruction data before it is dispatched.
type Tracer interface {
	Trace(programID Pubkey, data []byte)
}

// hexTracer implements Tracer with thread-safe line output.
type hexTracer struct {
	w  io.Writer
	mu sync.Mutex
}

// NewTracer creates a Tracer writing one hex dump line per instruction.
// If w is nil the tracer discards everything.
func NewTracer(w io.Writer) Tracer {
	return &hexTracer{w: w}
}

func (t *hexTracer) Trace(programID Pubkey, data []byte) {
	if t.w == nil || len(data) == 0 {
		return
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s ix: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		programID,
		len(data),
		hexbuf.String())

	t.mu.Lock()
	_, _ = t.w.Write([]byte(line))
	t.mu.Unlock()
}

var tracer atomic.Pointer[Tracer]

// SetTracer installs t for all dispatchers. Nil disables tracing.
func SetTracer(t Tracer) {
	if t == nil {
		tracer.Store(nil)
		return
	}
	tracer.Store(&t)
}

// TraceInstruction forwards data to the installed Tracer, if any.
func TraceInstruction(programID Pubkey, data []byte) {
	if t := tracer.Load(); t != nil {
		(*t).Trace(programID, data)
	}
}
