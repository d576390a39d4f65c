package cmdutil

import (
	"bytes"
	"sync"
)

// lineWriter captures a stream into buf and calls handler for each complete
// line, without the trailing "\r\n" or "\n".
type lineWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	pending []byte
	handler OutputLineHandler
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	n, _ := lw.buf.Write(p)
	if lw.handler == nil {
		return n, nil
	}

	lw.pending = append(lw.pending, p...)
	for {
		idx := bytes.IndexByte(lw.pending, '\n')
		if idx < 0 {
			return n, nil
		}
		lw.handler(string(bytes.TrimSuffix(lw.pending[:idx], []byte("\r"))))
		lw.pending = lw.pending[idx+1:]
	}
}

// Flush reports an unterminated last line.
func (lw *lineWriter) Flush() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if len(lw.pending) > 0 && lw.handler != nil {
		lw.handler(string(bytes.TrimSuffix(lw.pending, []byte("\r"))))
	}
	lw.pending = nil
}

// Bytes returns everything written so far.
func (lw *lineWriter) Bytes() []byte {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.buf.Bytes()
}
