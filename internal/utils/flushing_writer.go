package utils

import (
	"io"
	"sync"
)

type flushableWriter interface {
	Flush() error
}

// FlushingWriter serializes writes to the wrapped writer and flushes it after
// each write when the writer buffers output. Progress lines arrive from
// concurrent workers, so writes must stay whole and become visible
// immediately.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer. A nil writer stays nil and an already
// wrapped writer is returned as is.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{writer: writer}
}

// Write forwards data to the wrapped writer under the mutex, then flushes
// when the writer supports it.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	writtenByteCount, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return writtenByteCount, writeError
	}

	if flushTarget, canFlush := flushingWriter.writer.(flushableWriter); canFlush {
		writeError = flushTarget.Flush()
	}
	return writtenByteCount, writeError
}
