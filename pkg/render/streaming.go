package render

import (
	"io"
	"net/http"
)

// StreamWriter wraps a response writer with explicit flushing so each render
// phase reaches the client as soon as it is written.
type StreamWriter struct {
	w       io.Writer
	flusher http.Flusher
}

// NewStreamWriter creates a StreamWriter over an http.ResponseWriter. If the
// writer implements http.Flusher, Flush pushes buffered bytes to the client;
// otherwise Flush is a no-op.
func NewStreamWriter(w http.ResponseWriter) *StreamWriter {
	flusher, _ := w.(http.Flusher)
	return &StreamWriter{w: w, flusher: flusher}
}

// NewStreamWriterFrom creates a StreamWriter over any io.Writer, flushing
// when the writer also implements http.Flusher.
func NewStreamWriterFrom(w io.Writer) *StreamWriter {
	flusher, _ := w.(http.Flusher)
	return &StreamWriter{w: w, flusher: flusher}
}

// Write implements io.Writer.
func (s *StreamWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush flushes the underlying writer if it supports flushing.
func (s *StreamWriter) Flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// FlushRecorder wraps an io.Writer and counts flushes. Useful for testing
// streaming behavior without an http.ResponseWriter.
type FlushRecorder struct {
	io.Writer
	FlushCount int

	// Marks records the byte offset of the output at each flush.
	Marks []int
	n     int
}

// NewFlushRecorder creates a FlushRecorder over w.
func NewFlushRecorder(w io.Writer) *FlushRecorder {
	return &FlushRecorder{Writer: w}
}

// Write implements io.Writer.
func (f *FlushRecorder) Write(p []byte) (int, error) {
	n, err := f.Writer.Write(p)
	f.n += n
	return n, err
}

// Flush implements http.Flusher.
func (f *FlushRecorder) Flush() {
	f.FlushCount++
	f.Marks = append(f.Marks, f.n)
}
