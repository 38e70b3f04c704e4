package render

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

func TestStreamWriterFlushesRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := NewFlushRecorder(&buf)
	sw := NewStreamWriterFrom(rec)

	sw.Write([]byte("shell"))
	sw.Flush()
	sw.Write([]byte("rest"))
	sw.Flush()

	if rec.FlushCount != 2 {
		t.Errorf("flushes = %d, want 2", rec.FlushCount)
	}
	// First flush happened after the shell bytes only.
	if len(rec.Marks) != 2 || rec.Marks[0] != len("shell") {
		t.Errorf("flush marks = %v", rec.Marks)
	}
	if buf.String() != "shellrest" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestStreamWriterNoFlusher(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriterFrom(&buf)
	sw.Write([]byte("x"))
	sw.Flush() // must not panic without a flusher
	if buf.String() != "x" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestStreamWriterHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	sw := NewStreamWriter(w)
	sw.Write([]byte("hello"))
	sw.Flush()

	if !w.Flushed {
		t.Error("expected the response recorder to be flushed")
	}
	if w.Body.String() != "hello" {
		t.Errorf("body = %q", w.Body.String())
	}
}
