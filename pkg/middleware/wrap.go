package middleware

import "net/http"

// statusWriter captures the response status and size while passing Flush
// through to the underlying writer. Losing Flush would silently disable
// two-phase streaming, so the wrapper always implements http.Flusher.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func wrap(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Write(p []byte) (int, error) {
	n, err := s.ResponseWriter.Write(p)
	s.written += int64(n)
	return n, err
}

func (s *statusWriter) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
