package logger

import (
	"io"
	"regexp"
)

// Redactor scrubs credential material from log output. Provider API keys are
// write-only in this layer: they may flow through error messages from SDKs,
// so the log sink is the last line of defense.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a redactor covering the credential shapes of the known
// providers.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			// OpenAI-style and Anthropic-style keys
			regexp.MustCompile(`sk-[a-zA-Z0-9_-]{16,}`),
			regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{16,}`),

			// Bearer tokens in dumped request headers
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),

			// Generic key/token/secret assignments
			regexp.MustCompile(`api_key["\s:=]+[^\s"]+`),
			regexp.MustCompile(`token["\s:=]+[a-zA-Z0-9._-]{16,}`),
			regexp.MustCompile(`secret["\s:=]+[^\s"]+`),
		},
	}
}

// Redact replaces credential-shaped substrings with a placeholder.
func (r *Redactor) Redact(s string) string {
	out := s
	for _, p := range r.patterns {
		out = p.ReplaceAllString(out, "[REDACTED]")
	}
	return out
}

// Wrap returns a writer that redacts everything written through it.
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{writer: w, redactor: r}
}

type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

func (w *redactingWriter) Write(p []byte) (int, error) {
	redacted := w.redactor.Redact(string(p))
	if _, err := w.writer.Write([]byte(redacted)); err != nil {
		return 0, err
	}
	// Report the original length so zerolog does not treat redaction as a
	// short write.
	return len(p), nil
}
