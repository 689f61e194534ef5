package ipc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Request words.
const (
	RequestPing  = "ping"
	RequestHide  = "hide"
	RequestShow  = "show"
	RequestStop  = "stop"
	RequestState = "state"
)

// Response words.
const (
	ResponsePong    = "pong"
	ResponseOK      = "ok"
	ResponseHidden  = "hidden"
	ResponseVisible = "visible"
	ResponseUnknown = "unknown"
)

// MaxLineLength bounds a single protocol line, newline excluded.
const MaxLineLength = 256

// ReadLine reads one protocol line and returns it trimmed.
// A final line without a newline is accepted at EOF. A line longer than
// MaxLineLength is returned with tooLong set.
func ReadLine(r io.Reader) (line string, tooLong bool, err error) {
	br := bufio.NewReaderSize(io.LimitReader(r, MaxLineLength+2), MaxLineLength+2)
	raw, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || raw == "") {
		return "", false, err
	}
	raw = strings.TrimSuffix(raw, "\n")
	if len(raw) > MaxLineLength {
		return "", true, nil
	}
	return strings.TrimSpace(raw), false, nil
}

// WriteLine writes s followed by a newline.
func WriteLine(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s+"\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
