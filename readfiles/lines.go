package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxPrealloc bounds the storage reserved from a count read out of a file.
const maxPrealloc = 1 << 16

// lineScanner yields trimmed, non blank lines with any trailing comment
// removed, and tracks the line number for error messages.
type lineScanner struct {
	sc      *bufio.Scanner
	comment string
	line    int
	text    string
}

func newLineScanner(r io.Reader, comment string) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &lineScanner{sc: sc, comment: comment}
}

func (ls *lineScanner) Scan() bool {
	for ls.sc.Scan() {
		ls.line++
		text := ls.sc.Text()
		if ls.comment != "" {
			if i := strings.Index(text, ls.comment); i >= 0 {
				text = text[:i]
			}
		}
		if ls.text = strings.TrimSpace(text); ls.text != "" {
			return true
		}
	}
	return false
}

func (ls *lineScanner) Text() string { return ls.text }

func (ls *lineScanner) Err() error { return ls.sc.Err() }

// next returns the next line, treating the end of input as an error.
func (ls *lineScanner) next(context string) (string, error) {
	if !ls.Scan() {
		if err := ls.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("unexpected end of file reading %s: %w", context, io.ErrUnexpectedEOF)
	}
	return ls.text, nil
}

func (ls *lineScanner) skipTo(marker string) error {
	for ls.Scan() {
		if ls.text == marker {
			return nil
		}
	}
	if err := ls.sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("missing %s: %w", marker, io.ErrUnexpectedEOF)
}

func (ls *lineScanner) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", ls.line, fmt.Sprintf(format, args...))
}
