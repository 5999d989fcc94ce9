package exec

import (
	"bytes"
	"fmt"
	"io"
)

// PrefixWriter tags each line of a command's output. Partial lines stay
// buffered until a newline arrives or Flush is called.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: writer,
	}
}

// Write adds the prefix to each complete line
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		line := p.buffer[:i]
		p.buffer = p.buffer[i+1:]
		if _, err := fmt.Fprintf(p.writer, "%s%s\n", p.prefix, line); err != nil {
			return 0, err
		}
	}

	return len(data), nil
}

// Flush writes any buffered partial line
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.writer, "%s%s\n", p.prefix, p.buffer)
	p.buffer = p.buffer[:0]
	return err
}
