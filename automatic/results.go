package automatic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Result formats.
const (
	FormatText   = "text"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

var ErrUnknownFormat = errors.New("unknown results format")

// ResultWriter persists results as the enumeration produces them.
type ResultWriter interface {
	Write(ctx context.Context, r Result) error
	Close() error
}

// TextWriter writes one {dice:D,startingplayer:P,total:T,eval:E} line per
// result.
type TextWriter struct {
	w io.Writer
	c io.Closer
}

func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

func (t *TextWriter) Write(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.w, "{dice:%d,startingplayer:%d,total:%d,eval:%d}\n",
		r.Dice, r.StartingPlayer, r.Total, r.Eval)
	return err
}

func (t *TextWriter) Close() error {
	if t.c == nil {
		return nil
	}
	return t.c.Close()
}

// YAMLWriter appends each result as a one-element YAML sequence, so the
// whole stream parses as a single list.
type YAMLWriter struct {
	w io.Writer
	c io.Closer
}

func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: w}
}

func (y *YAMLWriter) Write(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := yaml.Marshal([]Result{r})
	if err != nil {
		return err
	}
	_, err = y.w.Write(out)
	return err
}

func (y *YAMLWriter) Close() error {
	if y.c == nil {
		return nil
	}
	return y.c.Close()
}

// ReadYAMLResults parses what a YAMLWriter wrote.
func ReadYAMLResults(r io.Reader) ([]Result, error) {
	var results []Result
	if err := yaml.NewDecoder(r).Decode(&results); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

// OpenResultWriter creates the file at path and returns a writer for the
// given format.
func OpenResultWriter(format, path string) (ResultWriter, error) {
	switch format {
	case FormatText, FormatYAML:
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if format == FormatText {
			return &TextWriter{w: f, c: f}, nil
		}
		return &YAMLWriter{w: f, c: f}, nil
	case FormatSQLite:
		return OpenSQLiteStore(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
