package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output writes command results either as aligned text tables or as JSON.
type Output struct {
	format string
	w      io.Writer
}

func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: strings.ToLower(format), w: w}
}

func (o *Output) JSON() bool {
	return o.format == FormatJSON
}

func (o *Output) PrintJSON(data any) error {
	payload, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	payload = append(payload, '\n')
	_, err = o.w.Write(payload)
	return err
}

// Print emits data as JSON, or calls text to render it otherwise.
func (o *Output) Print(data any, text func(*Output) error) error {
	if o.JSON() || text == nil {
		return o.PrintJSON(data)
	}
	return text(o)
}

func (o *Output) Line(format string, args ...any) error {
	_, err := fmt.Fprintf(o.w, format+"\n", args...)
	return err
}

// Table renders rows under header with columns padded to their widest cell.
func (o *Output) Table(header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = utf8.RuneCountInString(cell)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writeTableRow(buf, header, widths)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeTableRow(buf, rule, widths)
	for _, row := range rows {
		writeTableRow(buf, row, widths)
	}

	_, err := o.w.Write(buf.B)
	return err
}

func writeTableRow(buf *bytebufferpool.ByteBuffer, cells []string, widths []int) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			_, _ = buf.WriteString("  ")
		}
		_, _ = buf.WriteString(cell)
		if i < len(widths)-1 {
			_, _ = buf.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
		}
	}
	_ = buf.WriteByte('\n')
}

func formatPoints(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
