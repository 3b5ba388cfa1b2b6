package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ugorji/go/codec"
)

const (
	formatText    = "text"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

type textViewer interface {
	writeText(w io.Writer) error
}

// printer writes views as aligned text, one JSON document per line, or a
// stream of msgpack values.
type printer struct {
	enc *codec.Encoder
	tw  *tabwriter.Writer
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatText:
		return &printer{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}, nil
	case formatJSON:
		h := &codec.JsonHandle{TermWhitespace: true, HTMLCharsAsIs: true}
		return &printer{enc: codec.NewEncoder(w, h)}, nil
	case formatMsgpack:
		h := &codec.MsgpackHandle{WriteExt: true}
		return &printer{enc: codec.NewEncoder(w, h)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid options: text, json, msgpack)", format)
	}
}

func (p *printer) print(v textViewer) error {
	if p.enc != nil {
		return p.enc.Encode(v)
	}
	return v.writeText(p.tw)
}

func (p *printer) flush() error {
	if p.tw != nil {
		return p.tw.Flush()
	}
	return nil
}
