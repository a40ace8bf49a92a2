// Package csv reads Eurostat-style CSV extracts into a dataset.RawTable.
//
// Input bytes pass through an optional charset decoder and Unicode NFC
// normalization before reaching encoding/csv, so country names exported by
// legacy tooling (Latin-1, Windows-1252) compare equal to UTF-8 ones.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"energydash/internal/config"
	"energydash/internal/dataset"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures parsing. The zero value reads comma-separated UTF-8
// with NFC normalization disabled.
type Options struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune

	// TrimSpace trims surrounding whitespace from every cell.
	TrimSpace bool

	// Charset names the input encoding: utf-8 (default), iso-8859-1,
	// windows-1252, windows-1250 or iso-8859-15.
	Charset string

	// NormalizeUnicode composes text to NFC.
	NormalizeUnicode bool

	// HeaderMap renames source headers, e.g. {"Land": "geo"}.
	HeaderMap map[string]string
}

// OptionsFrom reads parser options from a config block.
func OptionsFrom(o config.Options) Options {
	return Options{
		Comma:            o.Rune("comma", ','),
		TrimSpace:        o.Bool("trim_space", true),
		Charset:          o.String("charset", "utf-8"),
		NormalizeUnicode: o.Bool("normalize_unicode", true),
		HeaderMap:        o.StringMap("header_map"),
	}
}

// ErrUnsupportedCharset is returned for unknown Charset names.
var ErrUnsupportedCharset = errors.New("unsupported charset")

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder(), nil
	case "windows-1250", "cp1250":
		return charmap.Windows1250.NewDecoder(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedCharset, name)
}

// Parse reads the whole input. The first record is the header. Rows may be
// ragged; missing trailing cells read as empty through RawTable.Cell.
// An input without a header row is ErrDataUnavailable.
func Parse(r io.Reader, opt Options) (dataset.RawTable, error) {
	dec, err := decoderFor(opt.Charset)
	if err != nil {
		return dataset.RawTable{}, err
	}
	if dec != nil {
		r = transform.NewReader(r, dec)
	}
	if opt.NormalizeUnicode {
		r = transform.NewReader(r, norm.NFC)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}

	h, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return dataset.RawTable{}, fmt.Errorf("csv: empty input: %w", dataset.ErrDataUnavailable)
	}
	if err != nil {
		return dataset.RawTable{}, fmt.Errorf("csv: read header: %w", err)
	}

	t := dataset.RawTable{Header: normalizeHeader(h, opt)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dataset.RawTable{}, fmt.Errorf("csv: %w", err)
		}
		if opt.TrimSpace {
			for i := range rec {
				rec[i] = strings.TrimSpace(rec[i])
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func normalizeHeader(h []string, opt Options) []string {
	out := make([]string, len(h))
	for i, name := range h {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if mapped, ok := opt.HeaderMap[name]; ok {
			name = mapped
		}
		out[i] = name
	}
	return out
}
