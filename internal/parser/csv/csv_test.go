package csv

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"energydash/internal/config"
	"energydash/internal/dataset"
)

func TestParse_EurostatExtract(t *testing.T) {
	in := "\uFEFFDATAFLOW,geo,TIME_PERIOD,OBS_VALUE,OBS_FLAG\n" +
		"ESTAT:X,Germany,2010, 800.5 ,\n" +
		"ESTAT:X,France,2011,:,p\n" +
		"ESTAT:X,Italy,2012\n"

	tab, err := Parse(strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"DATAFLOW", "geo", "TIME_PERIOD", "OBS_VALUE", "OBS_FLAG"}; !reflect.DeepEqual(tab.Header, want) {
		t.Fatalf("Header = %q, want %q", tab.Header, want)
	}
	if err := tab.CheckColumns(); err != nil {
		t.Fatalf("CheckColumns: %v", err)
	}
	if len(tab.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tab.Rows))
	}
	v := tab.Index(dataset.ColObsValue)
	if got := tab.Cell(0, v); got != "800.5" {
		t.Fatalf("trimmed value = %q", got)
	}
	if got := tab.Cell(2, v); got != "" {
		t.Fatalf("ragged row value = %q, want empty", got)
	}
}

func TestParse_SemicolonAndHeaderMap(t *testing.T) {
	in := "Land;Jahr;Wert\nÖsterreich;2015;12,5\n"
	opt := OptionsFrom(config.Options{
		"comma":      ";",
		"header_map": map[string]any{"Land": "geo", "Jahr": "TIME_PERIOD", "Wert": "OBS_VALUE"},
	})
	tab, err := Parse(strings.NewReader(in), opt)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tab.CheckColumns(); err != nil {
		t.Fatalf("CheckColumns after header_map: %v", err)
	}
	if got := tab.Cell(0, tab.Index(dataset.ColGeo)); got != "Österreich" {
		t.Fatalf("geo = %q", got)
	}
}

func TestParse_Latin1(t *testing.T) {
	// "Österreich" in ISO-8859-1: 0xD6 for Ö.
	in := "geo,TIME_PERIOD,OBS_VALUE\n\xd6sterreich,2015,1\n"
	tab, err := Parse(strings.NewReader(in), Options{Charset: "latin1"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tab.Cell(0, 0); got != "Österreich" {
		t.Fatalf("geo = %q, want Österreich", got)
	}
}

func TestParse_NFCNormalization(t *testing.T) {
	decomposed := "Co\u0302te d'Ivoire" // o + combining circumflex
	in := "geo,TIME_PERIOD,OBS_VALUE\n" + decomposed + ",2015,1\n"

	tab, err := Parse(strings.NewReader(in), Options{NormalizeUnicode: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tab.Cell(0, 0); got != "C\u00f4te d'Ivoire" {
		t.Fatalf("geo = %q, want composed form", got)
	}

	raw, _ := Parse(strings.NewReader(in), Options{})
	if raw.Cell(0, 0) != decomposed {
		t.Fatalf("normalization applied without NormalizeUnicode")
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(strings.NewReader(""), Options{}); !errors.Is(err, dataset.ErrDataUnavailable) {
		t.Errorf("empty input error = %v, want ErrDataUnavailable", err)
	}
	if _, err := Parse(strings.NewReader("a\n"), Options{Charset: "ebcdic"}); !errors.Is(err, ErrUnsupportedCharset) {
		t.Errorf("charset error = %v, want ErrUnsupportedCharset", err)
	}
	if _, err := Parse(strings.NewReader("geo,x\n\"bad,1\n"), Options{}); err == nil {
		t.Errorf("unterminated quote = nil error")
	}
}

func TestOptionsFrom_Defaults(t *testing.T) {
	opt := OptionsFrom(nil)
	if opt.Comma != ',' || !opt.TrimSpace || opt.Charset != "utf-8" || !opt.NormalizeUnicode {
		t.Fatalf("defaults = %+v", opt)
	}
	if opt.HeaderMap == nil {
		t.Fatal("HeaderMap is nil")
	}
}
