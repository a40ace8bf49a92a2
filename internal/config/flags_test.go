package config

import (
	"flag"
	"io"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadFlags_EnvDefaultsAndFlags(t *testing.T) {
	env := map[string]string{
		"ENERGYDASH_CONFIG": "/etc/dash.yaml",
		"ENERGYDASH_ADDR":   ":7000",
		"METRICS_BACKEND":   "pushgateway",
		"PUSHGATEWAY_URL":   "http://pgw:9091",
	}
	getenv := func(k string) string { return env[k] }

	f, err := LoadFlags(newFlagSet(), getenv, []string{"-serve=:8081", "-country", "Germany", "-from=2010", "-to=2015", "-v"})
	if err != nil {
		t.Fatalf("LoadFlags: %v", err)
	}
	if f.ConfigPath != "/etc/dash.yaml" {
		t.Errorf("ConfigPath = %q, want env value", f.ConfigPath)
	}
	if f.Serve != ":8081" {
		t.Errorf("Serve = %q, want flag to override env", f.Serve)
	}
	if f.Country != "Germany" || !f.WantsReport() || f.From != 2010 || f.To != 2015 {
		t.Errorf("selection flags = %+v", f)
	}
	if !f.Verbose || f.Validate || f.Charts {
		t.Errorf("bool flags = %+v", f)
	}

	var d Dashboard
	d.Metrics.Backend = "datadog"
	f.ApplyTo(&d)
	if d.Server.Addr != ":8081" || d.Metrics.Backend != "pushgateway" || d.Metrics.PushgatewayURL != "http://pgw:9091" {
		t.Errorf("ApplyTo = %+v", d)
	}
}

func TestLoadFlags_DefaultsWithoutEnv(t *testing.T) {
	f, err := LoadFlags(newFlagSet(), func(string) string { return "" }, nil)
	if err != nil {
		t.Fatalf("LoadFlags: %v", err)
	}
	if f.ConfigPath != "energydash.json" || f.Serve != "" || f.WantsReport() {
		t.Fatalf("defaults = %+v", f)
	}

	var d Dashboard
	d.Server.Addr = ":1"
	f.ApplyTo(&d)
	if d.Server.Addr != ":1" {
		t.Fatalf("ApplyTo overwrote addr with empty flag")
	}
}

func TestFlags_ServeAddr(t *testing.T) {
	d := Dashboard{Server: Server{Addr: ":8080"}}
	for _, tt := range []struct {
		name string
		f    Flags
		want string
	}{
		{"config addr", Flags{}, ":8080"},
		{"country wants report", Flags{Country: "Germany"}, ""},
		{"range wants report", Flags{From: 2010, To: 2012}, ""},
		{"charts wants report", Flags{Charts: true}, ""},
		{"explicit serve wins", Flags{Serve: ":9000", Country: "Germany"}, ":9000"},
	} {
		if got := tt.f.ServeAddr(d); got != tt.want {
			t.Errorf("%s: ServeAddr = %q, want %q", tt.name, got, tt.want)
		}
		dd := d
		tt.f.ApplyTo(&dd)
		if dd.Server.Addr != tt.want {
			t.Errorf("%s: ApplyTo addr = %q, want %q", tt.name, dd.Server.Addr, tt.want)
		}
	}
}

func TestLoadFlags_BadFlag(t *testing.T) {
	if _, err := LoadFlags(newFlagSet(), func(string) string { return "" }, []string{"-from=abc"}); err == nil {
		t.Fatal("LoadFlags(-from=abc) = nil error")
	}
}
