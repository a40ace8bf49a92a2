package config

import (
	"flag"
	"strconv"
	"strings"
)

// Flags holds the runtime knobs of the energydash binary. Environment
// variables seed the defaults; explicit flags override them.
type Flags struct {
	ConfigPath     string
	Validate       bool
	Serve          string
	Country        string
	From           int
	To             int
	Charts         bool
	MetricsBackend string
	PushgatewayURL string
	DatadogAddr    string
	Verbose        bool
}

// WantsReport reports whether any one-shot report flag was given.
func (f Flags) WantsReport() bool {
	return f.Country != "" || f.From != 0 || f.To != 0 || f.Charts
}

// ServeAddr picks the listen address, or "" for a one-shot report. An
// explicit -serve (or ENERGYDASH_ADDR) always serves; report flags override
// server.addr from the config file.
func (f Flags) ServeAddr(d Dashboard) string {
	if f.Serve != "" {
		return f.Serve
	}
	if f.WantsReport() {
		return ""
	}
	return d.Server.Addr
}

// LoadFlags defines flags on fs, wires each to an environment fallback via
// getenv, and parses args. Tests pass a private FlagSet and a map-backed
// getenv to stay hermetic.
func LoadFlags(fs *flag.FlagSet, getenv func(string) string, args []string) (*Flags, error) {
	f := &Flags{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	boolEnvOr := func(k string, d bool) bool {
		switch strings.ToLower(getenv(k)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}
	intEnvOr := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}

	fs.StringVar(&f.ConfigPath, "config", envOr("ENERGYDASH_CONFIG", "energydash.json"), "Path to dashboard config (JSON or YAML)")
	fs.BoolVar(&f.Validate, "validate", false, "Validate the config, print issues and exit")
	fs.StringVar(&f.Serve, "serve", envOr("ENERGYDASH_ADDR", ""), "Serve the HTTP API on this address instead of printing a report")
	fs.StringVar(&f.Country, "country", "", "Country for the one-shot report (default: first available)")
	fs.IntVar(&f.From, "from", intEnvOr("ENERGYDASH_FROM", 0), "First year of the report range")
	fs.IntVar(&f.To, "to", intEnvOr("ENERGYDASH_TO", 0), "Last year of the report range")
	fs.BoolVar(&f.Charts, "charts", false, "Print chart descriptions instead of the computed view")
	fs.StringVar(&f.MetricsBackend, "metrics-backend", envOr("METRICS_BACKEND", ""), "Metrics backend: pushgateway, datadog or none (overrides config)")
	fs.StringVar(&f.PushgatewayURL, "pushgateway-url", envOr("PUSHGATEWAY_URL", ""), "Prometheus Pushgateway URL")
	fs.StringVar(&f.DatadogAddr, "datadog-addr", envOr("DD_AGENT_ADDR", ""), "DogStatsD agent address")
	fs.BoolVar(&f.Verbose, "v", boolEnvOr("ENERGYDASH_VERBOSE", false), "Development logging")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyTo overlays non-empty flag values onto d. Server.Addr is left empty
// when a one-shot report was requested.
func (f *Flags) ApplyTo(d *Dashboard) {
	d.Server.Addr = f.ServeAddr(*d)
	if f.MetricsBackend != "" {
		d.Metrics.Backend = f.MetricsBackend
	}
	if f.PushgatewayURL != "" {
		d.Metrics.PushgatewayURL = f.PushgatewayURL
	}
	if f.DatadogAddr != "" {
		d.Metrics.DatadogAddr = f.DatadogAddr
	}
}
