// Package config
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/algonex/algonex/internal/indicator"
)

/*
YAML config example:
mode: "composite"
ticker: "AAPL"
data_file: "prices.csv"
initial_capital: 10000
signal_threshold: 0.5
require_confirmation: true
indicators:
  - type: "rsi"
    weight: 0.5
    params: { period: 14, overbought: 70, oversold: 30 }
  - type: "ma"
    weight: 0.5
    params: { short_window: 10, long_window: 50 }
ml_weight: 0.4
db_conn_str: ""
log_level: "info"
output_dir: "results"
*/

type IndicatorConfig struct {
	Type   string             `yaml:"type"`
	Weight float64            `yaml:"weight"`
	Params map[string]float64 `yaml:"params"`
}

type Config struct {
	Mode                string            `yaml:"mode"`
	Ticker              string            `yaml:"ticker"`
	DataFile            string            `yaml:"data_file"`
	InitialCapital      float64           `yaml:"initial_capital"`
	SignalThreshold     float64           `yaml:"signal_threshold"`
	RequireConfirmation bool              `yaml:"require_confirmation"`
	Indicators          []IndicatorConfig `yaml:"indicators"`
	MLWeight            float64           `yaml:"ml_weight"`
	DBConnStr           string            `yaml:"db_conn_str"`
	LogLevel            string            `yaml:"log_level"`
	OutputDir           string            `yaml:"output_dir"`
}

// Load builds the config from flags, with an optional YAML file as the
// base. Flags that were set on the command line override file values.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("algonex", flag.ContinueOnError)
	mode := fs.String("mode", "composite", "Mode: composite, ml or hybrid")
	ticker := fs.String("ticker", "", "Ticker label for the run")
	dataFile := fs.String("data", "", "Path to the OHLCV CSV file")
	initialCapital := fs.Float64("capital", 10000, "Initial capital")
	threshold := fs.Float64("threshold", 0.5, "Composite signal threshold")
	confirmation := fs.Bool("confirmation", true, "Require majority agreement among indicators")
	indicatorsFlag := fs.String("indicators", "rsi:1.0", "Comma-separated type:weight[:key=value;...] triples (e.g., rsi:0.5:period=14;oversold=25,ma:0.5)")
	mlWeight := fs.Float64("ml-weight", 0.4, "ML vote weight for hybrid mode")
	logLevel := fs.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	outputDir := fs.String("output", "", "Directory for trades.csv and equity.csv exports (empty disables)")
	configFile := fs.String("config", "", "Path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Mode:                *mode,
		Ticker:              *ticker,
		DataFile:            *dataFile,
		InitialCapital:      *initialCapital,
		SignalThreshold:     *threshold,
		RequireConfirmation: *confirmation,
		MLWeight:            *mlWeight,
		DBConnStr:           os.Getenv("DB_CONN_STR"),
		LogLevel:            *logLevel,
		OutputDir:           *outputDir,
	}

	indicators, err := parseIndicators(*indicatorsFlag)
	if err != nil {
		return Config{}, err
	}
	cfg.Indicators = indicators

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		fileCfg := cfg
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		cfg = fileCfg
		// Flags set explicitly on the command line win over the file.
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "mode":
				cfg.Mode = *mode
			case "ticker":
				cfg.Ticker = *ticker
			case "data":
				cfg.DataFile = *dataFile
			case "capital":
				cfg.InitialCapital = *initialCapital
			case "threshold":
				cfg.SignalThreshold = *threshold
			case "confirmation":
				cfg.RequireConfirmation = *confirmation
			case "indicators":
				cfg.Indicators = indicators
			case "ml-weight":
				cfg.MLWeight = *mlWeight
			case "log-level":
				cfg.LogLevel = *logLevel
			case "output":
				cfg.OutputDir = *outputDir
			}
		})
	}

	return cfg, nil
}

// parseIndicators parses type:weight[:key=value;...] triples.
func parseIndicators(spec string) ([]IndicatorConfig, error) {
	if spec == "" {
		return nil, nil
	}
	var out []IndicatorConfig
	for _, entry := range strings.Split(spec, ",") {
		parts := strings.SplitN(entry, ":", 3)
		ic := IndicatorConfig{Type: parts[0], Weight: 1.0}
		if len(parts) >= 2 {
			w, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, fmt.Errorf("indicator %q: bad weight %q", parts[0], parts[1])
			}
			ic.Weight = w
		}
		if len(parts) == 3 && parts[2] != "" {
			ic.Params = make(map[string]float64)
			for _, kv := range strings.Split(parts[2], ";") {
				key, val, ok := strings.Cut(kv, "=")
				if !ok {
					return nil, fmt.Errorf("indicator %q: bad parameter %q", parts[0], kv)
				}
				v, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, fmt.Errorf("indicator %q: bad value for %q", parts[0], key)
				}
				ic.Params[key] = v
			}
		}
		out = append(out, ic)
	}
	return out, nil
}

// Validate checks the config before any data is touched.
func (c Config) Validate() error {
	switch c.Mode {
	case "composite", "ml", "hybrid":
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.DataFile == "" {
		return fmt.Errorf("data file is required")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %v", c.InitialCapital)
	}
	if c.Mode != "ml" {
		if len(c.Indicators) < 1 || len(c.Indicators) > 3 {
			return fmt.Errorf("need 1 to 3 indicators, got %d", len(c.Indicators))
		}
	}
	if c.Mode == "hybrid" && (c.MLWeight < 0 || c.MLWeight > 1) {
		return fmt.Errorf("ml weight %v outside [0, 1]", c.MLWeight)
	}
	return nil
}

// IndicatorParams converts the per-indicator parameter maps to the
// indicator package's typed form, aligned with Types and Weights.
func (c Config) IndicatorParams() ([]string, []float64, []indicator.Params) {
	types := make([]string, len(c.Indicators))
	weights := make([]float64, len(c.Indicators))
	params := make([]indicator.Params, len(c.Indicators))
	for i, ic := range c.Indicators {
		types[i] = ic.Type
		weights[i] = ic.Weight
		params[i] = indicator.Params(ic.Params)
	}
	return types, weights, params
}
