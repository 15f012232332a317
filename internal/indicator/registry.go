package indicator

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrConfiguration marks construction-time errors: unknown indicator types
// or unrecognized or out-of-range parameter values.
var ErrConfiguration = errors.New("invalid indicator configuration")

// Params carries the tunable values for one indicator. Keys not recognized
// by the indicator type are rejected at Build time.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p Params) getInt(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

type builder struct {
	keys  map[string]struct{}
	build func(Params) Indicator
}

// Registry maps indicator type names to their builders. It is populated
// once by NewRegistry and never mutated afterwards.
type Registry struct {
	builders map[string]builder
}

// Build constructs an indicator of the named type, filling unspecified
// parameters with the type's defaults. Unknown or out-of-range parameters
// fail here, before any price data is touched.
func (r *Registry) Build(typ string, params Params) (Indicator, error) {
	b, ok := r.builders[typ]
	if !ok {
		return nil, fmt.Errorf("%w: unknown indicator type %q", ErrConfiguration, typ)
	}
	for key, v := range params {
		if _, ok := b.keys[key]; !ok {
			return nil, fmt.Errorf("%w: indicator %q does not accept parameter %q", ErrConfiguration, typ, key)
		}
		if err := validateParam(key, v); err != nil {
			return nil, fmt.Errorf("%w: indicator %q: %v", ErrConfiguration, typ, err)
		}
	}
	return b.build(params), nil
}

// validateParam checks one parameter value against the constraints its key
// implies. Windows and periods are positive whole numbers; scale factors
// are positive; the retracement ratio stays in [0, 1]. Overbought/oversold
// thresholds only need to be finite (Williams %R and CMO use negative ones).
func validateParam(key string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parameter %q must be finite", key)
	}
	switch key {
	case "period", "window", "short_window", "long_window",
		"k_period", "d_period", "fast_period", "slow_period", "signal_period":
		if v != math.Trunc(v) {
			return fmt.Errorf("parameter %q must be a whole number, got %v", key, v)
		}
		if v < 1 {
			return fmt.Errorf("parameter %q must be at least 1, got %v", key, v)
		}
	case "num_std", "multiplier", "entry_z", "accel_step", "accel_max":
		if v <= 0 {
			return fmt.Errorf("parameter %q must be positive, got %v", key, v)
		}
	case "retracement":
		if v < 0 || v > 1 {
			return fmt.Errorf("parameter %q must be in [0, 1], got %v", key, v)
		}
	}
	return nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.builders))
	for typ := range r.builders {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

func keySet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// NewRegistry returns the registry of all supported indicator types with
// their default parameters.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]builder{
		"ma": {
			keys: keySet("short_window", "long_window"),
			build: func(p Params) Indicator {
				return NewMovingAverage(p.getInt("short_window", 40), p.getInt("long_window", 100))
			},
		},
		"ema": {
			keys: keySet("short_window", "long_window"),
			build: func(p Params) Indicator {
				return NewEMACrossover(p.getInt("short_window", 12), p.getInt("long_window", 26))
			},
		},
		"rsi": {
			keys: keySet("period", "overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewRSI(p.getInt("period", 14), p.get("overbought", 70), p.get("oversold", 30))
			},
		},
		"bollinger": {
			keys: keySet("window", "num_std"),
			build: func(p Params) Indicator {
				return NewBollinger(p.getInt("window", 20), p.get("num_std", 2))
			},
		},
		"mean_reversion": {
			keys: keySet("window", "entry_z"),
			build: func(p Params) Indicator {
				return NewMeanReversion(p.getInt("window", 20), p.get("entry_z", 1.0))
			},
		},
		"mfi": {
			keys: keySet("period", "overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewMoneyFlowIndex(p.getInt("period", 14), p.get("overbought", 80), p.get("oversold", 20))
			},
		},
		"sar": {
			keys: keySet("accel_step", "accel_max"),
			build: func(p Params) Indicator {
				return NewParabolicSAR(p.get("accel_step", 0.02), p.get("accel_max", 0.2))
			},
		},
		"cmo": {
			keys: keySet("period", "overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewCMO(p.getInt("period", 14), p.get("overbought", 50), p.get("oversold", -50))
			},
		},
		"stochastic": {
			keys: keySet("k_period", "d_period", "overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewStochastic(p.getInt("k_period", 14), p.getInt("d_period", 3), p.get("overbought", 80), p.get("oversold", 20))
			},
		},
		"williams_r": {
			keys: keySet("period", "overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewWilliamsR(p.getInt("period", 14), p.get("overbought", -20), p.get("oversold", -80))
			},
		},
		"macd": {
			keys: keySet("fast_period", "slow_period", "signal_period"),
			build: func(p Params) Indicator {
				return NewMACD(p.getInt("fast_period", 12), p.getInt("slow_period", 26), p.getInt("signal_period", 9))
			},
		},
		"ppo": {
			keys: keySet("fast_period", "slow_period", "signal_period"),
			build: func(p Params) Indicator {
				return NewPPO(p.getInt("fast_period", 12), p.getInt("slow_period", 26), p.getInt("signal_period", 9))
			},
		},
		"obv": {
			keys: keySet("period"),
			build: func(p Params) Indicator {
				return NewOBV(p.getInt("period", 20))
			},
		},
		"vwap": {
			keys: keySet("period"),
			build: func(p Params) Indicator {
				return NewVWAP(p.getInt("period", 14))
			},
		},
		"atr": {
			keys: keySet("period", "multiplier"),
			build: func(p Params) Indicator {
				return NewATRBands(p.getInt("period", 14), p.get("multiplier", 2))
			},
		},
		"ibs": {
			keys: keySet("overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewIBS(p.get("overbought", 0.8), p.get("oversold", 0.2))
			},
		},
		"fibonacci": {
			keys: keySet("period", "retracement"),
			build: func(p Params) Indicator {
				return NewFibonacci(p.getInt("period", 20), p.get("retracement", 0.618))
			},
		},
		"adx": {
			keys: keySet("period", "threshold"),
			build: func(p Params) Indicator {
				return NewADX(p.getInt("period", 14), p.get("threshold", 25))
			},
		},
		"std": {
			keys: keySet("window", "num_std"),
			build: func(p Params) Indicator {
				return NewStdDevBands(p.getInt("window", 20), p.get("num_std", 2))
			},
		},
		"rvi": {
			keys: keySet("period", "overbought", "oversold"),
			build: func(p Params) Indicator {
				return NewRVI(p.getInt("period", 10), p.get("overbought", 60), p.get("oversold", 40))
			},
		},
	}}
}
