package strategy

import (
	"fmt"

	"github.com/algonex/algonex/internal/indicator"
)

// BuildWeighted constructs the weighted indicator list from parallel type,
// weight and parameter slices. params may be nil or shorter than types;
// missing entries use the type's defaults.
func BuildWeighted(reg *indicator.Registry, types []string, weights []float64, params []indicator.Params) ([]Weighted, error) {
	if len(types) != len(weights) {
		return nil, fmt.Errorf("%w: %d indicator types but %d weights", ErrConfiguration, len(types), len(weights))
	}
	if len(params) > len(types) {
		return nil, fmt.Errorf("%w: %d parameter sets but %d indicator types", ErrConfiguration, len(params), len(types))
	}

	out := make([]Weighted, len(types))
	for i, typ := range types {
		var p indicator.Params
		if i < len(params) {
			p = params[i]
		}
		ind, err := reg.Build(typ, p)
		if err != nil {
			return nil, err
		}
		out[i] = Weighted{Indicator: ind, Weight: weights[i]}
	}
	return out, nil
}
