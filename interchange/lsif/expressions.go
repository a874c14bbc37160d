package lsif

import (
	"math"
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/hananel42/L-system-studio/expr"
	"github.com/pkg/errors"
)

// constants is the only environment default values are evaluated in.
type constants map[string]float64

var defaultConstants = constants{
	"PI": math.Pi,
	"E":  math.E,
}

func (c constants) Get(name string) (interface{}, error) {
	val, ok := c[name]
	if !ok {
		return nil, errors.Errorf("Couldn't find %s", name)
	}
	return val, nil
}

// parseValue turns a default parameter as written into a value. Quoted
// scalars are strings, everything else is a constant expression such as
// 360/7.
func parseValue(raw string, quoted bool) (expr.Value, error) {
	if quoted {
		return expr.String(raw), nil
	}
	if raw == "" {
		return expr.Number(0), nil
	}

	// Check if possible to simplify if it just a scalar
	if scalar, err := strconv.ParseFloat(raw, 64); err == nil {
		return expr.Number(scalar), nil
	}
	switch raw {
	case "true", "True":
		return expr.Bool(true), nil
	case "false", "False":
		return expr.Bool(false), nil
	}

	evaluable, err := govaluate.NewEvaluableExpression(raw)
	if err != nil {
		return expr.Value{}, errors.Wrapf(err, "Error while parsing expression %q", raw)
	}
	res, err := evaluable.Eval(defaultConstants)
	if err != nil {
		return expr.Value{}, errors.Wrapf(err, "Error while evaluating %q", raw)
	}

	switch v := res.(type) {
	case float64:
		return expr.Number(v), nil
	case bool:
		return expr.Bool(v), nil
	case string:
		return expr.String(v), nil
	}
	return expr.Value{}, errors.Errorf("expression %q yields unsupported %T", raw, res)
}
