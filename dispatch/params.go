package dispatch

import (
	"math/big"

	"github.com/IrisMu01/midi-gen-mcp/errs"
	"github.com/IrisMu01/midi-gen-mcp/theory"
)

func requireString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", errs.New(errs.SchemaViolation, "missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errs.New(errs.SchemaViolation, "field %q must be a string", key)
	}
	return s, nil
}

func optionalString(params map[string]any, key, fallback string) string {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

func requireInt(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, errs.New(errs.SchemaViolation, "missing required field %q", key)
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, errs.New(errs.SchemaViolation, "field %q must be a number", key)
	}
}

// requireBeat accepts a field that is either a JSON number or a string
// expression, and resolves it to an exact rational via the evaluator.
func requireBeat(params map[string]any, key string) (*big.Rat, error) {
	v, ok := params[key]
	if !ok {
		return nil, errs.New(errs.SchemaViolation, "missing required field %q", key)
	}
	return theory.Evaluate(v)
}

func optionalBeat(params map[string]any, key string) (*big.Rat, bool, error) {
	v, ok := params[key]
	if !ok {
		return nil, false, nil
	}
	r, err := theory.Evaluate(v)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func requireStringSlice(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok {
		return nil, errs.New(errs.SchemaViolation, "missing required field %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, errs.New(errs.SchemaViolation, "field %q must be an array of strings", key)
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q[%d] must be a string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

func requireObjectSlice(params map[string]any, key string) ([]map[string]any, error) {
	v, ok := params[key]
	if !ok {
		return nil, errs.New(errs.SchemaViolation, "missing required field %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, errs.New(errs.SchemaViolation, "field %q must be an array of objects", key)
	}
	out := make([]map[string]any, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, errs.New(errs.SchemaViolation, "field %q[%d] must be an object", key, i)
		}
		out[i] = obj
	}
	return out, nil
}
