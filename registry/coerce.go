package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// CoerceArguments walks a tool's declared properties and widens each
// argument value to the type that property declares, following the
// best-effort widening rules from the schema design: numeric strings
// become numbers, "true"/"1" become bool, and so on. Arguments absent
// from the input use the property's "default" if one is declared.
//
// args is assumed to have already passed ValidateArguments.
func CoerceArguments(properties map[string]any, required []string, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}

	for name, rawProp := range properties {
		prop, _ := rawProp.(map[string]any)
		value, present := out[name]
		if !present {
			if def, ok := prop["default"]; ok {
				out[name] = def
				continue
			}
			continue
		}

		coerced, err := coerceValue(prop, value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		out[name] = coerced
	}

	return out, nil
}

func coerceValue(prop map[string]any, value any) (any, error) {
	if enumVals, ok := prop["enum"].([]any); ok {
		return coerceEnum(enumVals, value)
	}

	targetType, _ := prop["type"].(string)
	switch targetType {
	case "integer":
		return coerceInt(value)
	case "number":
		return coerceFloat(value)
	case "boolean":
		return coerceBool(value)
	case "string":
		return coerceString(value)
	case "array":
		return coerceArray(value)
	default:
		return value, nil
	}
}

func coerceEnum(allowed []any, value any) (any, error) {
	for _, a := range allowed {
		if a == value {
			return value, nil
		}
		if fmt.Sprint(a) == fmt.Sprint(value) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("value %v is not one of the allowed enum values", value)
}

func coerceInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("%v is not a whole number", v)
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%v cannot be coerced to int", value)
	}
}

func coerceFloat(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%v cannot be coerced to float", value)
	}
}

func coerceBool(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return nil, fmt.Errorf("%v cannot be coerced to bool", value)
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []any, map[string]any:
		return nil, fmt.Errorf("%v cannot be coerced to string", value)
	default:
		return fmt.Sprint(v), nil
	}
}

func coerceArray(value any) (any, error) {
	arr, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%v is not an array", value)
	}
	return arr, nil
}
