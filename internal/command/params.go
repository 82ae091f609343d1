package command

import (
	"fmt"
	"strings"
)

func stringArg(args map[string]any, field, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s is required", ErrInvalidCommand, field, key)
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s.%s must be a non-empty string", ErrInvalidCommand, field, key)
	}
	return strings.TrimSpace(s), nil
}

func optionalString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// boolArg accepts a JSON boolean or the usual on/off spellings.
func boolArg(args map[string]any, field, key string) (bool, error) {
	raw, ok := args[key]
	if !ok {
		return false, fmt.Errorf("%w: %s.%s is required", ErrInvalidCommand, field, key)
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "true", "1", "yes":
			return true, nil
		case "off", "false", "0", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s.%s must be a boolean", ErrInvalidCommand, field, key)
}
