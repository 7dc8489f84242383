package lint

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity accepts the config spellings: "off", "warn"/"warning",
// "error", or the numbers 0, 1 and 2.
func ParseSeverity(v any) (Severity, error) {
	switch val := v.(type) {
	case Severity:
		if val < SeverityOff || val > SeverityError {
			return SeverityOff, fmt.Errorf("invalid severity %d", int(val))
		}
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "off", "0":
			return SeverityOff, nil
		case "warn", "warning", "1":
			return SeverityWarn, nil
		case "error", "2":
			return SeverityError, nil
		}
		return SeverityOff, fmt.Errorf("invalid severity %q (want off, warn or error)", val)
	case int:
		return ParseSeverity(int64(val))
	case int64:
		if val < 0 || val > 2 {
			return SeverityOff, fmt.Errorf("invalid severity %d (want 0, 1 or 2)", val)
		}
		return Severity(val), nil
	case float64:
		if val != float64(int64(val)) {
			return SeverityOff, fmt.Errorf("invalid severity %v", val)
		}
		return ParseSeverity(int64(val))
	default:
		return SeverityOff, fmt.Errorf("invalid severity type %T", v)
	}
}
