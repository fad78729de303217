package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "UNKNOWN"
	}
	return names[i]
}

// parseName accepts either the name (case-insensitive) or its ordinal
func parseName(kind string, names []string, data []byte) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s: %d", kind, i)
		}
		return i, nil
	}
	return lookupName(kind, names, str)
}

func lookupName(kind string, names []string, str string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, str) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s: %q", kind, str)
}

func scanInt(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case []byte:
		var i int64
		fmt.Sscan(string(v), &i)
		return i
	}
	return 0
}
