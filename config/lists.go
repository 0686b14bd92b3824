package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is a list setting that accepts either a comma-separated string
// ("a, b,c") or a JSON list (["a","b","c"]). Elements are trimmed and empty
// elements dropped.
type StringList []string

// UnmarshalText implements encoding.TextUnmarshaler
func (l *StringList) UnmarshalText(text []byte) error {
	items, err := parseListText(text)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// UnmarshalJSON accepts a JSON string or a JSON array of strings
func (l *StringList) UnmarshalJSON(data []byte) error {
	items, err := parseListJSON(data)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// TickerList is a StringList whose elements are upper-cased
type TickerList []string

// UnmarshalText implements encoding.TextUnmarshaler
func (l *TickerList) UnmarshalText(text []byte) error {
	items, err := parseListText(text)
	if err != nil {
		return err
	}
	*l = upper(items)
	return nil
}

// UnmarshalJSON accepts a JSON string or a JSON array of strings
func (l *TickerList) UnmarshalJSON(data []byte) error {
	items, err := parseListJSON(data)
	if err != nil {
		return err
	}
	*l = upper(items)
	return nil
}

// NormalizeList applies the StringList rules to an already-built list
func NormalizeList(items []string) StringList {
	return StringList(clean(items))
}

// NormalizeTickers applies the TickerList rules to an already-built list
func NormalizeTickers(items []string) TickerList {
	return upper(clean(items))
}

func parseListText(text []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("invalid list %q: %w", trimmed, err)
		}
		return clean(items), nil
	}
	return clean(strings.Split(string(trimmed), ",")), nil
}

func parseListJSON(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return []string{}, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return parseListText([]byte(s))
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("list must be a string or an array of strings: %w", err)
	}
	return clean(items), nil
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func upper(items []string) TickerList {
	out := make(TickerList, len(items))
	for i, item := range items {
		out[i] = strings.ToUpper(item)
	}
	return out
}
