package moltbook

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that can be written in config files as
// a number of seconds (30), a numeric string ("30") or a Go duration ("1m30s").
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML renders the duration in Go duration syntax
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.parse(raw)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.parse(raw)
}

// ParseDuration parses the same forms accepted in config files
func ParseDuration(value string) (Duration, error) {
	var d Duration
	err := d.parse(value)
	return d, err
}

func (d *Duration) parse(raw interface{}) error {
	switch v := raw.(type) {
	case nil:
		*d = 0
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case string:
		if parsed, err := time.ParseDuration(v); err == nil {
			*d = Duration(parsed)
			break
		}
		seconds, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid duration format: %q", v)
		}
		*d = Duration(time.Duration(seconds * float64(time.Second)))
	default:
		return fmt.Errorf("duration must be a number or string, got %T", raw)
	}

	if *d < 0 {
		return fmt.Errorf("duration must not be negative, got %s", d)
	}
	return nil
}
