// Package format renders command results as json, edn, yaml or a table.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	JSON  = "json"
	EDN   = "edn"
	YAML  = "yaml"
	Table = "table"
)

// Formats lists the accepted --format values.
func Formats() []string { return []string{JSON, EDN, YAML, Table} }

// Write writes v in the requested format. Table output needs a Tabler.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case YAML:
		return WriteYAML(w, v)
	case Table:
		t, ok := v.(Tabler)
		if !ok {
			return fmt.Errorf("table output not supported for %T", v)
		}
		return WriteTable(w, t.Table())
	default:
		return fmt.Errorf("unknown format: %s (expected %s)", format, strings.Join(Formats(), "|"))
	}
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML goes through JSON first so the wire field names are used as keys.
func WriteYAML(w io.Writer, v any) error {
	x, err := jsonValue(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

func jsonValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return nil, err
	}
	return x, nil
}
