package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/huanfeng/fdroidmeta/pkg/value"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

func parseFormat(s string) (format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return formatJSON, nil
	case "yaml", "yml":
		return formatYAML, nil
	default:
		return formatJSON, fmt.Errorf("unsupported output format %q (want json or yaml)", s)
	}
}

// writeValue prints a record tree keeping its field order
func writeValue(w io.Writer, v value.Value, f format) error {
	if f == formatYAML {
		return encodeYAML(w, yamlNode(v))
	}
	return value.Encode(w, v, "  ")
}

// writeData prints an ordinary Go value
func writeData(w io.Writer, data interface{}, f format) error {
	if f == formatYAML {
		var node yaml.Node
		if err := node.Encode(data); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return encodeYAML(w, &node)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func encodeYAML(w io.Writer, node *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// yamlNode converts a value tree into a yaml node. Mappings keep the
// object's key order.
func yamlNode(v value.Value) *yaml.Node {
	switch t := v.(type) {
	case value.String:
		return scalar("!!str", string(t))
	case value.Number:
		if t == "" {
			return scalar("!!int", "0")
		}
		tag := "!!int"
		if strings.ContainsAny(string(t), ".eE") {
			tag = "!!float"
		}
		return scalar(tag, string(t))
	case value.Bool:
		if t {
			return scalar("!!bool", "true")
		}
		return scalar("!!bool", "false")
	case value.Date:
		return scalar("!!str", t.String())
	case value.List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case *value.Object:
		if t == nil {
			return scalar("!!null", "null")
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range t.Keys() {
			field, _ := t.Get(key)
			node.Content = append(node.Content, scalar("!!str", key), yamlNode(field))
		}
		return node
	default:
		return scalar("!!null", "null")
	}
}

func scalar(tag, s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
}
