package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mapping is one categorization rule.
type Mapping struct {
	Pattern  string
	Category string
}

// Mappings is an ordered set of rules. It is written as a plain object
// (`{"<regex>": "<category>"}`) and keeps the order of the document it was
// read from. A repeated pattern keeps its first position and its last
// category.
type Mappings []Mapping

func (m *Mappings) set(pattern, category string) {
	for i := range *m {
		if (*m)[i].Pattern == pattern {
			(*m)[i].Category = category
			return
		}
	}
	*m = append(*m, Mapping{Pattern: pattern, Category: category})
}

// UnmarshalJSON walks the object token by token so key order survives.
func (m *Mappings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("mappings: expected an object of pattern to category, got %v", tok)
	}

	var out Mappings
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		pattern, _ := tok.(string)
		var category string
		if err := dec.Decode(&category); err != nil {
			return fmt.Errorf("mappings[%q]: %w", pattern, err)
		}
		out.set(pattern, category)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalJSON writes the rules as an object in rule order.
func (m Mappings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mp := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, mp.Pattern); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, mp.Category); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString quotes s without HTML escaping; patterns routinely hold
// '&' and '<'.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalYAML reads a YAML mapping node in document order.
func (m *Mappings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: mappings must be a mapping of pattern to category", node.Line)
	}

	var out Mappings
	for i := 0; i+1 < len(node.Content); i += 2 {
		var pattern, category string
		if err := node.Content[i].Decode(&pattern); err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
		if err := node.Content[i+1].Decode(&category); err != nil {
			return fmt.Errorf("line %d: mappings[%q]: %w", node.Content[i+1].Line, pattern, err)
		}
		out.set(pattern, category)
	}
	*m = out
	return nil
}

// MarshalYAML emits a mapping node in rule order.
func (m Mappings) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, mp := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: mp.Pattern},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: mp.Category},
		)
	}
	return node, nil
}
