package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/knowledge.yaml
var defaultKnowledge []byte

// keywordsField holds an entry's match keywords rather than a section.
const keywordsField = "keywords"

// Default parses the knowledge base shipped with the binary.
func Default() (*Store, error) {
	return Parse(defaultKnowledge)
}

// LoadFile reads and parses a knowledge base file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML knowledge document of the form
//
//	category:
//	  key:
//	    keywords: [...]
//	    title: ...
//	    steps: [...]
//
// Document order of categories, entries and settings pairs is preserved.
func Parse(data []byte) (*Store, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if len(doc.Content) == 0 {
		return Empty(), nil
	}

	root := resolve(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return Empty(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping of categories: %w", ErrMalformed)
	}

	var entries []Entry
	for i := 0; i+1 < len(root.Content); i += 2 {
		category := root.Content[i].Value
		items := resolve(root.Content[i+1])
		if items.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("category %q (line %d) must be a mapping of entries: %w", category, items.Line, ErrMalformed)
		}

		for j := 0; j+1 < len(items.Content); j += 2 {
			id := ID{Category: category, Key: items.Content[j].Value}
			entry, err := decodeEntry(id, resolve(items.Content[j+1]))
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	return NewStore(entries)
}

func decodeEntry(id ID, body *yaml.Node) (Entry, error) {
	entry := Entry{ID: id, Fields: make(map[string]Value)}
	if body.Kind != yaml.MappingNode {
		return entry, fmt.Errorf("entry %q (line %d) must be a mapping: %w", id, body.Line, ErrMalformed)
	}

	for i := 0; i+1 < len(body.Content); i += 2 {
		name := body.Content[i].Value
		node := resolve(body.Content[i+1])

		if name == keywordsField {
			keywords, err := decodeStrings(node)
			if err != nil {
				return entry, fmt.Errorf("entry %q keywords (line %d): %w", id, node.Line, err)
			}
			entry.Keywords = keywords
			continue
		}

		kind, ok := FieldKind(name)
		if !ok {
			return entry, fmt.Errorf("entry %q field %q (line %d): %w", id, name, node.Line, ErrUnknownField)
		}
		v, err := decodeValue(node, kind)
		if err != nil {
			return entry, fmt.Errorf("entry %q field %q (line %d): %w", id, name, node.Line, err)
		}
		entry.Fields[name] = v
	}

	return entry, nil
}

func decodeValue(node *yaml.Node, kind Kind) (Value, error) {
	switch kind {
	case KindText:
		if node.Kind != yaml.ScalarNode {
			return Value{}, ErrFieldType
		}
		return Text(node.Value), nil

	case KindList:
		items, err := decodeStrings(node)
		if err != nil {
			return Value{}, err
		}
		return List(items...), nil

	case KindPairs:
		if node.Kind != yaml.MappingNode {
			return Value{}, ErrFieldType
		}
		v := Value{Kind: KindPairs}
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, val := resolve(node.Content[i]), resolve(node.Content[i+1])
			if k.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
				return Value{}, ErrFieldType
			}
			v.Pairs = append(v.Pairs, Pair{Key: k.Value, Value: val.Value})
		}
		return v, nil
	}
	return Value{}, ErrFieldType
}

// decodeStrings accepts a sequence of scalars, or a single scalar as a
// one-item list.
func decodeStrings(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode {
				return nil, ErrFieldType
			}
			out = append(out, item.Value)
		}
		return out, nil
	}
	return nil, ErrFieldType
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
