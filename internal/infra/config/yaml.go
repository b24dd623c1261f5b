package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func decodeYAML(b []byte) (documentDTO, error) {
	doc := documentDTO{Modes: map[string]modeDTO{}}

	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return documentDTO{}, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return documentDTO{}, fmt.Errorf("line %d: top level must be a mapping", top.Line)
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		val := top.Content[i+1]

		switch key {
		case keyDefaultDeployMode:
			if err := val.Decode(&doc.DefaultDeployMode); err != nil {
				return documentDTO{}, fmt.Errorf("%s: %w", key, err)
			}
		case keyBuild:
			if err := val.Decode(&doc.Build); err != nil {
				return documentDTO{}, fmt.Errorf("%s: %w", key, err)
			}
			doc.Unknown = append(doc.Unknown, unknownKeys(val, buildKeys, key)...)
		default:
			if val.Kind != yaml.MappingNode {
				doc.Unknown = append(doc.Unknown, key)
				continue
			}
			var m modeDTO
			if err := val.Decode(&m); err != nil {
				return documentDTO{}, fmt.Errorf("%s: %w", key, err)
			}
			doc.Unknown = append(doc.Unknown, unknownKeys(val, modeKeys, key)...)
			if b := child(val, keyBuild); b != nil {
				doc.Unknown = append(doc.Unknown, unknownKeys(b, buildKeys, key+"."+keyBuild)...)
			}
			doc.Modes[key] = m
		}
	}

	return doc, nil
}

func unknownKeys(n *yaml.Node, known map[string]bool, prefix string) []string {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	var out []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i].Value; !known[k] {
			out = append(out, prefix+"."+k)
		}
	}
	return out
}

func child(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
