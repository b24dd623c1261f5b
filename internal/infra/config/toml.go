package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

func decodeTOML(b []byte) (documentDTO, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(b), &raw)
	if err != nil {
		return documentDTO{}, err
	}

	doc := documentDTO{Modes: map[string]modeDTO{}}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prim := raw[key]
		switch key {
		case keyDefaultDeployMode:
			if err := md.PrimitiveDecode(prim, &doc.DefaultDeployMode); err != nil {
				return documentDTO{}, fmt.Errorf("%s: %w", key, err)
			}
		case keyBuild:
			if err := md.PrimitiveDecode(prim, &doc.Build); err != nil {
				return documentDTO{}, fmt.Errorf("%s: %w", key, err)
			}
		default:
			// Top-level keys are consumed when decoded into a Primitive, so
			// a stray scalar never shows up in Undecoded.
			if md.Type(key) != "Hash" {
				doc.Unknown = append(doc.Unknown, key)
				continue
			}
			var m modeDTO
			if err := md.PrimitiveDecode(prim, &m); err != nil {
				return documentDTO{}, fmt.Errorf("%s: %w", key, err)
			}
			doc.Modes[key] = m
		}
	}

	var reported []string
	for _, k := range md.Undecoded() {
		s := k.String()
		if hasReportedParent(reported, s) {
			continue
		}
		reported = append(reported, s)
	}
	doc.Unknown = append(doc.Unknown, reported...)

	return doc, nil
}

func hasReportedParent(reported []string, key string) bool {
	for _, p := range reported {
		if strings.HasPrefix(key, p+".") {
			return true
		}
	}
	return false
}
