package domain

import (
	"errors"
	"fmt"
	"strings"
)

// LookupFunc returns the value of a named variable, typically os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// PlaceholderResolver expands {{NAME}} tokens inside configuration strings so
// secrets such as auth tokens can live in the environment instead of the document.
type PlaceholderResolver struct {
	lookup LookupFunc
}

func NewPlaceholderResolver(lookup LookupFunc) *PlaceholderResolver {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return &PlaceholderResolver{lookup: lookup}
}

// Resolve returns s with every {{NAME}} replaced.
func (r *PlaceholderResolver) Resolve(s string) (string, error) {
	// Fast path: no token start.
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i + 2

			end := strings.Index(s[start:], "}}")
			if end < 0 {
				return "", &OpError{
					Op:   "placeholders.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("unclosed placeholder"),
				}
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", &OpError{
					Op:   "placeholders.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("empty placeholder"),
				}
			}

			val, ok := r.lookup(name)
			if !ok {
				return "", &OpError{
					Op:   "placeholders.resolve",
					Kind: KindMissingVar,
					Err:  fmt.Errorf("%w: %s", ErrMissingVar, name),
				}
			}

			b.WriteString(val)
			i = end + 2
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}

// ResolveField is Resolve with the field name added to any error.
func (r *PlaceholderResolver) ResolveField(field, s string) (string, error) {
	out, err := r.Resolve(s)
	if err != nil {
		return "", &OpError{
			Op:   "placeholders.resolve",
			Kind: kindFrom(err),
			Err:  fmt.Errorf("%s: %w", field, err),
		}
	}
	return out, nil
}

func kindFrom(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}
