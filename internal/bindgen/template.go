package bindgen

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Placeholders usable in a template as <<name>> or <<name:group>>.
var placeholderPatterns = map[string]string{
	// A JavaScript identifier picked by the generator.
	"ident": `[A-Za-z_$][A-Za-z0-9_$]*`,
	// A single- or double-quoted string literal on one line.
	"string": `(?:'[^'\n]*'|"[^"\n]*")`,
	// Any text, possibly spanning lines, as short as possible.
	"skip": `(?s:.*?)`,
	// Any text on the current line, as short as possible.
	"line": `[^\n]*?`,
}

// compileTemplate converts template text into regular expression source.
//
// Literal text is matched exactly. A whitespace run in the template matches any
// whitespace run in the input; it is mandatory between two word characters and
// optional elsewhere. Leading and trailing template whitespace is ignored.
func compileTemplate(tmpl string) (string, error) {
	tmpl = strings.TrimSpace(tmpl)

	var b strings.Builder
	prevWord := false
	pendingSpace := false

	emitSpace := func(nextWord bool) {
		if !pendingSpace {
			return
		}
		if prevWord && nextWord {
			b.WriteString(`\s+`)
		} else {
			b.WriteString(`\s*`)
		}
		pendingSpace = false
	}

	for i := 0; i < len(tmpl); {
		if strings.HasPrefix(tmpl[i:], "<<") {
			end := strings.Index(tmpl[i+2:], ">>")
			if end < 0 {
				return "", fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			spec := tmpl[i+2 : i+2+end]
			name, group, _ := strings.Cut(spec, ":")
			pat, ok := placeholderPatterns[name]
			if !ok {
				return "", fmt.Errorf("unknown placeholder %q", name)
			}

			word := name == "ident"
			emitSpace(word)
			if group != "" {
				fmt.Fprintf(&b, "(?P<%s>%s)", group, pat)
			} else {
				fmt.Fprintf(&b, "(?:%s)", pat)
			}
			prevWord = word
			i += 2 + end + 2
			continue
		}

		r := rune(tmpl[i])
		if unicode.IsSpace(r) {
			pendingSpace = true
			i++
			continue
		}

		word := isWordByte(tmpl[i])
		emitSpace(word)
		b.WriteString(regexp.QuoteMeta(tmpl[i : i+1]))
		prevWord = word
		i++
	}

	return b.String(), nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func mustCompileTemplate(prefix, tmpl, suffix string) *regexp.Regexp {
	src, err := compileTemplate(tmpl)
	if err != nil {
		panic("bindgen: invalid loader template: " + err.Error())
	}
	return regexp.MustCompile(prefix + src + suffix)
}
