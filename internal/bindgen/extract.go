package bindgen

import (
	"fmt"
	"os"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

const (
	snippetLines = 30
	snippetBytes = 2048
)

// Extract validates a generated loader against the expected template and
// returns its toolchain-independent parts.
func Extract(loader string) (domain.ExtractedInitBody, error) {
	text := strings.ReplaceAll(loader, "\r\n", "\n")

	for _, lm := range landmarks {
		if n := len(lm.re.FindAllStringIndex(text, -1)); n != 1 {
			return domain.ExtractedInitBody{}, shapeError("", "prefix",
				fmt.Sprintf("expected exactly one %q, found %d", lm.name, n), headSnippet(text))
		}
	}

	pm := prefixRe.FindStringSubmatchIndex(text)
	if pm == nil {
		return domain.ExtractedInitBody{}, shapeError("", "prefix",
			"generated bootstrap (load/init header) has an unexpected structure", headSnippet(text))
	}
	bodyStart := pm[1]
	bindings := submatch(text, prefixRe.SubexpIndex("bindings"), pm)

	rest := text[bodyStart:]
	sm := suffixRe.FindStringSubmatchIndex(rest)
	if sm == nil {
		return domain.ExtractedInitBody{}, shapeError("", "suffix",
			"generated fetch/instantiate tail has an unexpected structure", tailSnippet(text))
	}
	imports := submatch(rest, suffixRe.SubexpIndex("imports"), sm)

	body := strings.TrimSpace(rest[:sm[0]])
	for _, r := range hostRenames {
		body = strings.ReplaceAll(body, r.from, r.to)
	}

	return domain.ExtractedInitBody{
		Bindings:     strings.TrimRight(bindings, " \t\n"),
		Body:         body,
		ImportsIdent: imports,
	}, nil
}

// ExtractFile reads a loader from disk and extracts it.
func ExtractFile(path string) (domain.ExtractedInitBody, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ExtractedInitBody{}, &domain.OpError{
			Op:   "bindgen.read",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	out, err := Extract(string(b))
	if err != nil {
		if oe, ok := err.(*domain.OpError); ok {
			oe.Path = path
		}
		return domain.ExtractedInitBody{}, err
	}
	return out, nil
}

func submatch(s string, group int, m []int) string {
	if group < 0 || 2*group+1 >= len(m) || m[2*group] < 0 {
		return ""
	}
	return s[m[2*group]:m[2*group+1]]
}

func shapeError(path, part, reason, snippet string) error {
	return &domain.OpError{
		Op:   "bindgen.extract",
		Kind: domain.KindShapeMismatch,
		Path: path,
		Err: &domain.ShapeError{
			Part:    part,
			Reason:  reason,
			Snippet: snippet,
		},
	}
}

func headSnippet(s string) string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > snippetLines {
		lines = lines[:snippetLines]
	}
	out := strings.Join(lines, "")
	if len(out) > snippetBytes {
		out = out[:snippetBytes]
	}
	return strings.TrimRight(out, "\n")
}

func tailSnippet(s string) string {
	lines := strings.SplitAfter(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > snippetLines {
		lines = lines[len(lines)-snippetLines:]
	}
	out := strings.Join(lines, "")
	if len(out) > snippetBytes {
		out = out[len(out)-snippetBytes:]
	}
	return out
}
