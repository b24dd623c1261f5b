package receiptstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// DefaultDir is where receipts land, relative to the project root.
const DefaultDir = ".screeps/deploys"

type JSONStore struct {
	rootDir    string
	dirName    string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index next to the receipts: index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithDir overrides DefaultDir.
func WithDir(dir string) Option {
	return func(s *JSONStore) {
		if strings.TrimSpace(dir) != "" {
			s.dirName = dir
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, opts ...Option) *JSONStore {
	s := &JSONStore{
		rootDir:    root,
		dirName:    DefaultDir,
		writeIndex: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReceiptStore = (*JSONStore)(nil)

// record is the on-disk shape: the receipt plus the sink kind, since the
// target itself is serialized by its concrete fields only.
type record struct {
	domain.DeployReceipt
	TargetKind domain.SinkKind `json:"target_kind,omitempty"`
}

func (s *JSONStore) SaveReceipt(r domain.DeployReceipt) (string, error) {
	dir := filepath.Join(s.rootDir, filepath.FromSlash(s.dirName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "receiptstore.mkdir",
			Kind: domain.KindIO,
			Path: dir,
			Err:  err,
		}
	}

	ts := r.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	slug := slugify(r.Report.Mode)
	if slug == "" {
		slug = "deploy"
	}

	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), slug)
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(dir, filename)

	toSave := r
	toSave.ID = id
	toSave.StartedAt = ts
	toSave.Target = maskTarget(r.Target)

	rec := record{DeployReceipt: toSave}
	if r.Target != nil {
		rec.TargetKind = r.Target.Kind()
	}

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "receiptstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "receiptstore.write",
			Kind: domain.KindIO,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "receiptstore.rename",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, toSave)
	}

	return id, nil
}

func (s *JSONStore) appendIndex(dir, id, filename string, r domain.DeployReceipt) error {
	type idx struct {
		ID        string          `json:"id"`
		File      string          `json:"file"`
		Mode      string          `json:"mode"`
		Sink      domain.SinkKind `json:"sink"`
		Branch    string          `json:"branch"`
		Files     int             `json:"files"`
		StartedAt time.Time       `json:"started_at"`
	}
	line, err := json.Marshal(idx{
		ID:        id,
		File:      filename,
		Mode:      r.Report.Mode,
		Sink:      r.Report.Sink,
		Branch:    r.Report.Branch,
		Files:     len(r.Report.Files),
		StartedAt: r.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// maskTarget strips credentials from upload targets; copy targets carry none.
func maskTarget(t domain.DeploymentTarget) domain.DeploymentTarget {
	if u, ok := t.(domain.UploadSink); ok {
		u.Credential = u.Credential.Masked()
		return u
	}
	return t
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
