package uploadsink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"unicode/utf8"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/infra/deployscan"
	"github.com/aalvaropc/screepsdeploy/internal/infra/httpclient"
	"github.com/aalvaropc/screepsdeploy/internal/ports"
)

// NearLimitRatio is the share of CodeSizeLimit above which a warning is logged.
const NearLimitRatio = 0.9

// BinaryModule is how a wasm file travels inside the modules map.
type BinaryModule struct {
	Binary string `json:"binary"`
}

// Payload is the body of a code upload.
type Payload struct {
	Modules map[string]any `json:"modules"`
	Branch  string         `json:"branch"`
}

// Sink posts the deployable set to a server's code endpoint.
type Sink struct {
	scanner ports.FileScanner
	client  *http.Client
	logger  *slog.Logger
	limit   int
}

type Option func(*Sink)

func WithScanner(s ports.FileScanner) Option {
	return func(k *Sink) { k.scanner = s }
}

// WithClient replaces the HTTP client; the sink's own timeout still applies.
func WithClient(c *http.Client) Option {
	return func(k *Sink) { k.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(k *Sink) { k.logger = l }
}

// WithLimit overrides the size budget used for warnings.
func WithLimit(n int) Option {
	return func(k *Sink) { k.limit = n }
}

func NewSink(opts ...Option) *Sink {
	s := &Sink{
		scanner: deployscan.NewScanner(deployscan.WithDigests(false)),
		client:  httpclient.New(httpclient.DefaultConfig()),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		limit:   domain.CodeSizeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.DeploySink = (*Sink)(nil)

func (s *Sink) Deploy(ctx context.Context, req domain.DeployRequest) (domain.DeployReport, error) {
	target, ok := req.Target.(domain.UploadSink)
	if !ok {
		return domain.DeployReport{}, &domain.OpError{
			Op:   "uploadsink.deploy",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("mode %q is not an upload mode (got %T): %w", req.Mode, req.Target, domain.ErrInvalidConfig),
		}
	}

	files, err := s.scanner.Scan(req.BuildRoot, target.IncludeSubpaths)
	if err != nil {
		return domain.DeployReport{}, err
	}

	payload, encoded, err := s.Encode(files, target.Branch)
	if err != nil {
		return domain.DeployReport{}, err
	}

	report := domain.DeployReport{
		Mode:         req.Mode,
		Sink:         domain.SinkUpload,
		Branch:       target.Branch,
		Destination:  target.URL(),
		Files:        files,
		EncodedBytes: encoded,
	}

	s.checkBudget(encoded)

	httpReq, err := httpclient.BuildJSONRequest(ctx, http.MethodPost, report.Destination, payload, target.Credential)
	if err != nil {
		return report, err
	}

	exec := httpclient.NewExecutor(
		httpclient.WithClient(s.client),
		httpclient.WithTimeout(target.Timeout),
	)

	s.logger.Info("deploy.upload", "url", report.Destination, "branch", target.Branch, "modules", len(payload.Modules))
	resp, err := exec.Do(ctx, httpReq)
	if err != nil {
		return report, &domain.OpError{
			Op:   "uploadsink.post",
			Kind: domain.KindIO,
			Path: report.Destination,
			Err:  err,
		}
	}

	doc, err := checkResponse(resp, target, report.Destination)
	if err != nil {
		return report, err
	}

	attrs := []any{
		"mode", req.Mode,
		"branch", target.Branch,
		"status", resp.Status,
		"duration", resp.Elapsed,
	}
	if ok, err := jsonpath.Get("$.ok", doc); err == nil {
		attrs = append(attrs, "ok", ok)
	}
	s.logger.Info("deploy.uploaded", attrs...)
	return report, nil
}

// Encode builds the modules map and counts the budgeted size: the rune count
// of each text module plus the base64 length of each binary one.
func (s *Sink) Encode(files []domain.DeployFile, branch string) (Payload, int, error) {
	p := Payload{Modules: make(map[string]any, len(files)), Branch: branch}
	total := 0

	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return Payload{}, 0, &domain.OpError{
				Op:   "uploadsink.read",
				Kind: domain.KindIO,
				Path: f.Path,
				Err:  err,
			}
		}

		key := deployscan.Stem(f.Name)
		if _, dup := p.Modules[key]; dup {
			s.logger.Warn("deploy.duplicate_module", "module", key, "file", f.Path)
		}

		if f.Binary {
			b64 := base64.StdEncoding.EncodeToString(data)
			total += len(b64)
			p.Modules[key] = BinaryModule{Binary: b64}
			continue
		}

		text := string(data)
		total += utf8.RuneCountInString(text)
		p.Modules[key] = text
	}
	return p, total, nil
}

// checkBudget logs the encoded size against the limit. A share of exactly
// 100% is not over the limit and lands in the near-limit branch.
func (s *Sink) checkBudget(encoded int) {
	mib := float64(encoded) / (1024 * 1024)
	limitMiB := float64(s.limit) / (1024 * 1024)
	share := 0.0
	if s.limit > 0 {
		share = float64(encoded) / float64(s.limit)
	}
	attrs := []any{
		"size", fmt.Sprintf("%.2f MiB", mib),
		"limit", fmt.Sprintf("%.2f MiB", limitMiB),
		"percent", fmt.Sprintf("%.1f%%", share*100),
	}

	switch {
	case encoded > s.limit:
		s.logger.Warn("deploy.over_limit: upload exceeds the size limit, failure expected", attrs...)
	case share > NearLimitRatio:
		s.logger.Warn("deploy.near_limit", attrs...)
	default:
		s.logger.Debug("deploy.size", attrs...)
	}
}

// checkResponse accepts only a 2xx reply whose body is a JSON object with no
// "error" key, whatever its value. Rejections carry the body verbatim.
func checkResponse(resp httpclient.Reply, target domain.UploadSink, url string) (map[string]any, error) {
	body := resp.Text()
	if !resp.OK() {
		return nil, rejected(fmt.Errorf("server responded %d: %s: %w", resp.Status, body, domain.ErrRemoteRejected), url)
	}

	var doc map[string]any
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, rejected(fmt.Errorf("server responded %d with a body that is not a JSON object: %s: %w", resp.Status, body, domain.ErrRemoteRejected), url)
	}
	if _, found := doc["error"]; found {
		return nil, rejected(fmt.Errorf("error sending to branch '%s' of '%s': %s: %w", target.Branch, url, body, domain.ErrRemoteRejected), url)
	}
	return doc, nil
}

func rejected(err error, url string) error {
	return &domain.OpError{
		Op:   "uploadsink.response",
		Kind: domain.KindRemoteRejection,
		Path: url,
		Err:  err,
	}
}
