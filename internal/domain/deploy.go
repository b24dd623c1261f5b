package domain

import "time"

// CodeSizeLimit is the platform budget for one upload, in encoded bytes.
const CodeSizeLimit = 5 * 1024 * 1024

// DeployFile is one file picked up by the include_subpaths scan.
type DeployFile struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Binary bool   `json:"binary"`
	Size   int64  `json:"size"`
	Digest string `json:"digest,omitempty"`
}

// DeployReport is what a sink did.
type DeployReport struct {
	Mode        string       `json:"mode"`
	Sink        SinkKind     `json:"sink"`
	Branch      string       `json:"branch"`
	Destination string       `json:"destination"`
	Files       []DeployFile `json:"files"`
	Unchanged   []string     `json:"unchanged,omitempty"`
	Pruned      []string     `json:"pruned,omitempty"`
	// EncodedBytes is the upload payload size counted against CodeSizeLimit.
	EncodedBytes int `json:"encoded_bytes,omitempty"`
}

// DeployReceipt is the persisted record of a finished deploy.
type DeployReceipt struct {
	ID         string             `json:"id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Build      BuildConfiguration `json:"build"`
	Target     DeploymentTarget   `json:"target"`
	Report     DeployReport       `json:"report"`
}

// DeployRequest is what a sink is asked to publish.
type DeployRequest struct {
	Mode string
	// ProjectRoot anchors relative copy destinations.
	ProjectRoot string
	// BuildRoot anchors include_subpaths (project root joined with build.path).
	BuildRoot string
	Target    DeploymentTarget
}
