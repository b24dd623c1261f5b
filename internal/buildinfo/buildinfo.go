package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/aalvaropc/screepsdeploy/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const name = "screepsdeploy"

func String() string {
	return fmt.Sprintf("%s %s (commit=%s, date=%s)", name, Version, Commit, Date)
}

// UserAgent identifies this tool on outgoing requests.
func UserAgent() string {
	return name + "/" + Version
}
