package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/aalvaropc/screepsdeploy/internal/domain"
	"github.com/aalvaropc/screepsdeploy/internal/usecase"
)

func printBuild(w io.Writer, theme Theme, root string, res domain.BuildResult) {
	fmt.Fprintf(w, "%s %s\n", theme.OK.Render("built"), res.Flavor)
	for _, p := range res.Outputs {
		fmt.Fprintf(w, "  wrote %s\n", relTo(root, p))
	}

	originals := make([]string, 0, len(res.RenamedAside))
	for from := range res.RenamedAside {
		originals = append(originals, from)
	}
	sort.Strings(originals)
	for _, from := range originals {
		fmt.Fprintln(w, theme.Subtle.Render(fmt.Sprintf("  moved %s -> %s", relTo(root, from), relTo(root, res.RenamedAside[from]))))
	}
}

func printDeploy(w io.Writer, theme Theme, root string, out usecase.DeployOutcome) {
	r := out.Report
	fmt.Fprintf(w, "%s %s -> %s (branch %s)\n",
		theme.OK.Render("deployed"), theme.Title.Render(out.Mode), relTo(root, r.Destination), r.Branch)

	switch r.Sink {
	case domain.SinkUpload:
		fmt.Fprintf(w, "  %d file(s), %.2f MiB of %.0f MiB\n",
			len(r.Files), mib(r.EncodedBytes), mib(domain.CodeSizeLimit))
	default:
		fmt.Fprintf(w, "  %d file(s), %d unchanged, %d pruned\n",
			len(r.Files), len(r.Unchanged), len(r.Pruned))
	}
	for _, p := range r.Pruned {
		fmt.Fprintln(w, theme.Subtle.Render("  pruned "+p))
	}

	if out.ReceiptID != "" {
		fmt.Fprintln(w, theme.Subtle.Render("  receipt "+out.ReceiptID))
	}
}

func printError(w io.Writer, theme Theme, err error) {
	fmt.Fprintf(w, "%s %v\n", theme.Error.Render("error:"), err)
}

func mib(n int) float64 {
	return float64(n) / (1024 * 1024)
}
