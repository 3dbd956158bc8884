// SPDX-License-Identifier: AGPL-3.0-only

package version

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Build information. Populated at build-time.
var (
	Version   = "unknown"
	Revision  = "unknown"
	Branch    = "unknown"
	GoVersion = runtime.Version()
)

// NewCollector returns a gauge with a constant 1 value, labeled with the build
// information of the scanner.
func NewCollector(numKinds int) prometheus.Collector {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "adoc_scanner_build_info",
			Help: "A metric with a constant '1' value labeled by version, revision, branch, goversion and the number of token kinds the scanner was built with.",
			ConstLabels: prometheus.Labels{
				"version":     Version,
				"revision":    Revision,
				"branch":      Branch,
				"goversion":   GoVersion,
				"token_kinds": strconv.Itoa(numKinds),
			},
		},
		func() float64 { return 1 },
	)
}

// Print returns version information of the given program.
func Print(program string, numKinds int) string {
	return fmt.Sprintf("%s, version %s (branch: %s, revision: %s)\n  go version:       %s\n  platform:         %s/%s\n  token kinds:      %d",
		program, Version, Branch, Revision, GoVersion, runtime.GOOS, runtime.GOARCH, numKinds)
}
