// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/pdiddy/docgen/pkg/types"
)

// writeFindings prints one line per finding and a verdict.
func writeFindings(w io.Writer, findings []types.Finding) {
	for _, f := range findings {
		mark := "PASS"
		if !f.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  %-4s  %-18s  %-32s  %s\n", mark, f.Kind, f.Rule, f.Detail)
	}
	if types.AllPassed(findings) {
		fmt.Fprintln(w, "  compliant")
	} else {
		fmt.Fprintln(w, "  NOT compliant")
	}
}
