//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Docs groups targets that exercise the CLI against the sample files in examples/.
type Docs mg.Namespace

// Sample renders the built-in stay motion with sample evidence and validates it.
func (Docs) Sample() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "generate", "legal/motion-stay",
		"--evidence", "examples/evidence.yaml",
		"--context", "examples/motion-context.yaml",
		"--cite", "petition,order",
		"--validate",
	)
}

// Bulk renders every request in examples/requests.yaml.
func (Docs) Bulk() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "bulk", "examples/requests.yaml", "--evidence", "examples/evidence.yaml")
}

// Draft cites the sample paragraphs against the sample evidence.
func (Docs) Draft() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "draft", "examples/paragraphs.yaml", "--evidence", "examples/evidence.yaml")
}
