//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the stage. AEFR_CONFIG points at a settings file when set.
func (Run) App() error {
	mg.Deps(Build.App)

	args := []string{}
	if path := os.Getenv("AEFR_CONFIG"); path != "" {
		args = append(args, "-config", path)
	}
	fmt.Println("Run aefr...")
	if _, err := executeCmd("bin/aefr", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
