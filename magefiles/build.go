//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the aefr binary into bin/.
func (Build) App() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/aefr", "."), withStream()); err != nil {
		return err
	}
	return nil
}
