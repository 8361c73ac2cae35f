//go:build mage

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessPackages(t *testing.T) {
	pkgs, err := headlessPackages("..")
	require.NoError(t, err)

	for _, pkg := range []string{
		"./engine/entity",
		"./engine/dialogue",
		"./engine/systems",
		"./engine/bus",
		"./engine/console",
		"./engine/config",
		"./engine/skeleton",
		"./engine/assets",
	} {
		assert.Contains(t, pkgs, pkg)
	}
	for _, pkg := range []string{"./novel", "./engine/platform", "./engine"} {
		assert.NotContains(t, pkgs, pkg, "%s links the window host", pkg)
	}
}
