//go:build mage

package main

import (
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

const modulePath = "github.com/spaghettifunk/aefr"

// Packages that open a window or an audio device when linked.
var devicePrefixes = []string{
	"github.com/hajimehoshi/ebiten",
	"github.com/ebitengine/oto",
}

// Runs every package's tests with the race detector.
func (Test) All() error {
	if err := goVet(); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream())
	return err
}

// Runs the tests of every package that needs no window or audio device.
func (Test) Headless() error {
	pkgs, err := headlessPackages(".")
	if err != nil {
		return err
	}
	args := append([]string{"test", "-count=1"}, pkgs...)
	_, err = executeCmd("go", withArgs(args...), withStream())
	return err
}

// headlessPackages walks the module under root and returns, as ./relative
// patterns, the packages with tests that never import a device package,
// directly or through other module packages.
func headlessPackages(root string) ([]string, error) {
	imports := make(map[string][]string)
	hasTests := make(map[string]bool)

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "magefiles") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		pkg := path.Join(modulePath, filepath.ToSlash(rel))
		f, err := parser.ParseFile(token.NewFileSet(), p, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		if _, ok := imports[pkg]; !ok {
			imports[pkg] = nil
		}
		isTest := strings.HasSuffix(p, "_test.go")
		if isTest {
			hasTests[pkg] = true
		}
		for _, imp := range f.Imports {
			imports[pkg] = append(imports[pkg], strings.Trim(imp.Path.Value, `"`))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	memo := make(map[string]bool)
	var needsDevice func(pkg string, seen map[string]bool) bool
	needsDevice = func(pkg string, seen map[string]bool) bool {
		if v, ok := memo[pkg]; ok {
			return v
		}
		if seen[pkg] {
			return false
		}
		seen[pkg] = true
		result := false
		for _, imp := range imports[pkg] {
			for _, prefix := range devicePrefixes {
				if strings.HasPrefix(imp, prefix) {
					result = true
				}
			}
			if !result && strings.HasPrefix(imp, modulePath) && needsDevice(imp, seen) {
				result = true
			}
			if result {
				break
			}
		}
		memo[pkg] = result
		return result
	}

	var pkgs []string
	for pkg := range imports {
		if !hasTests[pkg] || needsDevice(pkg, map[string]bool{}) {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(pkg, modulePath), "/")
		if rel == "" {
			pkgs = append(pkgs, ".")
			continue
		}
		pkgs = append(pkgs, "./"+rel)
	}
	sort.Strings(pkgs)
	return pkgs, nil
}
