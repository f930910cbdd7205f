//go:build mage

// Package main contains Mage build targets for deepgene developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "deepgene"
	cmdPkg     = "./cmd/deepgene"
	secretsDir = ".secrets"
	configFile = "deepgene.yaml"
)

// secretFiles are created empty by Init for the user to fill in.
var secretFiles = []string{"gemini-api-key", "anthropic-api-key"}

const configTemplate = `# deepgene configuration. Environment variables override these
# (DEEPGENE_AI_BACKEND, DEEPGENE_FETCH_TIMEOUT, ...).
fetch:
  timeout: 10s
ai:
  backend: gemini
  model: gemini-2.5-flash
enhance:
  concurrency: 1
# metrics:
#   addr: ":2112"
`

// Init creates .secrets/ with empty key files and a starter deepgene.yaml.
// Existing files are left untouched.
func Init() error {
	if err := os.MkdirAll(secretsDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", secretsDir, err)
	}
	for _, name := range secretFiles {
		if err := createIfMissing(filepath.Join(secretsDir, name), ""); err != nil {
			return err
		}
	}
	if err := createIfMissing(configFile, configTemplate); err != nil {
		return err
	}
	fmt.Println("Project initialized. Put your API key in .secrets/gemini-api-key.")
	return nil
}

func createIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	fmt.Println("  ", path)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Vet runs go vet over all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests with the race detector.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "-race", "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints project metrics: Go production and test line counts per package.
func Stats() error {
	prod := map[string]int{}
	tests := map[string]int{}
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countNonBlank(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			tests[filepath.Dir(path)] += n
		} else {
			prod[filepath.Dir(path)] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	var totalProd, totalTest int
	for _, dir := range sortedKeys(prod, tests) {
		fmt.Printf("%-28s %6d %6d\n", dir, prod[dir], tests[dir])
		totalProd += prod[dir]
		totalTest += tests[dir]
	}
	fmt.Printf("%-28s %6d %6d\n", "total (prod, test)", totalProd, totalTest)
	return nil
}

func countNonBlank(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}

func sortedKeys(maps ...map[string]int) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	// Insertion sort keeps this file free of extra imports.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
