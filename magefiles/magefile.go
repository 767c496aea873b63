//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for thesis-extract developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"theses",
	"output/cache",
	"output/text",
	"output/records",
	".secrets",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "thesis-extract"
	cmdPkg  = "./cmd/thesis-extract"
)

// Build compiles the CLI binary into bin/ with the version stamped from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs vet and the unit tests with the race detector.
func Test() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// All tests then builds.
func All() {
	mg.SerialDeps(Test, Build)
}

// Stats prints Go production and test line counts per package directory.
func Stats() error {
	prod, test := map[string]int{}, map[string]int{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test[filepath.Dir(path)] += n
		} else {
			prod[filepath.Dir(path)] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(prod))
	for dir := range prod {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)

	var totalProd, totalTest int
	fmt.Printf("%-28s  %8s  %8s\n", "Package", "Code", "Tests")
	for _, dir := range dirs {
		fmt.Printf("%-28s  %8d  %8d\n", dir, prod[dir], test[dir])
		totalProd += prod[dir]
		totalTest += test[dir]
	}
	fmt.Printf("%-28s  %8d  %8d\n", "total", totalProd, totalTest)
	return nil
}
