// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs one-shot converter images under docker or podman.
// The document provider uses it to turn Word files into text.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime runs containers with stdin and stdout piped through.
type Runtime interface {
	// Name returns "docker" or "podman".
	Name() string

	// Available reports whether the binary is on PATH and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with args, feeds it stdin, and copies its output to
	// stdout. The container is removed when it exits or ctx is done.
	Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// runtime differs between docker and podman only in the binary and the
// image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string(nil), r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	full := append([]string{"run", "--rm", "-i", "--network", "none", image}, args...)
	if err := r.exec.RunPiped(ctx, r.bin, full, stdin, stdout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

func newDockerRuntime(e executor) *runtime {
	return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: e}
}

func newPodmanRuntime(e executor) *runtime {
	return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: e}
}

// Detect returns docker when it works, else podman.
func Detect(ctx context.Context) (Runtime, error) {
	return detect(ctx, osExecutor{})
}

func detect(ctx context.Context, e executor) (Runtime, error) {
	for _, rt := range []*runtime{newDockerRuntime(e), newPodmanRuntime(e)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman)
}
