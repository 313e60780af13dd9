// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool discovers and runs the external executables doctool delegates
// to: Ghostscript for compression, LibreOffice for Word conversion and
// poppler's pdftoppm for rasterization.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrToolNotFound reports that no candidate for a required tool could be
// found or run.
var ErrToolNotFound = errors.New("tool not found")

// Tool is a located external executable.
type Tool interface {
	// Name returns the tool's display name ("ghostscript", "soffice", ...).
	Name() string

	// Path returns the executable that was located.
	Path() string

	// Run executes the tool with args, writing its standard output to stdout.
	// A non-zero exit is returned as an error carrying the tool's stderr.
	Run(ctx context.Context, args []string, stdout io.Writer) error
}

// Spec describes how to find a tool: the candidates to try, in order, and
// the arguments used to probe that a candidate actually runs.
type Spec struct {
	Name       string
	Candidates []string
	// ProbeArgs is run against each candidate; when empty, a candidate that
	// exists is accepted without being executed.
	ProbeArgs []string
}

// Ghostscript finds the gs command line interpreter. The Windows install
// locations cover the common 9.x and 10.x releases.
var Ghostscript = Spec{
	Name: "ghostscript",
	Candidates: []string{
		"gs",
		"gswin64c",
		"gswin32c",
		`C:\Program Files\gs\gs10.05.1\bin\gswin64c.exe`,
		`C:\Program Files\gs\gs10.00.0\bin\gswin64c.exe`,
		`C:\Program Files\gs\gs9.56.1\bin\gswin64c.exe`,
		`C:\Program Files\gs\gs9.55.0\bin\gswin64c.exe`,
		`C:\Program Files (x86)\gs\gs10.05.1\bin\gswin32c.exe`,
		`C:\Program Files (x86)\gs\gs10.00.0\bin\gswin32c.exe`,
		`C:\Program Files (x86)\gs\gs9.56.1\bin\gswin32c.exe`,
		`C:\Program Files (x86)\gs\gs9.55.0\bin\gswin32c.exe`,
	},
	ProbeArgs: []string{"--version"},
}

// LibreOffice finds the office suite used for headless document conversion.
var LibreOffice = Spec{
	Name: "soffice",
	Candidates: []string{
		"soffice",
		"libreoffice",
		"/Applications/LibreOffice.app/Contents/MacOS/soffice",
		`C:\Program Files\LibreOffice\program\soffice.exe`,
	},
	ProbeArgs: []string{"--version"},
}

// Pdftoppm finds poppler's page rasterizer. pdftoppm's version flag exits
// non-zero on older poppler releases, so candidates are not probed.
var Pdftoppm = Spec{
	Name:       "pdftoppm",
	Candidates: []string{"pdftoppm"},
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	IsFile(path string) bool
	RunSilent(ctx context.Context, name string, args ...string) error
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = detached()
	return cmd.Run()
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = detached()
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// binary implements Tool for one located executable.
type binary struct {
	name string
	path string
	exec executor
}

func (b *binary) Name() string { return b.name }

func (b *binary) Path() string { return b.path }

func (b *binary) Run(ctx context.Context, args []string, stdout io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	var stderr bytes.Buffer
	if err := b.exec.Run(ctx, b.path, args, stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s: %w: %s", b.name, err, msg)
		}
		return fmt.Errorf("running %s: %w", b.name, err)
	}
	return nil
}

var defaultExec = &osExecutor{}

// Locate finds the tool described by spec. A non-empty override is tried
// before the spec's candidates. An error wrapping ErrToolNotFound is returned
// when no candidate is usable.
func Locate(ctx context.Context, spec Spec, override string) (Tool, error) {
	return locate(ctx, defaultExec, spec, override)
}

func locate(ctx context.Context, exec executor, spec Spec, override string) (Tool, error) {
	candidates := spec.Candidates
	if override != "" {
		candidates = append([]string{override}, candidates...)
	}

	for _, c := range candidates {
		path, ok := resolve(exec, c)
		if !ok {
			continue
		}
		if len(spec.ProbeArgs) > 0 && exec.RunSilent(ctx, path, spec.ProbeArgs...) != nil {
			continue
		}
		return &binary{name: spec.Name, path: path, exec: exec}, nil
	}

	return nil, fmt.Errorf("%s: %w: tried %s", spec.Name, ErrToolNotFound, strings.Join(candidates, ", "))
}

// resolve turns a candidate into a runnable path. Candidates that name an
// existing file are used as-is; bare command names are looked up on PATH.
func resolve(exec executor, candidate string) (string, bool) {
	if exec.IsFile(candidate) {
		return candidate, true
	}
	if strings.ContainsAny(candidate, `/\ `) {
		return "", false
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", false
	}
	return path, true
}
