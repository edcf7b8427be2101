// Command arcup-web is the local development runner: it builds the WASM
// controller into the site directory and then runs the site server until
// interrupted.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

type procConfig struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

const stopGrace = 2 * time.Second

func main() {
	flagSet := pflag.NewFlagSet("arcup-web", pflag.ContinueOnError)
	dir := flagSet.String("dir", "dist", "built site directory; main.wasm is written here")
	listen := flagSet.String("listen", "127.0.0.1:4321", "address for the site server")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	builds := []procConfig{
		{
			Name: "build-ui-wasm",
			Args: []string{"go", "build", "-o", filepath.Join(*dir, "main.wasm"), "./cmd/ui-wasm"},
			Env:  []string{"GOOS=js", "GOARCH=wasm"},
		},
	}
	servers := []procConfig{
		{
			Name: "site-server",
			Args: []string{"go", "run", "./cmd/site-server", "--dir", *dir, "--listen", *listen},
			Env:  []string{"ARCUP_ENV=development", "ARCUP_LOG_LEVEL=DEBUG"},
		},
	}

	if err := prepare(ctx, *dir, builds); err != nil {
		fmt.Fprintf(os.Stderr, "arcup-web: %v\n", err)
		os.Exit(1)
	}
	if err := runAll(ctx, servers); err != nil {
		fmt.Fprintf(os.Stderr, "arcup-web exited with error: %v\n", err)
		os.Exit(1)
	}
}

// prepare runs the build steps in order and installs wasm_exec.js next to
// main.wasm.
func prepare(ctx context.Context, dir string, builds []procConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, cfg := range builds {
		if err := command(ctx, cfg).Run(); err != nil {
			return fmt.Errorf("%s: %w", cfg.Name, err)
		}
	}
	return copyWasmExec(ctx, dir)
}

func copyWasmExec(ctx context.Context, dir string) error {
	out, err := exec.CommandContext(ctx, "go", "env", "GOROOT").Output()
	if err != nil {
		return fmt.Errorf("locate GOROOT: %w", err)
	}
	goroot := string(bytes.TrimSpace(out))
	var data []byte
	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		if data, err = os.ReadFile(filepath.Join(goroot, rel)); err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("read wasm_exec.js: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "wasm_exec.js"), data, 0o644)
}

// runAll supervises long-running processes. The first unexpected exit stops
// the rest; a signal gives them stopGrace to exit.
func runAll(ctx context.Context, procs []procConfig) error {
	if len(procs) == 0 {
		return fmt.Errorf("no processes configured")
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, cfg := range procs {
		cfg := cfg
		g.Go(func() error {
			cmd := command(gctx, cfg)
			cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
			cmd.WaitDelay = stopGrace
			if err := cmd.Start(); err != nil {
				return fmt.Errorf("%s start: %w", cfg.Name, err)
			}
			if err := cmd.Wait(); err != nil {
				// Exits after a signal or a sibling failure are expected.
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("%s exited: %w", cfg.Name, err)
			}
			if gctx.Err() == nil {
				return fmt.Errorf("%s exited", cfg.Name)
			}
			return nil
		})
	}
	return g.Wait()
}

func command(ctx context.Context, cfg procConfig) *exec.Cmd {
	cmd := exec.CommandContext(ctx, cfg.Args[0], cfg.Args[1:]...)
	cmd.Stdout = prefixWriter{name: cfg.Name, out: os.Stdout}
	cmd.Stderr = prefixWriter{name: cfg.Name, out: os.Stderr}
	if cfg.Dir != "" {
		cmd.Dir = cfg.Dir
	}
	if len(cfg.Env) > 0 {
		cmd.Env = append(append([]string{}, os.Environ()...), cfg.Env...)
	}
	return cmd
}

// prefixWriter tags each line with the process name.
type prefixWriter struct {
	name string
	out  *os.File
}

func (w prefixWriter) Write(p []byte) (int, error) {
	lines := strings.SplitAfter(string(p), "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString("[" + w.name + "] " + line)
	}
	if _, err := w.out.WriteString(b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}
