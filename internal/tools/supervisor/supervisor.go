// Package supervisor runs the API and web binaries side by side in one
// container and stops both when either exits.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
)

// Config holds the supervised binaries and the stop grace period.
type Config struct {
	APIBin          string        `env:"STOREFRONT_API_BIN" envDefault:"/app/api"`
	WebBin          string        `env:"STOREFRONT_WEB_BIN" envDefault:"/app/web"`
	ShutdownTimeout time.Duration `env:"STOREFRONT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Process describes one supervised command.
type Process struct {
	Name string
	Path string
	Args []string
}

// Processes lists the storefront binaries in start order.
func (c Config) Processes() []Process {
	return []Process{
		{Name: "api", Path: c.APIBin},
		{Name: "web", Path: c.WebBin},
	}
}

// ExitError carries the exit code of the first process that stopped.
type ExitError struct {
	Name string
	Err  error
}

func (e *ExitError) Error() string { return fmt.Sprintf("%s exited: %v", e.Name, e.Err) }

func (e *ExitError) Unwrap() error { return e.Err }

// Code returns the exit code the container should report.
func (e *ExitError) Code() int {
	if e == nil || e.Err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

type child struct {
	name string
	cmd  *exec.Cmd
}

type exit struct {
	name string
	err  error
}

// Run starts every process and blocks until ctx is canceled or one of them
// exits. The rest receive SIGTERM and are killed after timeout.
// A clean shutdown after ctx cancellation returns nil.
func Run(ctx context.Context, procs []Process, timeout time.Duration) error {
	children := make([]*child, 0, len(procs))
	for _, proc := range procs {
		cmd := exec.Command(proc.Path, proc.Args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			terminate(children)
			return fmt.Errorf("start %s: %w", proc.Name, err)
		}
		log.Info().Str("process", proc.Name).Int("pid", cmd.Process.Pid).Msg("started")
		children = append(children, &child{name: proc.Name, cmd: cmd})
	}

	exits := make(chan exit, len(children))
	for _, c := range children {
		go func() {
			exits <- exit{name: c.name, err: c.cmd.Wait()}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		terminate(children)
		drain(exits, children, nil, timeout)
		return nil
	case first := <-exits:
		log.Warn().Str("process", first.name).AnErr("exit", first.err).Msg("process stopped, stopping the rest")
		terminate(children)
		drain(exits, children, map[string]bool{first.name: true}, timeout)
		return &ExitError{Name: first.name, Err: first.err}
	}
}

func terminate(children []*child) {
	for _, c := range children {
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Signal(syscall.SIGTERM)
		}
	}
}

// drain waits for the children not yet in stopped, then kills whatever is
// still running once timeout elapses.
func drain(exits <-chan exit, children []*child, stopped map[string]bool, timeout time.Duration) {
	if stopped == nil {
		stopped = map[string]bool{}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for len(stopped) < len(children) {
		select {
		case e := <-exits:
			stopped[e.name] = true
		case <-timer.C:
			for _, c := range children {
				if !stopped[c.name] {
					log.Warn().Str("process", c.name).Msg("killing after grace period")
					_ = c.cmd.Process.Kill()
				}
			}
			return
		}
	}
}
