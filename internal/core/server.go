package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/websauna/scaffoldenv/internal/execrun"
	"github.com/websauna/scaffoldenv/internal/netutil"
	"github.com/websauna/scaffoldenv/internal/process"
	"github.com/websauna/scaffoldenv/internal/venv"
)

// Verify Server implements process.Stoppable at compile time.
var _ process.Stoppable = (*Server)(nil)

// Server is a development server started inside a virtualenv.
//
// The port lock taken by StartServer is held until Stop, so another test
// binary starting a server on the same port waits, up to its
// PortReleaseTimeout, before killing this one.
type Server struct {
	process.BaseProcess

	cmdline string
	cwd     string
	port    int
	logs    *process.LogFiles
	lock    *netutil.PortLock

	stopOnce sync.Once
	stopErr  error
}

// running holds the servers this process started, by port. flock contends
// between two handles of the same process, so a server an earlier test left
// running would otherwise keep StartServer from taking the port lock.
var running = struct {
	mu     sync.Mutex
	byPort map[int]*Server
}{byPort: map[int]*Server{}}

// claimMu serializes port claims within the process.
var claimMu sync.Mutex

func register(s *Server) {
	running.mu.Lock()
	defer running.mu.Unlock()
	running.byPort[s.port] = s
}

func unregister(s *Server) {
	running.mu.Lock()
	defer running.mu.Unlock()
	if running.byPort[s.port] == s {
		delete(running.byPort, s.port)
	}
}

func runningOn(port int) *Server {
	running.mu.Lock()
	defer running.mu.Unlock()
	return running.byPort[port]
}

// claimPort stops a server of this process still running on cfg.Port, then
// takes the port lock. Another process holding the lock is waited for up to
// cfg.PortReleaseTimeout; after that the port is cleared without the lock.
// The returned lock is nil in that case.
func claimPort(ctx context.Context, cfg ServerConfig, log *slog.Logger) (*netutil.PortLock, error) {
	if prev := runningOn(cfg.Port); prev != nil {
		log.Warn("stopping a server left running on the port", "pid", prev.Pid(), "cmdline", prev.Cmdline())
		if err := prev.Stop(cfg.StopTimeout); err != nil {
			log.Warn("stopping previous server failed", "pid", prev.Pid(), "error", err)
		}
	}

	lockCtx, cancel := context.WithTimeout(ctx, cfg.PortReleaseTimeout)
	defer cancel()
	lock, err := netutil.AcquirePortLock(lockCtx, cfg.Port, log)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		log.Warn("port lock held by another process; clearing the port anyway", "path", netutil.LockPath(cfg.Port))
		return nil, nil
	}
	return lock, nil
}

// StartServer clears cfg.Port, starts `. <cwd>/venv/bin/activate && cmdline`
// in cwd and checks the process survives cfg.WaitAndSee. Output goes to
// log files in cwd.
func StartServer(ctx context.Context, cmdline, cwd string, cfg ServerConfig) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if err := venv.Exists(cwd); err != nil {
		return nil, err
	}
	log := Logger().With("port", cfg.Port)

	claimMu.Lock()
	defer claimMu.Unlock()

	lock, err := claimPort(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if _, err := netutil.KillHolders(ctx, cfg.Port, cfg.PortReleaseTimeout, log); err != nil {
		lock.Release()
		return nil, err
	}

	logs, err := process.NewLogFiles(cwd, cfg.LogName)
	if err != nil {
		lock.Release()
		return nil, err
	}

	line := venv.CommandLine(cwd, "", cmdline, "&&")
	s := &Server{
		BaseProcess: process.NewBaseProcess(cfg.LogName, log, cfg.StopTimeout),
		cmdline:     line,
		cwd:         cwd,
		port:        cfg.Port,
		logs:        logs,
		lock:        lock,
	}
	if err := s.SetupAndStart(process.ShellCommand(line, cwd), logs); err != nil {
		logs.Close()
		lock.Release()
		return nil, err
	}
	log.Info("server started", "process", s.Name(), "pid", s.Pid(), "cmdline", line)
	register(s)

	if err := s.WaitAlive(ctx, cfg.WaitAndSee); err != nil {
		code, _ := s.ExitCode()
		stdout, stderr := s.Output()
		_ = s.Stop(cfg.StopTimeout)
		s.Close()
		if errors.Is(err, process.ErrExitedEarly) {
			res := execrun.Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
			return nil, execrun.NewCommandError(process.ErrExitedEarly, "could not ws-pserve: "+line, line, cwd, res)
		}
		return nil, err
	}
	return s, nil
}

// Cmdline returns the full shell line the server runs.
func (s *Server) Cmdline() string {
	return s.cmdline
}

// Port returns the port the server was started for.
func (s *Server) Port() int {
	return s.port
}

// LogPaths returns the stdout and stderr log files.
func (s *Server) LogPaths() (stdout, stderr string) {
	return s.logs.StdoutPath(), s.logs.StderrPath()
}

// Stop terminates the server's process group and releases the port lock.
// Only the first call does any work; later calls return its result.
func (s *Server) Stop(timeout time.Duration) error {
	s.stopOnce.Do(func() {
		s.stopErr = s.BaseProcess.Stop(timeout)
		s.lock.Release()
		unregister(s)
	})
	return s.stopErr
}

// Close releases the log files and the port lock. A server still running
// is stopped first.
func (s *Server) Close() {
	s.BaseProcess.Close()
	s.lock.Release()
	unregister(s)
}
