// Command bockd is the long-running daemon: a Unix-domain-socket HTTP
// server fronting the container and orchestrator packages, so a client
// (any HTTP client dialing the socket) doesn't pay a process
// re-exec per call the way the bock CLI does for one-shot OCI operations.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/network"
	"github.com/fishmindlab360/bock/orchestrator"
	"github.com/fishmindlab360/bock/paths"
)

const (
	defaultSocketFile = "bockd.sock"
	defaultLockFile   = "bockd.lock"
)

// Daemon owns the socket, the lockfile, and the orchestrator every HTTP
// handler dispatches into.
type Daemon struct {
	Paths      paths.BockPaths
	SocketPath string
	LockPath   string

	orch *orchestrator.Orchestrator

	listener net.Listener
	lockFile *os.File
	shutdown chan any
}

// NewDaemon builds a Daemon rooted at p, with its socket and lockfile
// under p.Runtime so they share the container runtime's tmpfs lifetime.
func NewDaemon(p paths.BockPaths) (*Daemon, error) {
	orch, err := orchestrator.New(p, "bock0", network.DefaultSubnet)
	if err != nil {
		return nil, bockerr.New("bockd", bockerr.Config, "build orchestrator", err)
	}
	return &Daemon{
		Paths:      p,
		SocketPath: filepath.Join(p.Runtime, defaultSocketFile),
		LockPath:   filepath.Join(p.Runtime, defaultLockFile),
		orch:       orch,
	}, nil
}

// Serve acquires the single-instance lock, binds the socket, and blocks
// until a shutdown signal or /shutdown request arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "bockd.Serve", "pid", os.Getpid(), "socket", d.SocketPath)
	lockFile, err := acquireLock(d.LockPath)
	if err != nil {
		return err
	}
	d.lockFile = lockFile

	os.Remove(d.SocketPath)
	listener, err := net.Listen("unix", d.SocketPath)
	if err != nil {
		d.releaseLock()
		return bockerr.New("bockd", bockerr.Io, "listen "+d.SocketPath, err)
	}
	d.listener = listener
	d.shutdown = make(chan any)

	go d.waitForShutdown(ctx)
	go d.serveHTTP(ctx)

	<-d.shutdown
	return nil
}

func (d *Daemon) waitForShutdown(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		d.Shutdown(ctx)
	case <-sigChan:
		d.Shutdown(ctx)
	case <-d.shutdown:
	}
}

// Shutdown closes the listener, removes the socket and lockfile, and
// unblocks Serve. Safe to call more than once.
func (d *Daemon) Shutdown(ctx context.Context) {
	slog.InfoContext(ctx, "bockd.Shutdown", "pid", os.Getpid())
	if d.listener != nil {
		d.listener.Close()
	}
	os.Remove(d.SocketPath)
	d.releaseLock()

	select {
	case <-d.shutdown:
	default:
		close(d.shutdown)
	}
}

func (d *Daemon) releaseLock() {
	if d.lockFile == nil {
		return
	}
	syscall.Flock(int(d.lockFile.Fd()), syscall.LOCK_UN)
	d.lockFile.Close()
	os.Remove(d.LockPath)
	d.lockFile = nil
}

func (d *Daemon) serveHTTP(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", d.handlePing)
	mux.HandleFunc("/shutdown", d.handleShutdown)
	mux.HandleFunc("/containers/list", d.handleContainersList)
	mux.HandleFunc("/containers/state", d.handleContainerState)
	mux.HandleFunc("/containers/kill", d.handleContainerKill)
	mux.HandleFunc("/containers/delete", d.handleContainerDelete)
	mux.HandleFunc("/stacks/up", d.handleStackUp)
	mux.HandleFunc("/stacks/down", d.handleStackDown)
	mux.HandleFunc("/stacks/scale", d.handleStackScale)
	mux.HandleFunc("/stacks/service", d.handleStackService)

	server := &http.Server{Handler: mux}
	server.Serve(d.listener)
}

func acquireLock(lockPath string) (*os.File, error) {
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, bockerr.New("bockd", bockerr.Io, "open lockfile "+lockPath, err)
	}
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		return nil, bockerr.New("bockd", bockerr.Config, "daemon already running", err)
	}
	file.Truncate(0)
	fmt.Fprintf(file, "%d", os.Getpid())
	return file, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// dialTimeout is shared by the CLI's status/restart actions to probe
// whether a socket has a live listener behind it yet.
func dialTimeout(socketPath string, d time.Duration) error {
	conn, err := net.DialTimeout("unix", socketPath, d)
	if err != nil {
		return err
	}
	return conn.Close()
}
