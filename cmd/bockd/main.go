// Command bockd runs bock's HTTP-over-unix-socket daemon: start, stop,
// restart, or status, mirroring the teacher's (cmd/sand) daemon subcommand
// shape but fronting the container/orchestrator packages instead of a
// sandbox boxer.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fishmindlab360/bock/paths"
	"github.com/fishmindlab360/bock/version"
)

type CLI struct {
	Root       string `help:"override BOCK_ROOT" placeholder:"<dir>"`
	RuntimeDir string `help:"override BOCK_RUNTIME_DIR" placeholder:"<dir>"`
	LogFile    string `help:"rotate daemon logs here instead of stderr" placeholder:"<path>"`
	LogLevel   string `default:"info" help:"debug|info|warn|error"`

	Action string `arg:"" optional:"" default:"status" enum:"start,stop,restart,status,version" help:"start, stop, restart, status (default), or version"`
}

func initSlog(level, logFile string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	var w io.Writer = os.Stderr
	if logFile != "" {
		w = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l})))
}

func resolvePaths(cli *CLI) paths.BockPaths {
	p := paths.Default()
	if cli.Root == "" && cli.RuntimeDir == "" {
		return p
	}
	root, runtime := p.Root, p.Runtime
	if cli.Root != "" {
		root = cli.Root
	}
	if cli.RuntimeDir != "" {
		runtime = cli.RuntimeDir
	}
	return paths.New(root, runtime)
}

func main() {
	var cli CLI
	kong.Parse(&cli, kong.Description("bock's background daemon."))

	if cli.Action == "version" {
		fmt.Println(version.Get().String())
		return
	}

	initSlog(cli.LogLevel, cli.LogFile)

	p := resolvePaths(&cli)
	if err := p.CreateDirs(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var err error
	switch cli.Action {
	case "start":
		err = runStart(p)
	case "stop":
		err = runStop(p)
	case "restart":
		err = runRestart(&cli, p)
	default:
		err = runStatus(p)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runStart(p paths.BockPaths) error {
	d, err := NewDaemon(p)
	if err != nil {
		return err
	}
	if err := dialTimeout(d.SocketPath, 200*time.Millisecond); err == nil {
		fmt.Println("daemon is already running")
		return nil
	}
	return d.Serve(context.Background())
}

func runStop(p paths.BockPaths) error {
	d, err := NewDaemon(p)
	if err != nil {
		return err
	}
	if err := dialTimeout(d.SocketPath, 200*time.Millisecond); err != nil {
		fmt.Println("daemon is not running")
		return nil
	}
	if err := postShutdown(d.SocketPath); err != nil {
		return err
	}
	fmt.Println("daemon stopped")
	return nil
}

func runStatus(p paths.BockPaths) error {
	d, err := NewDaemon(p)
	if err != nil {
		return err
	}
	if err := dialTimeout(d.SocketPath, 200*time.Millisecond); err != nil {
		fmt.Println("daemon is not running")
		return nil
	}
	fmt.Println("daemon is running")
	return nil
}

func runRestart(cli *CLI, p paths.BockPaths) error {
	d, err := NewDaemon(p)
	if err != nil {
		return err
	}
	if dialTimeout(d.SocketPath, 200*time.Millisecond) == nil {
		if err := postShutdown(d.SocketPath); err != nil {
			return err
		}
		fmt.Println("daemon stopped")
	}

	args := []string{"start", "--log-file", cli.LogFile}
	if cli.Root != "" {
		args = append(args, "--root", cli.Root)
	}
	if cli.RuntimeDir != "" {
		args = append(args, "--runtime-dir", cli.RuntimeDir)
	}
	cmd := exec.Command(os.Args[0], args...)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = nil, nil, nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	for i := 0; i < 20; i++ {
		time.Sleep(100 * time.Millisecond)
		if dialTimeout(d.SocketPath, 100*time.Millisecond) == nil {
			fmt.Println("daemon restarted")
			return nil
		}
	}
	return fmt.Errorf("daemon failed to start")
}
