// Command bock is the OCI runtime CLI: create/start/state/kill/delete/run/
// exec/pause/resume/list/spec/features, bit-exact with OCI runtime v1.2
// per spec §6.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/container"
	"github.com/fishmindlab360/bock/paths"
)

// Context carries the resolved BockPaths every subcommand operates
// against, mirroring the teacher's (cmd/sand) pattern of a shared Context
// struct built once in main and threaded through Run(*Context).
type Context struct {
	Paths paths.BockPaths
}

// CLI is kong's root command tree.
type CLI struct {
	Root       string `help:"override BOCK_ROOT" placeholder:"<dir>"`
	RuntimeDir string `help:"override BOCK_RUNTIME_DIR" placeholder:"<dir>"`
	LogLevel   string `default:"info" help:"debug|info|warn|error"`

	Create   CreateCmd            `cmd:"" help:"create a container"`
	Start    StartCmd             `cmd:"" help:"start a created container"`
	State    StateCmd             `cmd:"" help:"print a container's state as JSON"`
	Kill     KillCmd              `cmd:"" help:"send a signal to a container"`
	Delete   DeleteCmd            `cmd:"" help:"delete a container"`
	Run      RunCmd               `cmd:"" help:"create, start, and wait on a container"`
	Exec     ExecCmd              `cmd:"" help:"run a command inside a running container"`
	Pause    PauseCmd             `cmd:"" help:"pause a running container"`
	Resume   ResumeCmd            `cmd:"" help:"resume a paused container"`
	List     ListCmd              `cmd:"" help:"list containers"`
	Spec     SpecCmd              `cmd:"" help:"generate a default config.json"`
	Features FeaturesCmd          `cmd:"" help:"print supported OCI features as JSON"`
	Version  VersionCmd          `cmd:"" help:"print bock's version"`
	Completion kongcompletion.Cmd `cmd:"" help:"generate shell completion"`
}

func initSlog(level string) {
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
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func main() {
	// The self-reexec hidden subcommands bypass kong entirely: they are
	// invoked by container.Start/Exec with a fixed argv shape, not typed
	// by a human at a shell, per spec §4.10's Start sequence.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "__bock_init__":
			if len(os.Args) != 3 {
				fmt.Fprintln(os.Stderr, "__bock_init__ requires exactly one bundle path argument")
				os.Exit(1)
			}
			if err := container.RunInitProcess(context.Background(), os.Args[2]); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "__bock_exec__":
			if len(os.Args) < 4 {
				fmt.Fprintln(os.Stderr, "__bock_exec__ requires a cwd and a command")
				os.Exit(1)
			}
			if err := container.RunExecProcess(context.Background(), os.Args[2], os.Args[3:]); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}

	var cli CLI
	parser := kong.Must(&cli,
		kong.Configuration(kongyaml.Loader, "~/.bock.yaml"),
		kong.Description("An OCI-compliant container runtime."))
	kongcompletion.Register(parser)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	initSlog(cli.LogLevel)

	p := paths.Default()
	if cli.Root != "" || cli.RuntimeDir != "" {
		root, runtime := p.Root, p.Runtime
		if cli.Root != "" {
			root = cli.Root
		}
		if cli.RuntimeDir != "" {
			runtime = cli.RuntimeDir
		}
		p = paths.New(root, runtime)
	}
	if err := p.CreateDirs(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runErr := kctx.Run(&Context{Paths: p})
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		if hint := bockerr.Hint(bockerr.KindOf(runErr)); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}
