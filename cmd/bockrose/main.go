// Command bockrose is the compose CLI: it parses a compose file into an
// orchestrator.Stack and drives orchestrator.Orchestrator's up/down/
// scale/ps operations over it, per spec §4.11.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/network"
	"github.com/fishmindlab360/bock/orchestrator"
	"github.com/fishmindlab360/bock/paths"
)

// Context carries the orchestrator and the parsed stack every subcommand
// drives, built once in main the same way cmd/bock builds its Context.
type Context struct {
	Orch  *orchestrator.Orchestrator
	Stack *orchestrator.Stack
	Paths paths.BockPaths
}

type CLI struct {
	File         string `short:"f" default:"compose.yaml" help:"compose file path" placeholder:"<path>"`
	Name         string `help:"stack name prefix; defaults to the compose file's directory name" placeholder:"<name>"`
	Root         string `help:"override BOCK_ROOT" placeholder:"<dir>"`
	RuntimeDir   string `help:"override BOCK_RUNTIME_DIR" placeholder:"<dir>"`
	BridgeName   string `default:"bock0" help:"per-stack bridge device name"`
	BridgeSubnet string `default:"172.18.0.0/16" help:"per-stack IPAM subnet"`
	LogLevel     string `default:"info" help:"debug|info|warn|error"`

	Up         UpCmd               `cmd:"" help:"create and start every service's replicas, in dependency order"`
	Down       DownCmd             `cmd:"" help:"stop and delete every service's replicas, in reverse order"`
	Ps         PsCmd               `cmd:"" help:"list replicas and their health"`
	Scale      ScaleCmd            `cmd:"" help:"scale one service to N replicas"`
	Version    VersionCmd          `cmd:"" help:"print bockrose's version"`
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

func stackName(cli *CLI) string {
	if cli.Name != "" {
		return cli.Name
	}
	return defaultStackName(cli.File)
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Configuration(kongyaml.Loader, "~/.bockrose.yaml"),
		kong.Description("bock's compose CLI."))
	kongcompletion.Register(parser)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	initSlog(cli.LogLevel)

	if kctx.Command() == "version" {
		runErr := kctx.Run(&Context{})
		if runErr != nil {
			fmt.Fprintln(os.Stderr, runErr)
			os.Exit(1)
		}
		return
	}

	p := resolvePaths(&cli)
	if err := p.CreateDirs(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bridgeName := cli.BridgeName
	if bridgeName == "" {
		bridgeName = "bock0"
	}
	bridgeSubnet := cli.BridgeSubnet
	if bridgeSubnet == "" {
		bridgeSubnet = network.DefaultSubnet
	}
	orch, err := orchestrator.New(p, bridgeName, bridgeSubnet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var stack *orchestrator.Stack
	if !strings.HasPrefix(kctx.Command(), "completion") {
		stack, err = orchestrator.LoadStack(cli.File, stackName(&cli))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	runErr := kctx.Run(&Context{Orch: orch, Stack: stack, Paths: p})
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		if hint := bockerr.Hint(bockerr.KindOf(runErr)); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}
