//go:build linux

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	rspec "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/container"
	"github.com/fishmindlab360/bock/image"
	"github.com/fishmindlab360/bock/network"
	"github.com/fishmindlab360/bock/paths"
	"github.com/fishmindlab360/bock/volume"
)

// ReplicaStatus mirrors a replica's observed container status plus the
// orchestrator's own healthcheck verdict, which the container package has
// no notion of.
type ReplicaStatus struct {
	Name      string
	IP        string
	Status    string
	Healthy   bool
	LastError string
}

// ServiceState is the orchestrator's in-memory record for one service,
// concurrency-safe for the "services map" spec §5 calls out as a shared
// concurrent key-value container.
type ServiceState struct {
	mu       sync.Mutex
	Replicas []*ReplicaStatus
}

func (s *ServiceState) snapshot() []ReplicaStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ReplicaStatus, len(s.Replicas))
	for i, r := range s.Replicas {
		out[i] = *r
	}
	return out
}

// Orchestrator provisions, scales, health-checks, and tears down a Stack's
// services over the container lifecycle engine, per spec §4.11.
type Orchestrator struct {
	paths    paths.BockPaths
	images   *image.Store
	hosts    *network.Registry
	ipam     *network.IPAM
	driver   network.Driver
	volumes  volume.Driver
	services sync.Map // string -> *ServiceState
}

// New builds an Orchestrator using bridgeSubnet (spec §4.9's default is
// network.DefaultSubnet) for the stack's per-run IPAM pool.
func New(p paths.BockPaths, bridgeName, bridgeSubnet string) (*Orchestrator, error) {
	ipam, err := network.NewIPAM(bridgeSubnet)
	if err != nil {
		return nil, err
	}
	driver, err := network.NewDriver(network.DriverBridge, bridgeName, ipam)
	if err != nil {
		return nil, err
	}
	volumes, err := volume.NewDriver(volume.DriverLocal, p)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		paths:   p,
		images:  image.NewStore(p),
		hosts:   network.NewRegistry(),
		ipam:    ipam,
		driver:  driver,
		volumes: volumes,
	}, nil
}

func (o *Orchestrator) serviceState(name string) *ServiceState {
	v, _ := o.services.LoadOrStore(name, &ServiceState{})
	return v.(*ServiceState)
}

// Service returns the in-memory state for name, or nil if it has never
// been provisioned this run.
func (o *Orchestrator) Service(name string) ([]ReplicaStatus, bool) {
	v, ok := o.services.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*ServiceState).snapshot(), true
}

// Up provisions every service in stack in topological order, per spec
// §4.11: each service's replicas are created only once its dependencies
// are already running.
func (o *Orchestrator) Up(ctx context.Context, stack *Stack) error {
	order, err := stack.TopologicalOrder()
	if err != nil {
		return err
	}

	for _, name := range order {
		svc := stack.Services[name]
		if err := o.provisionService(ctx, stack, name, svc, svc.replicaCount()); err != nil {
			return fmt.Errorf("provision service %s: %w", name, err)
		}
	}
	return nil
}

// Scale adjusts service's replica count to desired, per spec §4.11's
// scale-up/scale-down rules.
func (o *Orchestrator) Scale(ctx context.Context, stack *Stack, service string, desired int) error {
	svc, ok := stack.Services[service]
	if !ok {
		return bockerr.New("orchestrator", bockerr.Config, "unknown service "+service, nil)
	}

	state := o.serviceState(service)
	current := len(state.snapshot())

	if desired > current {
		return o.provisionReplicas(ctx, stack, service, svc, current+1, desired)
	}

	for i := current; i > desired; i-- {
		replicaName := replicaID(stack.Name, service, i)
		if err := o.stopAndDeleteReplica(ctx, replicaName); err != nil {
			slog.WarnContext(ctx, "scale down: failed to remove replica, stopping lookahead",
				"service", service, "replica", replicaName, "error", err)
			break
		}
	}
	return o.refreshState(stack, service)
}

// provisionService ensures the service's image is present then provisions
// replicas 1..N.
func (o *Orchestrator) provisionService(ctx context.Context, stack *Stack, name string, svc Service, n int) error {
	if err := o.ensureImage(ctx, svc); err != nil {
		return err
	}
	return o.provisionReplicas(ctx, stack, name, svc, 1, n)
}

func (o *Orchestrator) ensureImage(ctx context.Context, svc Service) error {
	if svc.Build != "" {
		return bockerr.New("orchestrator", bockerr.Unsupported,
			"image build is out of scope for this runtime; pre-build "+svc.Build, nil)
	}
	if svc.Image == "" {
		return bockerr.New("orchestrator", bockerr.Config, "service has neither image nor build set", nil)
	}
	img, err := o.images.Load(svc.Image)
	if err != nil {
		return err
	}
	if img == nil {
		return bockerr.New("orchestrator", bockerr.ImageNotFound, svc.Image, nil)
	}
	return nil
}

// provisionReplicas runs spec §4.11 step 3 for indices from..to inclusive,
// in parallel via errgroup (one goroutine per replica, no concurrency
// limit), per SPEC_FULL.md's domain-stack wiring of golang.org/x/sync/errgroup.
func (o *Orchestrator) provisionReplicas(ctx context.Context, stack *Stack, name string, svc Service, from, to int) error {
	state := o.serviceState(name)

	g, gctx := errgroup.WithContext(ctx)
	results := make([]*ReplicaStatus, to-from+1)

	for i := from; i <= to; i++ {
		i := i
		g.Go(func() error {
			replicaName := replicaID(stack.Name, name, i)
			status, err := o.provisionReplica(gctx, stack, replicaName, svc)
			if err != nil {
				return err
			}
			results[i-from] = status
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	state.mu.Lock()
	state.Replicas = append(state.Replicas, results...)
	state.mu.Unlock()
	return nil
}

// provisionReplica implements spec §4.11 step 3 for a single replica: skip
// if already running, otherwise recreate from scratch, extract image
// layers, allocate an address, write /etc/hosts, create, and start.
func (o *Orchestrator) provisionReplica(ctx context.Context, stack *Stack, replicaName string, svc Service) (*ReplicaStatus, error) {
	if c, err := container.Load(o.paths, replicaName); err == nil {
		if c.Probe() {
			status := &ReplicaStatus{Name: replicaName, Status: string(c.Status())}
			o.hosts.Add(replicaName, "")
			return status, nil
		}
	}

	_ = os.RemoveAll(o.paths.Container(replicaName))

	img, err := o.images.Load(svc.Image)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, bockerr.New("orchestrator", bockerr.ImageNotFound, svc.Image, nil)
	}

	rootfsStage := o.paths.Container(replicaName) + ".layers"
	if err := o.images.ExtractLayers(ctx, img, rootfsStage); err != nil {
		return nil, err
	}

	spec, err := o.baseSpec(stack.Name, svc)
	if err != nil {
		return nil, err
	}

	ip, err := o.ipam.Allocate()
	if err != nil {
		return nil, err
	}
	o.hosts.Add(replicaName, ip.String())

	hostsContent := o.hosts.GenerateHosts(replicaName, ip.String())

	c, err := container.Create(ctx, o.paths, replicaName, spec, container.RootfsSource{Bind: rootfsStage}, container.Hooks{})
	if err != nil {
		return nil, err
	}

	etcHosts := o.paths.ContainerRootfs(replicaName) + "/etc/hosts"
	if err := os.WriteFile(etcHosts, []byte(hostsContent), 0o644); err != nil {
		slog.WarnContext(ctx, "failed to pre-seed /etc/hosts", "replica", replicaName, "error", err)
	}

	if err := c.Start(ctx, container.Hooks{}, container.StartOptions{}); err != nil {
		return nil, err
	}

	if _, err := o.driver.Attach(replicaName, procNetNS(c)); err != nil {
		slog.WarnContext(ctx, "network attach failed", "replica", replicaName, "error", err)
	}

	return &ReplicaStatus{Name: replicaName, IP: ip.String(), Status: string(c.Status())}, nil
}

func procNetNS(c *container.Container) string {
	pid := c.State().Pid
	if pid == nil {
		return ""
	}
	return "/proc/" + strconv.Itoa(*pid) + "/ns/net"
}

func (o *Orchestrator) stopAndDeleteReplica(ctx context.Context, replicaName string) error {
	c, err := container.Load(o.paths, replicaName)
	if err != nil {
		return err
	}
	_ = c.Kill(unix.SIGTERM)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) && c.Probe() {
		time.Sleep(100 * time.Millisecond)
	}

	return c.Delete(ctx, true, container.Hooks{})
}

// refreshState reloads a service's replica list from disk, per spec
// §4.11's scale-down finishing step.
func (o *Orchestrator) refreshState(stack *Stack, service string) error {
	state := o.serviceState(service)
	state.mu.Lock()
	defer state.mu.Unlock()

	var surviving []*ReplicaStatus
	for _, r := range state.Replicas {
		if _, err := container.Load(o.paths, r.Name); err == nil {
			surviving = append(surviving, r)
		}
	}
	state.Replicas = surviving
	return nil
}

// Down tears a stack down in reverse topological order: kill+delete every
// replica, per spec §4.11. Named volume removal is left to an explicit
// opt-in by the caller (removeVolumes) since volumes outlive a stack by
// design.
func (o *Orchestrator) Down(ctx context.Context, stack *Stack, removeVolumes bool) error {
	order, err := stack.TopologicalOrder()
	if err != nil {
		return err
	}

	for _, name := range ReverseOf(order) {
		svc := stack.Services[name]
		for i := 1; i <= svc.replicaCount(); i++ {
			replicaName := replicaID(stack.Name, name, i)
			if err := o.stopAndDeleteReplica(ctx, replicaName); err != nil {
				slog.WarnContext(ctx, "teardown: failed to remove replica", "replica", replicaName, "error", err)
			}
		}
		o.services.Delete(name)
	}

	if removeVolumes {
		for _, svc := range stack.Services {
			for _, v := range svc.Volumes {
				if name, ok := namedVolume(stack.Name, v); ok {
					_ = o.volumes.Remove(name)
				}
			}
		}
	}
	return nil
}

func replicaID(stackName, service string, i int) string {
	return fmt.Sprintf("%s_%s_%d", stackName, service, i)
}

// ReplicaName exports replicaID's naming convention so a short-lived CLI
// process (bockrose ps, invoked after the Orchestrator that ran Up has
// already exited) can look a replica's persisted container state up
// directly, instead of depending on the in-memory services map.
func ReplicaName(stackName, service string, i int) string {
	return replicaID(stackName, service, i)
}

func namedVolume(stackName, spec string) (string, bool) {
	source := strings.SplitN(spec, ":", 2)[0]
	if strings.HasPrefix(source, "/") || strings.HasPrefix(source, ".") {
		return "", false
	}
	return stackName + "_" + source, true
}

// baseSpec composes a minimal OCI spec for svc: its command as the
// process args, its environment, and its volumes translated into mounts,
// per spec §4.11 step 2.
func (o *Orchestrator) baseSpec(stackName string, svc Service) (*rspec.Spec, error) {
	args := svc.Command
	if len(args) == 0 {
		args = []string{"/bin/sh"}
	}

	env := make([]string, 0, len(svc.Environment))
	for k, v := range svc.Environment {
		env = append(env, k+"="+v)
	}

	spec := &rspec.Spec{
		Version: "1.2.0",
		Process: &rspec.Process{
			Args: args,
			Env:  env,
			Cwd:  "/",
		},
		Linux: &rspec.Linux{
			Namespaces: []rspec.LinuxNamespace{
				{Type: rspec.PIDNamespace},
				{Type: rspec.NetworkNamespace},
				{Type: rspec.MountNamespace},
				{Type: rspec.IPCNamespace},
				{Type: rspec.UTSNamespace},
			},
		},
	}

	for _, v := range svc.Volumes {
		mount, err := o.translateVolumeMount(stackName, v)
		if err != nil {
			return nil, err
		}
		spec.Mounts = append(spec.Mounts, mount)
	}

	return spec, nil
}

// translateVolumeMount parses a compose volumes[] entry
// "source:target[:mode]" into an OCI mount, per spec §4.11 step 2: a
// source that does not start with '/' or '.' is a named volume, resolved (and created
// if absent) under <root>/volumes/<stack>_<name>; anything else is a bind
// mount from that host path.
func (o *Orchestrator) translateVolumeMount(stackName, entry string) (rspec.Mount, error) {
	parts := strings.Split(entry, ":")
	if len(parts) < 2 {
		return rspec.Mount{}, bockerr.New("orchestrator", bockerr.Config,
			"volume entry missing target: "+entry, nil)
	}

	source, target := parts[0], parts[1]
	options := []string{"bind"}
	if len(parts) == 3 && parts[2] == "ro" {
		options = append(options, "ro")
	}

	if name, ok := namedVolume(stackName, entry); ok {
		if _, err := o.volumes.Create(name, nil); err != nil {
			return rspec.Mount{}, err
		}
		source = o.volumes.Source(name)
	}

	return rspec.Mount{
		Destination: target,
		Source:      source,
		Type:        "bind",
		Options:     options,
	}, nil
}
