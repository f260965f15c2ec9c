//go:build linux

package orchestrator

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fishmindlab360/bock/container"
)

// CheckHealth runs every service's declared healthcheck against its
// current replicas, per spec §4.11: cmd[] checks exec into the container
// and require exit code 0, http checks GET the container's address from
// the host and require a 2xx. Each replica gets its own verdict: a check
// that errors, rather than failing cleanly, marks that replica unhealthy
// just as a failed check does. An unhealthy verdict triggers no restart.
func (o *Orchestrator) CheckHealth(ctx context.Context, stack *Stack) {
	for name, svc := range stack.Services {
		if svc.Healthcheck == nil {
			continue
		}
		state := o.serviceState(name)
		for _, replica := range state.snapshot() {
			healthy, err := o.checkReplica(ctx, replica, *svc.Healthcheck)
			if err != nil {
				healthy = false
			}
			o.setReplicaHealth(name, replica.Name, healthy)
		}
	}
}

func (o *Orchestrator) setReplicaHealth(service, replicaName string, healthy bool) {
	state := o.serviceState(service)
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, r := range state.Replicas {
		if r.Name == replicaName {
			r.Healthy = healthy
		}
	}
}

func (o *Orchestrator) checkReplica(ctx context.Context, replica ReplicaStatus, check HealthCheck) (bool, error) {
	timeout := 5 * time.Second
	if check.Timeout != "" {
		if d, err := time.ParseDuration(check.Timeout); err == nil {
			timeout = d
		}
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if check.HTTP != "" {
		return o.checkHTTP(checkCtx, replica, check.HTTP)
	}
	if len(check.Cmd) > 0 {
		return o.checkCmd(checkCtx, replica, check.Cmd)
	}
	return true, nil
}

// checkHTTP substitutes replica's allocated IP for the URL's host, keeping
// any port and path, per spec §4.11.
func (o *Orchestrator) checkHTTP(ctx context.Context, replica ReplicaStatus, rawURL string) (bool, error) {
	url := substituteHost(rawURL, replica.IP)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func substituteHost(rawURL, ip string) string {
	idx := strings.Index(rawURL, "://")
	if idx < 0 || ip == "" {
		return rawURL
	}
	rest := rawURL[idx+3:]
	slash := strings.IndexByte(rest, '/')
	authority, path := rest, ""
	if slash >= 0 {
		authority, path = rest[:slash], rest[slash:]
	}
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		authority = authority[at+1:]
	}
	port := ""
	if colon := strings.LastIndexByte(authority, ':'); colon >= 0 && !strings.Contains(authority[colon:], "]") {
		port = authority[colon:]
	}
	return rawURL[:idx+3] + ip + port + path
}

// checkCmd execs check.Cmd inside the replica's namespaces and treats exit
// code 0 as healthy, per spec §4.11.
func (o *Orchestrator) checkCmd(ctx context.Context, replica ReplicaStatus, cmd []string) (bool, error) {
	c, err := container.Load(o.paths, replica.Name)
	if err != nil {
		return false, err
	}
	if !c.Probe() {
		return false, nil
	}
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return false, err
	}
	defer devnull.Close()

	code, err := c.Exec(ctx, container.ExecOptions{
		Args:   cmd,
		Env:    []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"},
		Stdin:  devnull,
		Stdout: devnull,
		Stderr: devnull,
	})
	if err != nil {
		return false, err
	}
	return code == 0, nil
}
