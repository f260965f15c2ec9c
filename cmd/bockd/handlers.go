package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/container"
	"github.com/fishmindlab360/bock/orchestrator"
)

var errMissingID = fmt.Errorf("missing id")

func (d *Daemon) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "pong"})
}

func (d *Daemon) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
	go d.Shutdown(r.Context())
}

func (d *Daemon) handleContainersList(w http.ResponseWriter, r *http.Request) {
	states, err := container.List(d.Paths)
	if err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, states)
}

type containerIDArgs struct {
	ID string `json:"id"`
}

func decodeArgs(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (d *Daemon) handleContainerState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args containerIDArgs
	if err := decodeArgs(r, &args); err != nil || args.ID == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	c, err := container.Load(d.Paths, args.ID)
	if err != nil {
		writeJSONError(w, err, http.StatusNotFound)
		return
	}
	writeJSON(w, c.State().ToRuntimeState())
}

func (d *Daemon) handleContainerKill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args struct {
		ID     string `json:"id"`
		Signal int    `json:"signal"`
	}
	if err := decodeArgs(r, &args); err != nil || args.ID == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	sig := unix.SIGTERM
	if args.Signal != 0 {
		sig = unix.Signal(args.Signal)
	}
	c, err := container.Load(d.Paths, args.ID)
	if err != nil {
		writeJSONError(w, err, http.StatusNotFound)
		return
	}
	if err := c.Kill(sig); err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Daemon) handleContainerDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args struct {
		ID    string `json:"id"`
		Force bool   `json:"force"`
	}
	if err := decodeArgs(r, &args); err != nil || args.ID == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	c, err := container.Load(d.Paths, args.ID)
	if err != nil {
		writeJSONError(w, err, http.StatusNotFound)
		return
	}
	if err := c.Delete(r.Context(), args.Force, container.Hooks{}); err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

type stackArgs struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (d *Daemon) handleStackUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args stackArgs
	if err := decodeArgs(r, &args); err != nil || args.Path == "" || args.Name == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	stack, err := orchestrator.LoadStack(args.Path, args.Name)
	if err != nil {
		writeJSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := d.orch.Up(r.Context(), stack); err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Daemon) handleStackDown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args struct {
		stackArgs
		RemoveVolumes bool `json:"removeVolumes"`
	}
	if err := decodeArgs(r, &args); err != nil || args.Path == "" || args.Name == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	stack, err := orchestrator.LoadStack(args.Path, args.Name)
	if err != nil {
		writeJSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := d.orch.Down(r.Context(), stack, args.RemoveVolumes); err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Daemon) handleStackScale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args struct {
		stackArgs
		Service string `json:"service"`
		Desired int    `json:"desired"`
	}
	if err := decodeArgs(r, &args); err != nil || args.Path == "" || args.Name == "" || args.Service == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	stack, err := orchestrator.LoadStack(args.Path, args.Name)
	if err != nil {
		writeJSONError(w, err, http.StatusBadRequest)
		return
	}
	if err := d.orch.Scale(r.Context(), stack, args.Service, args.Desired); err != nil {
		writeJSONError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (d *Daemon) handleStackService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var args struct {
		Service string `json:"service"`
	}
	if err := decodeArgs(r, &args); err != nil || args.Service == "" {
		writeJSONError(w, errMissingID, http.StatusBadRequest)
		return
	}
	replicas, ok := d.orch.Service(args.Service)
	if !ok {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	writeJSON(w, replicas)
}
