package orchestrator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStackParsesListDependsOn(t *testing.T) {
	path := writeCompose(t, `
services:
  web:
    image: app:latest
    depends_on:
      - db
  db:
    image: postgres:16
`)
	s, err := LoadStack(path, "mystack")
	if err != nil {
		t.Fatalf("LoadStack: %v", err)
	}
	if s.Name != "mystack" {
		t.Errorf("Name = %q", s.Name)
	}
	web, ok := s.Services["web"]
	if !ok {
		t.Fatal("missing web service")
	}
	if len(web.DependsOn.Names) != 1 || web.DependsOn.Names[0] != "db" {
		t.Errorf("DependsOn.Names = %v", web.DependsOn.Names)
	}
}

func TestLoadStackParsesMapDependsOnWithCondition(t *testing.T) {
	path := writeCompose(t, `
services:
  web:
    image: app:latest
    depends_on:
      db:
        condition: service_healthy
  db:
    image: postgres:16
`)
	s, err := LoadStack(path, "mystack")
	if err != nil {
		t.Fatalf("LoadStack: %v", err)
	}
	web := s.Services["web"]
	if len(web.DependsOn.Names) != 1 || web.DependsOn.Names[0] != "db" {
		t.Fatalf("DependsOn.Names = %v", web.DependsOn.Names)
	}
	if web.DependsOn.Conditions["db"] != "service_healthy" {
		t.Errorf("condition = %q", web.DependsOn.Conditions["db"])
	}
}

func TestServiceReplicaCountDefaultsToOne(t *testing.T) {
	svc := Service{}
	if svc.replicaCount() != 1 {
		t.Errorf("replicaCount() = %d, want 1", svc.replicaCount())
	}
	svc.Replicas = 3
	if svc.replicaCount() != 3 {
		t.Errorf("replicaCount() = %d, want 3", svc.replicaCount())
	}
}

func writeCompose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compose.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write compose file: %v", err)
	}
	return path
}
