// Package credential implements the CredentialStore dynamic-dispatch
// point from spec §9: registry authentication credentials behind a
// {Get, Store, Delete, List, Clear} interface, with a Docker
// config.json-compatible file backend and an environment-variable
// fallback, per SPEC_FULL.md's supplemented features.
package credential

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fishmindlab360/bock/bockerr"
)

// Credential is one registry's stored auth, the same shape Docker's
// config.json "auths" entries use.
type Credential struct {
	Registry      string `json:"-"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	IdentityToken string `json:"identitytoken,omitempty"`
	Email         string `json:"email,omitempty"`
}

// ToDockerAuth encodes username:password as the base64 string Docker's
// config.json stores under "auth".
func (c Credential) ToDockerAuth() string {
	s := c.Username
	if c.Password != "" {
		s = c.Username + ":" + c.Password
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// FromDockerAuth decodes a config.json "auth" value into a Credential for
// registry.
func FromDockerAuth(registry, auth string) (Credential, error) {
	decoded, err := base64.StdEncoding.DecodeString(auth)
	if err != nil {
		return Credential{}, bockerr.New("credential", bockerr.Serialization, "invalid base64 auth", err)
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credential{Registry: registry, Username: string(decoded)}, nil
	}
	return Credential{Registry: registry, Username: user, Password: pass}, nil
}

// Store is the backend-agnostic credential interface, per spec §9's
// dynamic-dispatch-point guidance.
type Store interface {
	Get(registry string) (*Credential, error)
	Store(c Credential) error
	Delete(registry string) error
	List() ([]string, error)
	Clear() error
}

// dockerConfig mirrors the subset of ~/.docker/config.json this module
// reads and writes.
type dockerConfig struct {
	Auths map[string]struct {
		Auth string `json:"auth,omitempty"`
	} `json:"auths"`
}

// FileStore persists credentials to a Docker config.json-shaped file on
// disk, the format every registry tool already expects.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore backed by path (typically
// ~/.docker/config.json or a bock-specific location under paths.Root).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) load() (dockerConfig, error) {
	var cfg dockerConfig
	cfg.Auths = make(map[string]struct {
		Auth string `json:"auth,omitempty"`
	})
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, bockerr.New("credential", bockerr.Io, "read "+f.path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, bockerr.New("credential", bockerr.Serialization, "parse "+f.path, err)
	}
	if cfg.Auths == nil {
		cfg.Auths = make(map[string]struct {
			Auth string `json:"auth,omitempty"`
		})
	}
	return cfg, nil
}

func (f *FileStore) save(cfg dockerConfig) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return bockerr.New("credential", bockerr.Io, "mkdir for "+f.path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return bockerr.New("credential", bockerr.Serialization, "marshal "+f.path, err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return bockerr.New("credential", bockerr.Io, "write "+f.path, err)
	}
	return nil
}

func (f *FileStore) Get(registry string) (*Credential, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	entry, ok := cfg.Auths[registry]
	if !ok {
		return nil, nil
	}
	c, err := FromDockerAuth(registry, entry.Auth)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *FileStore) Store(c Credential) error {
	cfg, err := f.load()
	if err != nil {
		return err
	}
	cfg.Auths[c.Registry] = struct {
		Auth string `json:"auth,omitempty"`
	}{Auth: c.ToDockerAuth()}
	return f.save(cfg)
}

func (f *FileStore) Delete(registry string) error {
	cfg, err := f.load()
	if err != nil {
		return err
	}
	delete(cfg.Auths, registry)
	return f.save(cfg)
}

func (f *FileStore) List() ([]string, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cfg.Auths))
	for name := range cfg.Auths {
		names = append(names, name)
	}
	return names, nil
}

func (f *FileStore) Clear() error {
	return f.save(dockerConfig{Auths: make(map[string]struct {
		Auth string `json:"auth,omitempty"`
	})})
}

// EnvStore reads credentials from BOCK_REGISTRY_AUTH_<REGISTRY> env vars
// (value "user:pass"), a read-only fallback for CI-style secrets
// injection where writing a credentials file isn't wanted.
type EnvStore struct{}

func envKey(registry string) string {
	key := strings.ToUpper(registry)
	key = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, key)
	return "BOCK_REGISTRY_AUTH_" + key
}

func (EnvStore) Get(registry string) (*Credential, error) {
	v, ok := os.LookupEnv(envKey(registry))
	if !ok {
		return nil, nil
	}
	user, pass, _ := strings.Cut(v, ":")
	return &Credential{Registry: registry, Username: user, Password: pass}, nil
}

func (EnvStore) Store(Credential) error {
	return bockerr.New("credential", bockerr.Unsupported, "EnvStore is read-only", nil)
}

func (EnvStore) Delete(string) error {
	return bockerr.New("credential", bockerr.Unsupported, "EnvStore is read-only", nil)
}

func (EnvStore) List() ([]string, error) {
	var names []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "BOCK_REGISTRY_AUTH_") {
			names = append(names, strings.TrimPrefix(key, "BOCK_REGISTRY_AUTH_"))
		}
	}
	return names, nil
}

func (EnvStore) Clear() error {
	return bockerr.New("credential", bockerr.Unsupported, "EnvStore is read-only", nil)
}
