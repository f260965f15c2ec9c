// Package registry implements the bearer-token handshake sketch from
// spec §6: on a 401 with a Www-Authenticate header, fetch a token and
// return the Authorization header value to retry with. It is a
// boundary-only helper, not a registry client — no manifest/blob
// fetching, since registry pull beyond this handshake is out of scope.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fishmindlab360/bock/bockerr"
)

type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Authenticate parses a 401 response's Www-Authenticate header (the
// "Bearer realm=\"…\",service=\"…\",scope=\"…\"" form every OCI-distribution
// registry sends), fetches a token from realm, and returns the
// Authorization header value to retry the original request with.
// repository seeds a "repository:<repository>:pull" scope when the
// challenge omits one, per spec §6.
func Authenticate(ctx context.Context, client *http.Client, repository, wwwAuthenticate string) (string, error) {
	params, err := parseChallenge(wwwAuthenticate)
	if err != nil {
		return "", err
	}

	realm, ok := params["realm"]
	if !ok {
		return "", bockerr.New("registry", bockerr.Config, "missing realm in Www-Authenticate", nil)
	}
	service := params["service"]
	scope := params["scope"]
	if scope == "" {
		scope = fmt.Sprintf("repository:%s:pull", repository)
	}

	q := url.Values{}
	if service != "" {
		q.Set("service", service)
	}
	q.Set("scope", scope)
	tokenURL := realm
	if strings.Contains(realm, "?") {
		tokenURL += "&" + q.Encode()
	} else {
		tokenURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", bockerr.New("registry", bockerr.Io, "build token request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", bockerr.New("registry", bockerr.Io, "request token from "+realm, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", bockerr.New("registry", bockerr.PermissionDenied,
			fmt.Sprintf("token endpoint returned %d", resp.StatusCode), nil)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", bockerr.New("registry", bockerr.Serialization, "parse token response", err)
	}
	token := tr.Token
	if token == "" {
		token = tr.AccessToken
	}
	if token == "" {
		return "", bockerr.New("registry", bockerr.Config, "token response had no token or access_token", nil)
	}

	return "Bearer " + token, nil
}

// parseChallenge splits a "Bearer k=\"v\",k2=\"v2\"" header into its
// key/value pairs, per spec §6's handshake sketch.
func parseChallenge(header string) (map[string]string, error) {
	rest, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, bockerr.New("registry", bockerr.Config, "Www-Authenticate is not a Bearer challenge", nil)
	}

	params := make(map[string]string)
	for _, part := range strings.Split(rest, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[kv[0]] = strings.Trim(kv[1], `"`)
	}
	return params, nil
}
