package tools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

const testCreated = "2024-06-15T12:00:00+00:00"

// fakeAPI is an in-memory stand-in for the Hetzner Cloud API, served over
// httptest and driven through the real SDK. It records every request as
// "METHOD /path" so tests can assert which calls were made.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server
	mux *http.ServeMux

	mu        sync.Mutex
	calls     map[string]int
	queries   map[string]string
	bodies    map[string]map[string]any
	failures  map[string]apiFailure
	servers   map[int64]map[string]any
	volumes   map[int64]map[string]any
	firewalls map[int64]map[string]any
	sshKeys   map[int64]map[string]any

	// selectors maps a label selector to the IDs of the servers it matches.
	selectors map[string][]int64
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:         t,
		mux:       http.NewServeMux(),
		calls:     make(map[string]int),
		queries:   make(map[string]string),
		failures:  make(map[string]apiFailure),
		bodies:    make(map[string]map[string]any),
		servers:   make(map[int64]map[string]any),
		volumes:   make(map[int64]map[string]any),
		firewalls: make(map[int64]map[string]any),
		sshKeys:   make(map[int64]map[string]any),
		selectors: make(map[string][]int64),
	}
	f.routes()
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

// client returns a client pointed at the fake with retries disabled.
func (f *fakeAPI) client() *hetzner.Client {
	return hetzner.New("test-token", hcloud.WithEndpoint(f.srv.URL))
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	var body map[string]any
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	f.calls[key]++
	f.queries[key] = r.URL.RawQuery
	if body != nil {
		f.bodies[key] = body
	}
	failure, failing := f.failures[key]
	f.mu.Unlock()

	if failing {
		apiError(w, failure.status, failure.code, failure.message)
		return
	}
	f.mux.ServeHTTP(w, r)
}

type apiFailure struct {
	status  int
	code    string
	message string
}

// fail makes every request matching key return the given API error.
func (f *fakeAPI) fail(key string, status int, code, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = apiFailure{status: status, code: code, message: message}
}

func (f *fakeAPI) query(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[key]
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) body(key string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

// mutations counts every non-GET request.
func (f *fakeAPI) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key, c := range f.calls {
		if len(key) < 4 || key[:4] != "GET " {
			n += c
		}
	}
	return n
}

func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func apiError(w http.ResponseWriter, statusCode int, code, message string) {
	jsonResponse(w, statusCode, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func pageMeta(n int) map[string]any {
	return map[string]any{
		"pagination": map[string]any{
			"page":          1,
			"per_page":      50,
			"previous_page": nil,
			"next_page":     nil,
			"last_page":     1,
			"total_entries": n,
		},
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func action(id int64, command string) map[string]any {
	return map[string]any{
		"id":        id,
		"command":   command,
		"status":    "running",
		"progress":  0,
		"started":   testCreated,
		"finished":  nil,
		"resources": []any{},
		"error":     nil,
	}
}

var (
	locationFSN1 = map[string]any{
		"id": 1, "name": "fsn1", "description": "Falkenstein DC Park 1", "country": "DE",
		"city": "Falkenstein", "latitude": 50.47612, "longitude": 12.370071, "network_zone": "eu-central",
	}
	locationNBG1 = map[string]any{
		"id": 2, "name": "nbg1", "description": "Nuremberg DC Park 1", "country": "DE",
		"city": "Nuremberg", "latitude": 49.452102, "longitude": 11.076665, "network_zone": "eu-central",
	}
	serverTypeCX22 = map[string]any{
		"id": 104, "name": "cx22", "description": "CX22", "cores": 2, "memory": 4.0, "disk": 40,
		"storage_type": "local", "cpu_type": "shared", "architecture": "x86",
		"prices": []any{
			map[string]any{
				"location":      "fsn1",
				"price_hourly":  map[string]any{"net": "0.0060", "gross": "0.0071"},
				"price_monthly": map[string]any{"net": "3.7900", "gross": "4.5101"},
			},
		},
	}
	serverTypeCAX11 = map[string]any{
		"id": 45, "name": "cax11", "description": "CAX11", "cores": 2, "memory": 4.0, "disk": 40,
		"storage_type": "local", "cpu_type": "shared", "architecture": "arm", "prices": []any{},
	}
	imageUbuntuX86 = map[string]any{
		"id": 161547269, "name": "ubuntu-24.04", "type": "system", "status": "available",
		"description": "Ubuntu 24.04", "disk_size": 5, "created": testCreated,
		"os_flavor": "ubuntu", "os_version": "24.04", "architecture": "x86", "rapid_deploy": true,
	}
	imageUbuntuARM = map[string]any{
		"id": 161547270, "name": "ubuntu-24.04", "type": "system", "status": "available",
		"description": "Ubuntu 24.04", "disk_size": 5, "created": testCreated,
		"os_flavor": "ubuntu", "os_version": "24.04", "architecture": "arm", "rapid_deploy": true,
	}
	imageDebianX86 = map[string]any{
		"id": 114690387, "name": "debian-12", "type": "system", "status": "available",
		"description": "Debian 12", "disk_size": 5, "created": testCreated,
		"os_flavor": "debian", "os_version": "12", "architecture": "x86", "rapid_deploy": true,
	}
)

func (f *fakeAPI) addServer(id int64, name string, labels map[string]string) map[string]any {
	s := map[string]any{
		"id":      id,
		"name":    name,
		"status":  "running",
		"created": testCreated,
		"public_net": map[string]any{
			"ipv4": map[string]any{"id": id, "ip": "203.0.113.10", "blocked": false, "dns_ptr": "static.example.com"},
			"ipv6": map[string]any{"id": id, "ip": "2001:db8::/64", "blocked": false, "dns_ptr": []any{}},
		},
		"private_net": []any{},
		"server_type": serverTypeCX22,
		"datacenter": map[string]any{
			"id": 1, "name": "fsn1-dc14", "description": "Falkenstein 1 virtual DC 14",
			"location": locationFSN1,
		},
		"image":            imageUbuntuX86,
		"rescue_enabled":   false,
		"locked":           false,
		"backup_window":    nil,
		"outgoing_traffic": 123,
		"ingoing_traffic":  456,
		"included_traffic": 21990232555520,
		"protection":       map[string]any{"delete": false, "rebuild": false},
		"labels":           labels,
		"volumes":          []any{},
	}
	f.servers[id] = s
	return s
}

func (f *fakeAPI) addVolume(id int64, name string, size int, server *int64) map[string]any {
	v := map[string]any{
		"id":           id,
		"name":         name,
		"status":       "available",
		"size":         size,
		"location":     locationFSN1,
		"linux_device": fmt.Sprintf("/dev/disk/by-id/scsi-0HC_Volume_%d", id),
		"protection":   map[string]any{"delete": false},
		"labels":       map[string]any{},
		"format":       "ext4",
		"created":      testCreated,
	}
	if server != nil {
		v["server"] = *server
	} else {
		v["server"] = nil
	}
	f.volumes[id] = v
	return v
}

func (f *fakeAPI) addFirewall(id int64, name string, appliedTo []any) map[string]any {
	fw := map[string]any{
		"id":      id,
		"name":    name,
		"labels":  map[string]any{},
		"created": testCreated,
		"rules": []any{
			map[string]any{
				"direction":       "in",
				"protocol":        "tcp",
				"port":            "22",
				"source_ips":      []any{"0.0.0.0/0", "::/0"},
				"destination_ips": []any{},
				"description":     nil,
			},
		},
		"applied_to": appliedTo,
	}
	f.firewalls[id] = fw
	return fw
}

func (f *fakeAPI) addSSHKey(id int64, name string) map[string]any {
	k := map[string]any{
		"id":          id,
		"name":        name,
		"fingerprint": "b7:2f:30:a0:2f:6c:58:6c:21:04:58:61:ba:06:3b:2f",
		"public_key":  "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAItest " + name,
		"labels":      map[string]any{},
		"created":     testCreated,
	}
	f.sshKeys[id] = k
	return k
}

func listOf(items map[int64]map[string]any) []any {
	out := make([]any, 0, len(items))
	for _, v := range items {
		out = append(out, v)
	}
	return out
}

// getByID registers "GET /<collection>/{id}" returning {<singular>: item}.
func (f *fakeAPI) getByID(collection, singular string, store map[int64]map[string]any) {
	f.mux.HandleFunc("GET /"+collection+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		item, found := store[id]
		if !ok || !found {
			apiError(w, http.StatusNotFound, "not_found", singular+" not found")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{singular: item})
	})
}

// listByName registers "GET /<collection>" with optional name filtering.
func (f *fakeAPI) listByName(collection string, items func() []any) {
	f.mux.HandleFunc("GET /"+collection, func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		arch := r.URL.Query().Get("architecture")
		var out []any
		for _, it := range items() {
			m := it.(map[string]any)
			if name != "" && m["name"] != name {
				continue
			}
			if arch != "" && m["architecture"] != nil && m["architecture"] != arch {
				continue
			}
			out = append(out, it)
		}
		if out == nil {
			out = []any{}
		}
		jsonResponse(w, http.StatusOK, map[string]any{collection: out, "meta": pageMeta(len(out))})
	})
}

func (f *fakeAPI) routes() {
	f.getByID("servers", "server", f.servers)
	f.getByID("volumes", "volume", f.volumes)
	f.getByID("firewalls", "firewall", f.firewalls)
	f.getByID("ssh_keys", "ssh_key", f.sshKeys)

	f.mux.HandleFunc("GET /servers", func(w http.ResponseWriter, r *http.Request) {
		out := []any{}
		if sel := r.URL.Query().Get("label_selector"); sel != "" {
			for _, id := range f.selectors[sel] {
				out = append(out, f.servers[id])
			}
		} else {
			out = listOf(f.servers)
		}
		jsonResponse(w, http.StatusOK, map[string]any{"servers": out, "meta": pageMeta(len(out))})
	})
	f.listByName("volumes", func() []any { return listOf(f.volumes) })
	f.listByName("firewalls", func() []any { return listOf(f.firewalls) })
	f.listByName("ssh_keys", func() []any { return listOf(f.sshKeys) })
	f.listByName("images", func() []any { return []any{imageUbuntuX86, imageUbuntuARM, imageDebianX86} })
	f.listByName("server_types", func() []any { return []any{serverTypeCX22, serverTypeCAX11} })
	f.listByName("locations", func() []any { return []any{locationFSN1, locationNBG1} })

	f.mux.HandleFunc("POST /servers", func(w http.ResponseWriter, r *http.Request) {
		s := f.addServer(900, "created", map[string]string{})
		jsonResponse(w, http.StatusCreated, map[string]any{
			"server":        s,
			"action":        action(1000, "create_server"),
			"next_actions":  []any{action(1001, "start_server")},
			"root_password": "YItygq1v3GYjjMomLaKc",
		})
	})
	f.mux.HandleFunc("DELETE /servers/{id}", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"action": action(1002, "delete_server")})
	})
	f.mux.HandleFunc("POST /servers/{id}/actions/{command}", func(w http.ResponseWriter, r *http.Request) {
		commands := map[string]string{"poweron": "start_server", "poweroff": "stop_server", "reboot": "reboot_server"}
		jsonResponse(w, http.StatusCreated, map[string]any{"action": action(1003, commands[r.PathValue("command")])})
	})

	f.mux.HandleFunc("POST /firewalls", func(w http.ResponseWriter, r *http.Request) {
		fw := f.addFirewall(500, "created-fw", []any{})
		jsonResponse(w, http.StatusCreated, map[string]any{
			"firewall": fw,
			"actions":  []any{action(1010, "apply_firewall")},
		})
	})
	f.mux.HandleFunc("PUT /firewalls/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r)
		fw := f.firewalls[id]
		if name, ok := f.body("PUT " + r.URL.Path)["name"].(string); ok && name != "" {
			fw["name"] = name
		}
		jsonResponse(w, http.StatusOK, map[string]any{"firewall": fw})
	})
	f.mux.HandleFunc("DELETE /firewalls/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	f.mux.HandleFunc("POST /firewalls/{id}/actions/{command}", func(w http.ResponseWriter, r *http.Request) {
		command := r.PathValue("command")
		if command == "set_rules" {
			id, _ := pathID(r)
			if fw, ok := f.firewalls[id]; ok {
				fw["rules"] = f.body("POST " + r.URL.Path)["rules"]
			}
		}
		jsonResponse(w, http.StatusCreated, map[string]any{"actions": []any{action(1011, command)}})
	})

	f.mux.HandleFunc("POST /volumes", func(w http.ResponseWriter, r *http.Request) {
		v := f.addVolume(700, "created-vol", 10, nil)
		jsonResponse(w, http.StatusCreated, map[string]any{
			"volume":       v,
			"action":       action(1020, "create_volume"),
			"next_actions": []any{},
		})
	})
	f.mux.HandleFunc("DELETE /volumes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	f.mux.HandleFunc("POST /volumes/{id}/actions/{command}", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, map[string]any{"action": action(1021, r.PathValue("command")+"_volume")})
	})

	f.mux.HandleFunc("POST /ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		k := f.addSSHKey(300, "created-key")
		jsonResponse(w, http.StatusCreated, map[string]any{"ssh_key": k})
	})
	f.mux.HandleFunc("PUT /ssh_keys/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r)
		k := f.sshKeys[id]
		if name, ok := f.body("PUT " + r.URL.Path)["name"].(string); ok {
			k["name"] = name
		}
		jsonResponse(w, http.StatusOK, map[string]any{"ssh_key": k})
	})
	f.mux.HandleFunc("DELETE /ssh_keys/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
