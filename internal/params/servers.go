package params

import (
	"bytes"
	"encoding/json"
	"strconv"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"
)

// DefaultLocation is used when create_server is called without a location.
const DefaultLocation = "nbg1"

// ServerID identifies a single server.
type ServerID struct {
	ServerID int64 `json:"server_id"`
}

func (p *ServerID) Validate() error { return requireID("server_id", p.ServerID) }

// CreateServer describes a new server. Image is a name or a numeric ID.
type CreateServer struct {
	Name       string      `json:"name"`
	ServerType string      `json:"server_type"`
	Image      ImageRef    `json:"image"`
	Location   string      `json:"location"`
	SSHKeys    []SSHKeyRef `json:"ssh_keys"`
}

func (p *CreateServer) Validate() error {
	if err := requireString("name", p.Name); err != nil {
		return err
	}
	if err := requireString("server_type", p.ServerType); err != nil {
		return err
	}
	if err := requireString("image", string(p.Image)); err != nil {
		return err
	}
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	return nil
}

// ImageRef is an image name, or an image ID given as a JSON number or a
// numeric string.
type ImageRef string

// ID returns the numeric image ID, if the reference is one.
func (r ImageRef) ID() (int64, bool) {
	id, err := strconv.ParseInt(string(r), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (r *ImageRef) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return domain.Invalidf("invalid image: %v", err)
	}
	switch t := v.(type) {
	case nil:
	case json.Number:
		*r = ImageRef(t.String())
	case string:
		*r = ImageRef(t)
	default:
		return domain.Invalidf("image must be a name or an ID, got %s", b)
	}
	return nil
}
