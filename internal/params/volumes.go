package params

import (
	"strings"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"
)

type VolumeID struct {
	VolumeID int64 `json:"volume_id"`
}

func (p *VolumeID) Validate() error { return requireID("volume_id", p.VolumeID) }

// CreateVolume describes a new volume. Exactly one of Location or Server
// decides where the volume is placed.
type CreateVolume struct {
	Name      string            `json:"name"`
	Size      int               `json:"size"`
	Location  string            `json:"location"`
	Server    int64             `json:"server"`
	Automount bool              `json:"automount"`
	Format    string            `json:"format"`
	Labels    map[string]string `json:"labels"`
}

func (p *CreateVolume) Validate() error {
	if err := requireString("name", p.Name); err != nil {
		return err
	}
	if p.Size <= 0 {
		return domain.Invalidf("size is required and must be greater than 0")
	}
	if p.Server < 0 {
		return domain.Invalidf("server must be a positive integer")
	}
	switch {
	case strings.TrimSpace(p.Location) == "" && p.Server == 0:
		return domain.Invalidf("either location or server is required")
	case strings.TrimSpace(p.Location) != "" && p.Server != 0:
		return domain.Invalidf("location and server cannot both be set: a volume is created in the server's location")
	}
	if p.Automount && p.Format == "" {
		return domain.Invalidf("format is required when automount is true")
	}
	return nil
}

type AttachVolume struct {
	VolumeID  int64 `json:"volume_id"`
	ServerID  int64 `json:"server_id"`
	Automount bool  `json:"automount"`
}

func (p *AttachVolume) Validate() error {
	if err := requireID("volume_id", p.VolumeID); err != nil {
		return err
	}
	return requireID("server_id", p.ServerID)
}

// ResizeVolume carries the requested size. Growth relative to the current
// size is checked against the live volume, not here.
type ResizeVolume struct {
	VolumeID int64 `json:"volume_id"`
	Size     int   `json:"size"`
}

func (p *ResizeVolume) Validate() error {
	if err := requireID("volume_id", p.VolumeID); err != nil {
		return err
	}
	if p.Size <= 0 {
		return domain.Invalidf("size is required and must be greater than 0")
	}
	return nil
}
