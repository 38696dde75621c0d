package records

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

// Volume is the serializable form of a block storage volume.
type Volume struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Size        int               `json:"size"`
	Location    *string           `json:"location"`
	Server      *int64            `json:"server"`
	LinuxDevice *string           `json:"linux_device"`
	Protection  VolumeProtection  `json:"protection"`
	Labels      map[string]string `json:"labels"`
	Format      *string           `json:"format"`
	Created     *string           `json:"created"`
	Status      string            `json:"status"`
}

type VolumeProtection struct {
	Delete bool `json:"delete"`
}

// FromVolume converts an hcloud volume. Server is the attached server's
// ID, or null when the volume is detached.
func FromVolume(v *hcloud.Volume) *Volume {
	if v == nil {
		return nil
	}

	out := &Volume{
		ID:          v.ID,
		Name:        v.Name,
		Size:        v.Size,
		LinuxDevice: optional(v.LinuxDevice),
		Protection:  VolumeProtection{Delete: v.Protection.Delete},
		Labels:      labels(v.Labels),
		Format:      v.Format,
		Created:     timestamp(v.Created),
		Status:      string(v.Status),
	}
	if v.Location != nil {
		out.Location = &v.Location.Name
	}
	if v.Server != nil {
		id := v.Server.ID
		out.Server = &id
	}
	return out
}

// FromVolumes converts a list of volumes, skipping nil entries.
func FromVolumes(volumes []*hcloud.Volume) []*Volume {
	out := make([]*Volume, 0, len(volumes))
	for _, v := range volumes {
		if r := FromVolume(v); r != nil {
			out = append(out, r)
		}
	}
	return out
}
