package tools

import "nathanbeddoewebdev/hcloud-mcp/internal/records"

// Result shapes. Each tool returns exactly one of these.

type ServersResult struct {
	Servers []*records.Server `json:"servers"`
}

type ServerResult struct {
	Server *records.Server `json:"server"`
}

// CreateServerResult carries the root password only when the server was
// created without SSH keys.
type CreateServerResult struct {
	Server       *records.Server `json:"server"`
	Action       *records.Action `json:"action"`
	RootPassword *string         `json:"root_password"`
}

type ActionResult struct {
	Success bool            `json:"success"`
	Action  *records.Action `json:"action"`
}

type ActionsResult struct {
	Success bool              `json:"success"`
	Actions []*records.Action `json:"actions"`
}

type SuccessResult struct {
	Success bool `json:"success"`
}

type ImagesResult struct {
	Images []*records.Image `json:"images"`
}

type ServerTypesResult struct {
	ServerTypes []*records.ServerType `json:"server_types"`
}

type LocationsResult struct {
	Locations []*records.Location `json:"locations"`
}

type FirewallsResult struct {
	Firewalls []*records.Firewall `json:"firewalls"`
}

type FirewallResult struct {
	Firewall *records.Firewall `json:"firewall"`
}

type CreateFirewallResult struct {
	Firewall *records.Firewall `json:"firewall"`
	Actions  []*records.Action `json:"actions"`
}

type VolumesResult struct {
	Volumes []*records.Volume `json:"volumes"`
}

type VolumeResult struct {
	Volume *records.Volume `json:"volume"`
}

type CreateVolumeResult struct {
	Volume      *records.Volume   `json:"volume"`
	Action      *records.Action   `json:"action"`
	NextActions []*records.Action `json:"next_actions"`
}

type SSHKeysResult struct {
	SSHKeys []*records.SSHKey `json:"ssh_keys"`
}

type SSHKeyResult struct {
	SSHKey *records.SSHKey `json:"ssh_key"`
}
