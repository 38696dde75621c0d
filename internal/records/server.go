package records

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

// Server is the serializable form of a server.
type Server struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Status          string            `json:"status"`
	Created         *string           `json:"created"`
	ServerType      *string           `json:"server_type"`
	Image           *string           `json:"image"`
	Datacenter      *string           `json:"datacenter"`
	Location        *string           `json:"location"`
	PublicNet       PublicNet         `json:"public_net"`
	IncludedTraffic uint64            `json:"included_traffic"`
	OutgoingTraffic uint64            `json:"outgoing_traffic"`
	IngoingTraffic  uint64            `json:"ingoing_traffic"`
	BackupWindow    *string           `json:"backup_window"`
	RescueEnabled   bool              `json:"rescue_enabled"`
	Locked          bool              `json:"locked"`
	Protection      ServerProtection  `json:"protection"`
	Labels          map[string]string `json:"labels"`
	Volumes         []int64           `json:"volumes"`
}

// PublicNet holds the primary public addresses of a server.
type PublicNet struct {
	IPv4 *string `json:"ipv4"`
	IPv6 *string `json:"ipv6"`
}

type ServerProtection struct {
	Delete  bool `json:"delete"`
	Rebuild bool `json:"rebuild"`
}

// FromServer converts an hcloud server.
func FromServer(s *hcloud.Server) *Server {
	if s == nil {
		return nil
	}

	out := &Server{
		ID:              s.ID,
		Name:            s.Name,
		Status:          string(s.Status),
		Created:         timestamp(s.Created),
		IncludedTraffic: s.IncludedTraffic,
		OutgoingTraffic: s.OutgoingTraffic,
		IngoingTraffic:  s.IngoingTraffic,
		BackupWindow:    optional(s.BackupWindow),
		RescueEnabled:   s.RescueEnabled,
		Locked:          s.Locked,
		Protection: ServerProtection{
			Delete:  s.Protection.Delete,
			Rebuild: s.Protection.Rebuild,
		},
		Labels:  labels(s.Labels),
		Volumes: make([]int64, 0, len(s.Volumes)),
	}

	if s.ServerType != nil {
		out.ServerType = &s.ServerType.Name
	}
	if s.Image != nil {
		out.Image = optional(s.Image.Name)
	}
	if s.Datacenter != nil {
		out.Datacenter = &s.Datacenter.Name
		if s.Datacenter.Location != nil {
			out.Location = &s.Datacenter.Location.Name
		}
	}

	if !s.PublicNet.IPv4.IsUnspecified() {
		ip := s.PublicNet.IPv4.IP.String()
		out.PublicNet.IPv4 = &ip
	}
	if !s.PublicNet.IPv6.IsUnspecified() {
		var ip string
		if s.PublicNet.IPv6.Network != nil {
			ip = s.PublicNet.IPv6.Network.String()
		} else {
			ip = s.PublicNet.IPv6.IP.String()
		}
		out.PublicNet.IPv6 = &ip
	}

	for _, v := range s.Volumes {
		if v != nil {
			out.Volumes = append(out.Volumes, v.ID)
		}
	}

	return out
}

// FromServers converts a list of servers, skipping nil entries.
func FromServers(servers []*hcloud.Server) []*Server {
	out := make([]*Server, 0, len(servers))
	for _, s := range servers {
		if r := FromServer(s); r != nil {
			out = append(out, r)
		}
	}
	return out
}
