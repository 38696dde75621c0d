package records

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

// Firewall is the serializable form of a firewall.
type Firewall struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Rules     []FirewallRule      `json:"rules"`
	AppliedTo []FirewallAppliedTo `json:"applied_to"`
	Labels    map[string]string   `json:"labels"`
	Created   *string             `json:"created"`
}

// FirewallRule omits port, destination_ips and description when they are
// unset on the source rule.
type FirewallRule struct {
	Direction      string   `json:"direction"`
	Protocol       string   `json:"protocol"`
	SourceIPs      []string `json:"source_ips"`
	Port           *string  `json:"port,omitempty"`
	DestinationIPs []string `json:"destination_ips,omitempty"`
	Description    *string  `json:"description,omitempty"`
}

// FirewallAppliedTo is one target of a firewall. AppliedToResources lists
// the servers currently matched by a label selector target.
type FirewallAppliedTo struct {
	Type               string              `json:"type"`
	Server             *ServerRef          `json:"server,omitempty"`
	LabelSelector      *LabelSelector      `json:"label_selector,omitempty"`
	AppliedToResources []FirewallAppliedTo `json:"applied_to_resources,omitempty"`
}

// ServerRef identifies a server. Name is empty when only the ID is known.
type ServerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type LabelSelector struct {
	Selector string `json:"selector"`
}

// FromFirewall converts an hcloud firewall. matched maps a label selector
// to the servers it currently selects; selectors missing from the map are
// rendered without applied_to_resources.
func FromFirewall(fw *hcloud.Firewall, matched map[string][]*hcloud.Server) *Firewall {
	if fw == nil {
		return nil
	}

	out := &Firewall{
		ID:        fw.ID,
		Name:      fw.Name,
		Rules:     make([]FirewallRule, 0, len(fw.Rules)),
		AppliedTo: make([]FirewallAppliedTo, 0, len(fw.AppliedTo)),
		Labels:    labels(fw.Labels),
		Created:   timestamp(fw.Created),
	}

	for _, r := range fw.Rules {
		out.Rules = append(out.Rules, fromFirewallRule(r))
	}

	for _, res := range fw.AppliedTo {
		entry := FirewallAppliedTo{Type: string(res.Type)}
		if res.Server != nil {
			entry.Server = &ServerRef{ID: res.Server.ID}
		}
		if res.LabelSelector != nil {
			entry.LabelSelector = &LabelSelector{Selector: res.LabelSelector.Selector}
			for _, s := range matched[res.LabelSelector.Selector] {
				if s == nil {
					continue
				}
				entry.AppliedToResources = append(entry.AppliedToResources, FirewallAppliedTo{
					Type:   string(hcloud.FirewallResourceTypeServer),
					Server: &ServerRef{ID: s.ID, Name: s.Name},
				})
			}
		}
		out.AppliedTo = append(out.AppliedTo, entry)
	}

	return out
}

// FromFirewalls converts a list of firewalls sharing one selector match map.
func FromFirewalls(firewalls []*hcloud.Firewall, matched map[string][]*hcloud.Server) []*Firewall {
	out := make([]*Firewall, 0, len(firewalls))
	for _, fw := range firewalls {
		if r := FromFirewall(fw, matched); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func fromFirewallRule(r hcloud.FirewallRule) FirewallRule {
	rule := FirewallRule{
		Direction: string(r.Direction),
		Protocol:  string(r.Protocol),
		SourceIPs: cidrs(r.SourceIPs),
	}
	if r.Port != nil && *r.Port != "" {
		rule.Port = r.Port
	}
	if len(r.DestinationIPs) > 0 {
		rule.DestinationIPs = cidrs(r.DestinationIPs)
	}
	if r.Description != nil && *r.Description != "" {
		rule.Description = r.Description
	}
	return rule
}

// Selectors returns the distinct label selectors a set of firewalls is
// applied to, in first-seen order.
func Selectors(firewalls ...*hcloud.Firewall) []string {
	seen := make(map[string]bool)
	var out []string
	for _, fw := range firewalls {
		if fw == nil {
			continue
		}
		for _, res := range fw.AppliedTo {
			if res.LabelSelector == nil || seen[res.LabelSelector.Selector] {
				continue
			}
			seen[res.LabelSelector.Selector] = true
			out = append(out, res.LabelSelector.Selector)
		}
	}
	return out
}
