package params

import (
	"net"
	"strings"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

type FirewallID struct {
	FirewallID int64 `json:"firewall_id"`
}

func (p *FirewallID) Validate() error { return requireID("firewall_id", p.FirewallID) }

// FirewallRule is one rule as supplied by the caller. SourceIPs must be
// present but may be empty, as for outbound rules.
type FirewallRule struct {
	Direction      string   `json:"direction"`
	Protocol       string   `json:"protocol"`
	SourceIPs      []string `json:"source_ips"`
	Port           string   `json:"port"`
	DestinationIPs []string `json:"destination_ips"`
	Description    string   `json:"description"`
}

var (
	validDirections = []string{
		string(hcloud.FirewallRuleDirectionIn),
		string(hcloud.FirewallRuleDirectionOut),
	}
	validProtocols = []string{
		string(hcloud.FirewallRuleProtocolTCP),
		string(hcloud.FirewallRuleProtocolUDP),
		string(hcloud.FirewallRuleProtocolICMP),
		string(hcloud.FirewallRuleProtocolESP),
		string(hcloud.FirewallRuleProtocolGRE),
	}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (r *FirewallRule) Validate() error {
	if !oneOf(r.Direction, validDirections) {
		return domain.Invalidf("invalid rule direction %q: must be one of %s", r.Direction, strings.Join(validDirections, ", "))
	}
	if !oneOf(r.Protocol, validProtocols) {
		return domain.Invalidf("invalid rule protocol %q: must be one of %s", r.Protocol, strings.Join(validProtocols, ", "))
	}
	if r.SourceIPs == nil {
		return domain.Invalidf("source_ips is required")
	}
	if _, err := parseCIDRs("source_ips", r.SourceIPs); err != nil {
		return err
	}
	if _, err := parseCIDRs("destination_ips", r.DestinationIPs); err != nil {
		return err
	}
	return nil
}

// ToHcloud converts a validated rule into its SDK form.
func (r FirewallRule) ToHcloud() (hcloud.FirewallRule, error) {
	src, err := parseCIDRs("source_ips", r.SourceIPs)
	if err != nil {
		return hcloud.FirewallRule{}, err
	}
	dst, err := parseCIDRs("destination_ips", r.DestinationIPs)
	if err != nil {
		return hcloud.FirewallRule{}, err
	}

	rule := hcloud.FirewallRule{
		Direction:      hcloud.FirewallRuleDirection(r.Direction),
		Protocol:       hcloud.FirewallRuleProtocol(r.Protocol),
		SourceIPs:      src,
		DestinationIPs: dst,
	}
	if r.Port != "" {
		rule.Port = hcloud.Ptr(r.Port)
	}
	if r.Description != "" {
		rule.Description = hcloud.Ptr(r.Description)
	}
	return rule, nil
}

// ParseCIDR parses an address in CIDR notation. A bare address is taken as
// a single host (/32 or /128).
func ParseCIDR(s string) (net.IPNet, error) {
	if !strings.Contains(s, "/") {
		ip := net.ParseIP(s)
		if ip == nil {
			return net.IPNet{}, domain.Invalidf("invalid IP address %q", s)
		}
		if v4 := ip.To4(); v4 != nil {
			return net.IPNet{IP: v4, Mask: net.CIDRMask(32, 32)}, nil
		}
		return net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, nil
	}

	_, n, err := net.ParseCIDR(s)
	if err != nil {
		return net.IPNet{}, domain.Invalidf("invalid CIDR %q", s)
	}
	return *n, nil
}

func parseCIDRs(field string, values []string) ([]net.IPNet, error) {
	out := make([]net.IPNet, 0, len(values))
	for _, v := range values {
		n, err := ParseCIDR(strings.TrimSpace(v))
		if err != nil {
			return nil, domain.Invalidf("%s: %v", field, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func rulesToHcloud(rules []FirewallRule) ([]hcloud.FirewallRule, error) {
	out := make([]hcloud.FirewallRule, 0, len(rules))
	for _, r := range rules {
		hr, err := r.ToHcloud()
		if err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	return out, nil
}

func validateRules(rules []FirewallRule) error {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return domain.Invalidf("rules[%d]: %v", i, err)
		}
	}
	return nil
}

// FirewallResource is a firewall target. The combination of Type with
// ServerID or LabelSelector is checked by ToHcloud, which handlers run over
// every resource before making any call.
type FirewallResource struct {
	Type          string `json:"type"`
	ServerID      int64  `json:"server_id"`
	LabelSelector string `json:"label_selector"`
}

func (r *FirewallResource) Validate() error {
	return requireString("type", r.Type)
}

// ToHcloud checks the type-specific field and converts the resource.
func (r FirewallResource) ToHcloud() (hcloud.FirewallResource, error) {
	switch hcloud.FirewallResourceType(r.Type) {
	case hcloud.FirewallResourceTypeServer:
		if r.ServerID <= 0 {
			return hcloud.FirewallResource{}, domain.Invalidf("Server ID is required when resource type is 'server'")
		}
		return hcloud.FirewallResource{
			Type:   hcloud.FirewallResourceTypeServer,
			Server: &hcloud.FirewallResourceServer{ID: r.ServerID},
		}, nil
	case hcloud.FirewallResourceTypeLabelSelector:
		if r.LabelSelector == "" {
			return hcloud.FirewallResource{}, domain.Invalidf("Label selector is required when resource type is 'label_selector'")
		}
		return hcloud.FirewallResource{
			Type:          hcloud.FirewallResourceTypeLabelSelector,
			LabelSelector: &hcloud.FirewallResourceLabelSelector{Selector: r.LabelSelector},
		}, nil
	default:
		return hcloud.FirewallResource{}, domain.Invalidf("Invalid resource type: %s. Must be 'server' or 'label_selector'", r.Type)
	}
}

// ResourcesToHcloud converts every resource or none: the first invalid
// entry aborts the conversion.
func ResourcesToHcloud(resources []FirewallResource) ([]hcloud.FirewallResource, error) {
	out := make([]hcloud.FirewallResource, 0, len(resources))
	for _, r := range resources {
		hr, err := r.ToHcloud()
		if err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	return out, nil
}

func validateResources(resources []FirewallResource) error {
	for i := range resources {
		if err := resources[i].Validate(); err != nil {
			return domain.Invalidf("resources[%d]: %v", i, err)
		}
	}
	return nil
}

type CreateFirewall struct {
	Name      string             `json:"name"`
	Rules     []FirewallRule     `json:"rules"`
	Resources []FirewallResource `json:"resources"`
	Labels    map[string]string  `json:"labels"`
}

func (p *CreateFirewall) Validate() error {
	if err := requireString("name", p.Name); err != nil {
		return err
	}
	if err := validateRules(p.Rules); err != nil {
		return err
	}
	return validateResources(p.Resources)
}

// HcloudRules converts the rules of the request.
func (p *CreateFirewall) HcloudRules() ([]hcloud.FirewallRule, error) {
	return rulesToHcloud(p.Rules)
}

// UpdateFirewall renames or relabels a firewall. Unset fields are left
// unchanged on the provider side.
type UpdateFirewall struct {
	FirewallID int64             `json:"firewall_id"`
	Name       string            `json:"name"`
	Labels     map[string]string `json:"labels"`
}

func (p *UpdateFirewall) Validate() error { return requireID("firewall_id", p.FirewallID) }

// SetFirewallRules replaces the full rule set. An empty list removes all
// rules, so Rules must be present.
type SetFirewallRules struct {
	FirewallID int64          `json:"firewall_id"`
	Rules      []FirewallRule `json:"rules"`
}

func (p *SetFirewallRules) Validate() error {
	if err := requireID("firewall_id", p.FirewallID); err != nil {
		return err
	}
	if p.Rules == nil {
		return domain.Invalidf("rules is required")
	}
	return validateRules(p.Rules)
}

func (p *SetFirewallRules) HcloudRules() ([]hcloud.FirewallRule, error) {
	return rulesToHcloud(p.Rules)
}

// FirewallResources is the request of both apply and remove.
type FirewallResources struct {
	FirewallID int64              `json:"firewall_id"`
	Resources  []FirewallResource `json:"resources"`
}

func (p *FirewallResources) Validate() error {
	if err := requireID("firewall_id", p.FirewallID); err != nil {
		return err
	}
	if len(p.Resources) == 0 {
		return domain.Invalidf("resources is required")
	}
	return validateResources(p.Resources)
}
