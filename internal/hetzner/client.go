// Package hetzner adapts the hcloud-go SDK for the tool handlers.
//
// Each resource client is exposed through a narrow interface holding only
// the calls a handler makes, so handlers depend on behaviour rather than on
// *hcloud.Client. The SDK's own retry loop is disabled: a failed call is
// reported to the caller and never repeated.
package hetzner

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ApplicationName is sent in the User-Agent of every API request.
const ApplicationName = "hcloud-mcp"

// Version is the application version reported to the API. Overridden at
// build time via -ldflags.
var Version = "0.1.0"

// ServerAPI is the subset of hcloud.ServerClient used by the server tools.
type ServerAPI interface {
	All(ctx context.Context) ([]*hcloud.Server, error)
	AllWithOpts(ctx context.Context, opts hcloud.ServerListOpts) ([]*hcloud.Server, error)
	GetByID(ctx context.Context, id int64) (*hcloud.Server, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, *hcloud.Response, error)
	DeleteWithResult(ctx context.Context, server *hcloud.Server) (*hcloud.ServerDeleteResult, *hcloud.Response, error)
	Poweron(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
	Poweroff(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
	Reboot(ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)
}

// ImageAPI is the subset of hcloud.ImageClient used by the catalog tools.
type ImageAPI interface {
	All(ctx context.Context) ([]*hcloud.Image, error)
	GetByID(ctx context.Context, id int64) (*hcloud.Image, *hcloud.Response, error)
	GetByNameAndArchitecture(ctx context.Context, name string, architecture hcloud.Architecture) (*hcloud.Image, *hcloud.Response, error)
}

// ServerTypeAPI is the subset of hcloud.ServerTypeClient used by the catalog tools.
type ServerTypeAPI interface {
	All(ctx context.Context) ([]*hcloud.ServerType, error)
	GetByName(ctx context.Context, name string) (*hcloud.ServerType, *hcloud.Response, error)
}

// LocationAPI is the subset of hcloud.LocationClient used by the catalog
// tools and the token check of "auth status".
type LocationAPI interface {
	All(ctx context.Context) ([]*hcloud.Location, error)
	List(ctx context.Context, opts hcloud.LocationListOpts) ([]*hcloud.Location, *hcloud.Response, error)
	GetByName(ctx context.Context, name string) (*hcloud.Location, *hcloud.Response, error)
}

// SSHKeyAPI is the subset of hcloud.SSHKeyClient used by the SSH key tools.
type SSHKeyAPI interface {
	All(ctx context.Context) ([]*hcloud.SSHKey, error)
	GetByID(ctx context.Context, id int64) (*hcloud.SSHKey, *hcloud.Response, error)
	GetByName(ctx context.Context, name string) (*hcloud.SSHKey, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.SSHKeyCreateOpts) (*hcloud.SSHKey, *hcloud.Response, error)
	Update(ctx context.Context, key *hcloud.SSHKey, opts hcloud.SSHKeyUpdateOpts) (*hcloud.SSHKey, *hcloud.Response, error)
	Delete(ctx context.Context, key *hcloud.SSHKey) (*hcloud.Response, error)
}

// FirewallAPI is the subset of hcloud.FirewallClient used by the firewall tools.
type FirewallAPI interface {
	All(ctx context.Context) ([]*hcloud.Firewall, error)
	GetByID(ctx context.Context, id int64) (*hcloud.Firewall, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.FirewallCreateOpts) (hcloud.FirewallCreateResult, *hcloud.Response, error)
	Update(ctx context.Context, firewall *hcloud.Firewall, opts hcloud.FirewallUpdateOpts) (*hcloud.Firewall, *hcloud.Response, error)
	Delete(ctx context.Context, firewall *hcloud.Firewall) (*hcloud.Response, error)
	SetRules(ctx context.Context, firewall *hcloud.Firewall, opts hcloud.FirewallSetRulesOpts) ([]*hcloud.Action, *hcloud.Response, error)
	ApplyResources(ctx context.Context, firewall *hcloud.Firewall, resources []hcloud.FirewallResource) ([]*hcloud.Action, *hcloud.Response, error)
	RemoveResources(ctx context.Context, firewall *hcloud.Firewall, resources []hcloud.FirewallResource) ([]*hcloud.Action, *hcloud.Response, error)
}

// VolumeAPI is the subset of hcloud.VolumeClient used by the volume tools.
type VolumeAPI interface {
	All(ctx context.Context) ([]*hcloud.Volume, error)
	GetByID(ctx context.Context, id int64) (*hcloud.Volume, *hcloud.Response, error)
	Create(ctx context.Context, opts hcloud.VolumeCreateOpts) (hcloud.VolumeCreateResult, *hcloud.Response, error)
	Delete(ctx context.Context, volume *hcloud.Volume) (*hcloud.Response, error)
	AttachWithOpts(ctx context.Context, volume *hcloud.Volume, opts hcloud.VolumeAttachOpts) (*hcloud.Action, *hcloud.Response, error)
	Detach(ctx context.Context, volume *hcloud.Volume) (*hcloud.Action, *hcloud.Response, error)
	Resize(ctx context.Context, volume *hcloud.Volume, size int) (*hcloud.Action, *hcloud.Response, error)
}

// Client groups the resource clients. It is built once at startup and
// shared read-only by every handler.
type Client struct {
	Servers     ServerAPI
	Images      ImageAPI
	ServerTypes ServerTypeAPI
	Locations   LocationAPI
	SSHKeys     SSHKeyAPI
	Firewalls   FirewallAPI
	Volumes     VolumeAPI
}

// New creates a Client authenticated with token. Default options
// (application name, retries disabled) are applied first; callers can
// override them, e.g. with hcloud.WithEndpoint in tests.
func New(token string, opts ...hcloud.ClientOption) *Client {
	defaults := []hcloud.ClientOption{
		hcloud.WithToken(token),
		hcloud.WithApplication(ApplicationName, Version),
		hcloud.WithRetryOpts(hcloud.RetryOpts{
			BackoffFunc: hcloud.ConstantBackoff(0),
			MaxRetries:  0,
		}),
	}
	return FromSDK(hcloud.NewClient(append(defaults, opts...)...))
}

// FromSDK wraps an already configured SDK client.
func FromSDK(c *hcloud.Client) *Client {
	return &Client{
		Servers:     &c.Server,
		Images:      &c.Image,
		ServerTypes: &c.ServerType,
		Locations:   &c.Location,
		SSHKeys:     &c.SSHKey,
		Firewalls:   &c.Firewall,
		Volumes:     &c.Volume,
	}
}
