package tools

import (
	"context"
	"strings"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"
	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"
	"nathanbeddoewebdev/hcloud-mcp/internal/records"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Lookups by ID. The SDK reports a missing resource as (nil, nil); both
// helpers turn that into a not-found error naming the ID.

func (h *Handlers) server(ctx context.Context, id int64) (*hcloud.Server, error) {
	s, _, err := h.client.Servers.GetByID(ctx, id)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if s == nil {
		return nil, domain.NotFoundByID("Server", id)
	}
	return s, nil
}

func (h *Handlers) firewall(ctx context.Context, id int64) (*hcloud.Firewall, error) {
	fw, _, err := h.client.Firewalls.GetByID(ctx, id)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if fw == nil {
		return nil, domain.NotFoundByID("Firewall", id)
	}
	return fw, nil
}

func (h *Handlers) volume(ctx context.Context, id int64) (*hcloud.Volume, error) {
	v, _, err := h.client.Volumes.GetByID(ctx, id)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if v == nil {
		return nil, domain.NotFoundByID("Volume", id)
	}
	return v, nil
}

func (h *Handlers) sshKey(ctx context.Context, ref params.SSHKeyRef) (*hcloud.SSHKey, error) {
	if ref.ByID() {
		k, _, err := h.client.SSHKeys.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, hetzner.Classify(err)
		}
		if k == nil {
			return nil, domain.NotFoundByID("SSH key", ref.ID)
		}
		return k, nil
	}

	k, _, err := h.client.SSHKeys.GetByName(ctx, ref.Name)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if k == nil {
		return nil, domain.NotFoundByName("SSH key", ref.Name)
	}
	return k, nil
}

// Catalog lookups by name. A miss lists the names that would have matched.

func (h *Handlers) serverType(ctx context.Context, name string) (*hcloud.ServerType, error) {
	st, _, err := h.client.ServerTypes.GetByName(ctx, name)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if st != nil {
		return st, nil
	}

	all, err := h.client.ServerTypes.All(ctx)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	names := make([]string, 0, len(all))
	for _, t := range all {
		names = append(names, t.Name)
	}
	return nil, domain.NotFoundf("Server type '%s' not found. Available types: %s", name, nameList(names))
}

// image resolves a name for the given architecture, or a numeric ID.
func (h *Handlers) image(ctx context.Context, ref params.ImageRef, arch hcloud.Architecture) (*hcloud.Image, error) {
	if id, ok := ref.ID(); ok {
		img, _, err := h.client.Images.GetByID(ctx, id)
		if err != nil {
			return nil, hetzner.Classify(err)
		}
		if img == nil {
			return nil, domain.NotFoundByID("Image", id)
		}
		return img, nil
	}

	name := string(ref)
	img, _, err := h.client.Images.GetByNameAndArchitecture(ctx, name, arch)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if img != nil {
		return img, nil
	}

	all, err := h.client.Images.All(ctx)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	var names []string
	for _, i := range all {
		if i.Name != "" && (arch == "" || i.Architecture == arch) {
			names = append(names, i.Name)
		}
	}
	return nil, domain.NotFoundf("Image '%s' not found. Available images: %s", name, nameList(names))
}

// location resolves a location name. withChoices appends the available
// names to the not-found message.
func (h *Handlers) location(ctx context.Context, name string, withChoices bool) (*hcloud.Location, error) {
	loc, _, err := h.client.Locations.GetByName(ctx, name)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	if loc != nil {
		return loc, nil
	}
	if !withChoices {
		return nil, domain.NotFoundByName("Location", name)
	}

	all, err := h.client.Locations.All(ctx)
	if err != nil {
		return nil, hetzner.Classify(err)
	}
	names := make([]string, 0, len(all))
	for _, l := range all {
		names = append(names, l.Name)
	}
	return nil, domain.NotFoundf("Location '%s' not found. Available locations: %s", name, nameList(names))
}

func nameList(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

// expandSelectors lists the servers matched by each label selector the
// firewalls are applied to. The expansion is one level deep.
func (h *Handlers) expandSelectors(ctx context.Context, firewalls ...*hcloud.Firewall) (map[string][]*hcloud.Server, error) {
	matched := make(map[string][]*hcloud.Server)
	for _, sel := range records.Selectors(firewalls...) {
		servers, err := h.client.Servers.AllWithOpts(ctx, hcloud.ServerListOpts{
			ListOpts: hcloud.ListOpts{LabelSelector: sel},
		})
		if err != nil {
			return nil, hetzner.Classify(err)
		}
		matched[sel] = servers
	}
	return matched, nil
}
