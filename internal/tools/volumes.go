package tools

import (
	"context"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"
	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"
	"nathanbeddoewebdev/hcloud-mcp/internal/records"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *Handlers) volumeTools() []Tool {
	volumeID := idArg("volume_id", "The ID of the volume")

	return []Tool{
		bind(h, newTool("list_volumes",
			"List all volumes.",
			readOnly(),
		), spec{operation: "list volumes"}, h.listVolumes),

		bind(h, newTool("get_volume",
			"Get details about a specific volume.",
			readOnly(), volumeID,
		), spec{operation: "get volume"}, h.getVolume),

		bind(h, newTool("create_volume",
			"Create a volume in a location, or attached to a server.",
			additive(),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the volume")),
			mcp.WithNumber("size", mcp.Required(), mcp.Description("Size of the volume in GB")),
			mcp.WithString("location", mcp.Description("Location to create the volume in (e.g. nbg1, fsn1)")),
			mcp.WithNumber("server", mcp.Description("ID of the server to attach the volume to")),
			mcp.WithBoolean("automount", mcp.Description("Mount the volume after attaching it"), mcp.DefaultBool(false)),
			mcp.WithString("format", mcp.Description("Filesystem to format the volume with"), mcp.Enum("ext4", "xfs")),
			labelsArg("User-defined labels (key-value pairs)"),
		), spec{operation: "create volume", mutating: true}, h.createVolume),

		bind(h, newTool("delete_volume",
			"Permanently delete a volume. It must be detached first.",
			destructive(true), volumeID,
		), spec{operation: "delete volume", mutating: true}, h.deleteVolume),

		bind(h, newTool("attach_volume",
			"Attach a volume to a server in the same location.",
			additive(), volumeID,
			idArg("server_id", "The ID of the server to attach the volume to"),
			mcp.WithBoolean("automount", mcp.Description("Mount the volume after attaching it"), mcp.DefaultBool(false)),
		), spec{operation: "attach volume", mutating: true}, h.attachVolume),

		bind(h, newTool("detach_volume",
			"Detach a volume from its server.",
			destructive(true), volumeID,
		), spec{operation: "detach volume", mutating: true}, h.detachVolume),

		bind(h, newTool("resize_volume",
			"Grow a volume. Volumes cannot shrink.",
			additive(), volumeID,
			mcp.WithNumber("size", mcp.Required(), mcp.Description("New size in GB, greater than the current size")),
		), spec{operation: "resize volume", mutating: true}, h.resizeVolume),
	}
}

func (h *Handlers) listVolumes(ctx context.Context, _ *params.None) (VolumesResult, error) {
	volumes, err := h.client.Volumes.All(ctx)
	if err != nil {
		return VolumesResult{}, hetzner.Classify(err)
	}
	return VolumesResult{Volumes: records.FromVolumes(volumes)}, nil
}

func (h *Handlers) getVolume(ctx context.Context, p *params.VolumeID) (VolumeResult, error) {
	v, err := h.volume(ctx, p.VolumeID)
	if err != nil {
		return VolumeResult{}, err
	}
	return VolumeResult{Volume: records.FromVolume(v)}, nil
}

func (h *Handlers) createVolume(ctx context.Context, p *params.CreateVolume) (CreateVolumeResult, error) {
	opts := hcloud.VolumeCreateOpts{
		Name:   p.Name,
		Size:   p.Size,
		Labels: p.Labels,
	}

	if p.Location != "" {
		loc, err := h.location(ctx, p.Location, false)
		if err != nil {
			return CreateVolumeResult{}, err
		}
		opts.Location = loc
	}
	if p.Server != 0 {
		s, err := h.server(ctx, p.Server)
		if err != nil {
			return CreateVolumeResult{}, err
		}
		opts.Server = s
	}
	if p.Automount {
		opts.Automount = hcloud.Ptr(true)
	}
	if p.Format != "" {
		opts.Format = hcloud.Ptr(p.Format)
	}

	annotate(ctx, "volume", 0, p.Name)
	res, _, err := h.client.Volumes.Create(ctx, opts)
	if err != nil {
		return CreateVolumeResult{}, hetzner.Classify(err)
	}
	if res.Volume != nil {
		annotate(ctx, "volume", res.Volume.ID, res.Volume.Name)
	}

	return CreateVolumeResult{
		Volume:      records.FromVolume(res.Volume),
		Action:      records.FromAction(res.Action),
		NextActions: records.FromActions(res.NextActions),
	}, nil
}

func (h *Handlers) deleteVolume(ctx context.Context, p *params.VolumeID) (SuccessResult, error) {
	v, err := h.volume(ctx, p.VolumeID)
	if err != nil {
		return SuccessResult{}, err
	}
	annotate(ctx, "volume", v.ID, v.Name)

	if _, err := h.client.Volumes.Delete(ctx, v); err != nil {
		return SuccessResult{}, hetzner.Classify(err)
	}
	return SuccessResult{Success: true}, nil
}

func (h *Handlers) attachVolume(ctx context.Context, p *params.AttachVolume) (ActionResult, error) {
	v, err := h.volume(ctx, p.VolumeID)
	if err != nil {
		return ActionResult{}, err
	}
	s, err := h.server(ctx, p.ServerID)
	if err != nil {
		return ActionResult{}, err
	}
	annotate(ctx, "volume", v.ID, v.Name)

	action, _, err := h.client.Volumes.AttachWithOpts(ctx, v, hcloud.VolumeAttachOpts{
		Server:    s,
		Automount: hcloud.Ptr(p.Automount),
	})
	if err != nil {
		return ActionResult{}, hetzner.Classify(err)
	}
	return ActionResult{Success: true, Action: records.FromAction(action)}, nil
}

func (h *Handlers) detachVolume(ctx context.Context, p *params.VolumeID) (ActionResult, error) {
	v, err := h.volume(ctx, p.VolumeID)
	if err != nil {
		return ActionResult{}, err
	}
	if v.Server == nil {
		return ActionResult{}, domain.Invalidf("Volume with ID %d is not attached to any server", v.ID)
	}
	annotate(ctx, "volume", v.ID, v.Name)

	action, _, err := h.client.Volumes.Detach(ctx, v)
	if err != nil {
		return ActionResult{}, hetzner.Classify(err)
	}
	return ActionResult{Success: true, Action: records.FromAction(action)}, nil
}

// resizeVolume compares against a fresh read of the volume so a stale size
// never reaches the resize call.
func (h *Handlers) resizeVolume(ctx context.Context, p *params.ResizeVolume) (ActionResult, error) {
	v, err := h.volume(ctx, p.VolumeID)
	if err != nil {
		return ActionResult{}, err
	}
	if p.Size <= v.Size {
		return ActionResult{}, domain.Invalidf("New size (%d GB) must be greater than current size (%d GB)", p.Size, v.Size)
	}
	annotate(ctx, "volume", v.ID, v.Name)

	action, _, err := h.client.Volumes.Resize(ctx, v, p.Size)
	if err != nil {
		return ActionResult{}, hetzner.Classify(err)
	}
	return ActionResult{Success: true, Action: records.FromAction(action)}, nil
}
