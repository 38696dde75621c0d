package tools

import (
	"context"

	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"
	"nathanbeddoewebdev/hcloud-mcp/internal/records"
)

func (h *Handlers) catalogTools() []Tool {
	return []Tool{
		bind(h, newTool("list_images",
			"List the images that can be used to create servers.",
			readOnly(),
		), spec{operation: "list images"}, h.listImages),

		bind(h, newTool("list_server_types",
			"List server types with their resources and per-location prices.",
			readOnly(),
		), spec{operation: "list server types"}, h.listServerTypes),

		bind(h, newTool("list_locations",
			"List the datacenter locations.",
			readOnly(),
		), spec{operation: "list locations"}, h.listLocations),
	}
}

func (h *Handlers) listImages(ctx context.Context, _ *params.None) (ImagesResult, error) {
	images, err := h.client.Images.All(ctx)
	if err != nil {
		return ImagesResult{}, hetzner.Classify(err)
	}
	return ImagesResult{Images: records.FromImages(images)}, nil
}

func (h *Handlers) listServerTypes(ctx context.Context, _ *params.None) (ServerTypesResult, error) {
	types, err := h.client.ServerTypes.All(ctx)
	if err != nil {
		return ServerTypesResult{}, hetzner.Classify(err)
	}
	return ServerTypesResult{ServerTypes: records.FromServerTypes(types)}, nil
}

func (h *Handlers) listLocations(ctx context.Context, _ *params.None) (LocationsResult, error) {
	locations, err := h.client.Locations.All(ctx)
	if err != nil {
		return LocationsResult{}, hetzner.Classify(err)
	}
	return LocationsResult{Locations: records.FromLocations(locations)}, nil
}
