package tools

import (
	"context"

	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"
	"nathanbeddoewebdev/hcloud-mcp/internal/records"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *Handlers) serverTools() []Tool {
	serverID := idArg("server_id", "The ID of the server")

	return []Tool{
		bind(h, newTool("list_servers",
			"List all servers in the Hetzner Cloud project.",
			readOnly(),
		), spec{operation: "list servers"}, h.listServers),

		bind(h, newTool("get_server",
			"Get details about a specific server.",
			readOnly(), serverID,
		), spec{operation: "get server"}, h.getServer),

		bind(h, newTool("create_server",
			"Create a new server. The action is returned without waiting for it to finish. "+
				"root_password is only set when no SSH keys are given.",
			additive(),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the server")),
			mcp.WithString("server_type", mcp.Required(), mcp.Description("Server type name (e.g. cx22, cpx11)")),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image name (e.g. ubuntu-24.04) or numeric image ID")),
			mcp.WithString("location", mcp.Description("Location name"), mcp.DefaultString(params.DefaultLocation)),
			mcp.WithArray("ssh_keys",
				mcp.Description("SSH keys to install, as IDs or names"),
				mcp.Items(map[string]any{"type": []string{"integer", "string"}}),
			),
		), spec{operation: "create server", mutating: true}, h.createServer),

		bind(h, newTool("delete_server",
			"Permanently delete a server.",
			destructive(true), serverID,
		), spec{operation: "delete server", mutating: true}, h.deleteServer),

		bind(h, newTool("power_on",
			"Power on a server that is currently off.",
			additive(), serverID,
		), spec{operation: "power on server", mutating: true}, h.powerAction(hetzner.ServerAPI.Poweron)),

		bind(h, newTool("power_off",
			"Cut power to a server. This is a hard stop and may cause data loss.",
			destructive(true), serverID,
		), spec{operation: "power off server", mutating: true}, h.powerAction(hetzner.ServerAPI.Poweroff)),

		bind(h, newTool("reboot",
			"Reboot a server (hard reset).",
			destructive(false), serverID,
		), spec{operation: "reboot server", mutating: true}, h.powerAction(hetzner.ServerAPI.Reboot)),
	}
}

func (h *Handlers) listServers(ctx context.Context, _ *params.None) (ServersResult, error) {
	servers, err := h.client.Servers.All(ctx)
	if err != nil {
		return ServersResult{}, hetzner.Classify(err)
	}
	return ServersResult{Servers: records.FromServers(servers)}, nil
}

func (h *Handlers) getServer(ctx context.Context, p *params.ServerID) (ServerResult, error) {
	s, err := h.server(ctx, p.ServerID)
	if err != nil {
		return ServerResult{}, err
	}
	return ServerResult{Server: records.FromServer(s)}, nil
}

func (h *Handlers) createServer(ctx context.Context, p *params.CreateServer) (CreateServerResult, error) {
	serverType, err := h.serverType(ctx, p.ServerType)
	if err != nil {
		return CreateServerResult{}, err
	}
	image, err := h.image(ctx, p.Image, serverType.Architecture)
	if err != nil {
		return CreateServerResult{}, err
	}
	location, err := h.location(ctx, p.Location, true)
	if err != nil {
		return CreateServerResult{}, err
	}

	keys := make([]*hcloud.SSHKey, 0, len(p.SSHKeys))
	for _, ref := range p.SSHKeys {
		k, err := h.sshKey(ctx, ref)
		if err != nil {
			return CreateServerResult{}, err
		}
		keys = append(keys, k)
	}

	annotate(ctx, "server", 0, p.Name)
	res, _, err := h.client.Servers.Create(ctx, hcloud.ServerCreateOpts{
		Name:       p.Name,
		ServerType: serverType,
		Image:      image,
		Location:   location,
		SSHKeys:    keys,
	})
	if err != nil {
		return CreateServerResult{}, hetzner.Classify(err)
	}

	out := CreateServerResult{
		Server: records.FromServer(res.Server),
		Action: records.FromAction(res.Action),
	}
	if res.RootPassword != "" {
		out.RootPassword = &res.RootPassword
	}
	if res.Server != nil {
		annotate(ctx, "server", res.Server.ID, res.Server.Name)
	}
	return out, nil
}

func (h *Handlers) deleteServer(ctx context.Context, p *params.ServerID) (ActionResult, error) {
	s, err := h.server(ctx, p.ServerID)
	if err != nil {
		return ActionResult{}, err
	}
	annotate(ctx, "server", s.ID, s.Name)

	res, _, err := h.client.Servers.DeleteWithResult(ctx, s)
	if err != nil {
		return ActionResult{}, hetzner.Classify(err)
	}

	out := ActionResult{Success: true}
	if res != nil {
		out.Action = records.FromAction(res.Action)
	}
	return out, nil
}

type serverAction func(api hetzner.ServerAPI, ctx context.Context, server *hcloud.Server) (*hcloud.Action, *hcloud.Response, error)

// powerAction builds the handler shared by power_on, power_off and reboot.
func (h *Handlers) powerAction(call serverAction) func(context.Context, *params.ServerID) (ActionResult, error) {
	return func(ctx context.Context, p *params.ServerID) (ActionResult, error) {
		s, err := h.server(ctx, p.ServerID)
		if err != nil {
			return ActionResult{}, err
		}
		annotate(ctx, "server", s.ID, s.Name)

		action, _, err := call(h.client.Servers, ctx, s)
		if err != nil {
			return ActionResult{}, hetzner.Classify(err)
		}
		return ActionResult{Success: true, Action: records.FromAction(action)}, nil
	}
}
