package tools

import (
	"context"

	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"
	"nathanbeddoewebdev/hcloud-mcp/internal/records"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *Handlers) firewallTools() []Tool {
	firewallID := idArg("firewall_id", "The ID of the firewall")

	return []Tool{
		bind(h, newTool("list_firewalls",
			"List all firewalls. Label selector targets include the servers they currently match.",
			readOnly(),
		), spec{operation: "list firewalls"}, h.listFirewalls),

		bind(h, newTool("get_firewall",
			"Get details about a specific firewall.",
			readOnly(), firewallID,
		), spec{operation: "get firewall"}, h.getFirewall),

		bind(h, newTool("create_firewall",
			"Create a firewall, optionally with rules and targets.",
			additive(),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the firewall")),
			rulesArg(false),
			resourcesArg(false, "Servers or label selectors to apply the firewall to"),
			labelsArg("User-defined labels (key-value pairs)"),
		), spec{operation: "create firewall", mutating: true}, h.createFirewall),

		bind(h, newTool("update_firewall",
			"Rename a firewall or replace its labels.",
			additive(), firewallID,
			mcp.WithString("name", mcp.Description("New name for the firewall")),
			labelsArg("New labels, replacing the existing ones"),
		), spec{operation: "update firewall", mutating: true}, h.updateFirewall),

		bind(h, newTool("delete_firewall",
			"Delete a firewall.",
			destructive(true), firewallID,
		), spec{operation: "delete firewall", mutating: true}, h.deleteFirewall),

		bind(h, newTool("set_firewall_rules",
			"Replace all rules of a firewall. An empty list removes every rule.",
			destructive(true), firewallID,
			rulesArg(true),
		), spec{operation: "set firewall rules", mutating: true}, h.setFirewallRules),

		bind(h, newTool("apply_firewall_to_resources",
			"Apply a firewall to servers or label selectors.",
			additive(), firewallID,
			resourcesArg(true, "Servers or label selectors to apply the firewall to"),
		), spec{operation: "apply firewall to resources", mutating: true}, h.applyFirewall),

		bind(h, newTool("remove_firewall_from_resources",
			"Remove a firewall from servers or label selectors.",
			destructive(true), firewallID,
			resourcesArg(true, "Servers or label selectors to remove the firewall from"),
		), spec{operation: "remove firewall from resources", mutating: true}, h.removeFirewall),
	}
}

func (h *Handlers) listFirewalls(ctx context.Context, _ *params.None) (FirewallsResult, error) {
	firewalls, err := h.client.Firewalls.All(ctx)
	if err != nil {
		return FirewallsResult{}, hetzner.Classify(err)
	}
	matched, err := h.expandSelectors(ctx, firewalls...)
	if err != nil {
		return FirewallsResult{}, err
	}
	return FirewallsResult{Firewalls: records.FromFirewalls(firewalls, matched)}, nil
}

func (h *Handlers) getFirewall(ctx context.Context, p *params.FirewallID) (FirewallResult, error) {
	fw, err := h.firewall(ctx, p.FirewallID)
	if err != nil {
		return FirewallResult{}, err
	}
	matched, err := h.expandSelectors(ctx, fw)
	if err != nil {
		return FirewallResult{}, err
	}
	return FirewallResult{Firewall: records.FromFirewall(fw, matched)}, nil
}

// firewallTargets checks every resource and resolves every referenced
// server before anything is changed.
func (h *Handlers) firewallTargets(ctx context.Context, resources []params.FirewallResource) ([]hcloud.FirewallResource, error) {
	targets, err := params.ResourcesToHcloud(resources)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.Server == nil {
			continue
		}
		if _, err := h.server(ctx, t.Server.ID); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func (h *Handlers) createFirewall(ctx context.Context, p *params.CreateFirewall) (CreateFirewallResult, error) {
	rules, err := p.HcloudRules()
	if err != nil {
		return CreateFirewallResult{}, err
	}
	targets, err := h.firewallTargets(ctx, p.Resources)
	if err != nil {
		return CreateFirewallResult{}, err
	}

	annotate(ctx, "firewall", 0, p.Name)
	res, _, err := h.client.Firewalls.Create(ctx, hcloud.FirewallCreateOpts{
		Name:    p.Name,
		Labels:  p.Labels,
		Rules:   rules,
		ApplyTo: targets,
	})
	if err != nil {
		return CreateFirewallResult{}, hetzner.Classify(err)
	}
	if res.Firewall != nil {
		annotate(ctx, "firewall", res.Firewall.ID, res.Firewall.Name)
	}

	return CreateFirewallResult{
		Firewall: records.FromFirewall(res.Firewall, nil),
		Actions:  records.FromActions(res.Actions),
	}, nil
}

func (h *Handlers) updateFirewall(ctx context.Context, p *params.UpdateFirewall) (FirewallResult, error) {
	fw, err := h.firewall(ctx, p.FirewallID)
	if err != nil {
		return FirewallResult{}, err
	}
	annotate(ctx, "firewall", fw.ID, fw.Name)

	updated, _, err := h.client.Firewalls.Update(ctx, fw, hcloud.FirewallUpdateOpts{
		Name:   p.Name,
		Labels: p.Labels,
	})
	if err != nil {
		return FirewallResult{}, hetzner.Classify(err)
	}
	return FirewallResult{Firewall: records.FromFirewall(updated, nil)}, nil
}

func (h *Handlers) deleteFirewall(ctx context.Context, p *params.FirewallID) (SuccessResult, error) {
	fw, err := h.firewall(ctx, p.FirewallID)
	if err != nil {
		return SuccessResult{}, err
	}
	annotate(ctx, "firewall", fw.ID, fw.Name)

	if _, err := h.client.Firewalls.Delete(ctx, fw); err != nil {
		return SuccessResult{}, hetzner.Classify(err)
	}
	return SuccessResult{Success: true}, nil
}

func (h *Handlers) setFirewallRules(ctx context.Context, p *params.SetFirewallRules) (ActionsResult, error) {
	fw, err := h.firewall(ctx, p.FirewallID)
	if err != nil {
		return ActionsResult{}, err
	}
	rules, err := p.HcloudRules()
	if err != nil {
		return ActionsResult{}, err
	}
	annotate(ctx, "firewall", fw.ID, fw.Name)

	actions, _, err := h.client.Firewalls.SetRules(ctx, fw, hcloud.FirewallSetRulesOpts{Rules: rules})
	if err != nil {
		return ActionsResult{}, hetzner.Classify(err)
	}
	return ActionsResult{Success: true, Actions: records.FromActions(actions)}, nil
}

func (h *Handlers) applyFirewall(ctx context.Context, p *params.FirewallResources) (ActionsResult, error) {
	return h.changeFirewallTargets(ctx, p, hetzner.FirewallAPI.ApplyResources)
}

func (h *Handlers) removeFirewall(ctx context.Context, p *params.FirewallResources) (ActionsResult, error) {
	return h.changeFirewallTargets(ctx, p, hetzner.FirewallAPI.RemoveResources)
}

type targetChange func(api hetzner.FirewallAPI, ctx context.Context, fw *hcloud.Firewall, resources []hcloud.FirewallResource) ([]*hcloud.Action, *hcloud.Response, error)

func (h *Handlers) changeFirewallTargets(ctx context.Context, p *params.FirewallResources, change targetChange) (ActionsResult, error) {
	fw, err := h.firewall(ctx, p.FirewallID)
	if err != nil {
		return ActionsResult{}, err
	}
	targets, err := h.firewallTargets(ctx, p.Resources)
	if err != nil {
		return ActionsResult{}, err
	}
	annotate(ctx, "firewall", fw.ID, fw.Name)

	actions, _, err := change(h.client.Firewalls, ctx, fw, targets)
	if err != nil {
		return ActionsResult{}, hetzner.Classify(err)
	}
	return ActionsResult{Success: true, Actions: records.FromActions(actions)}, nil
}
