package tools

import (
	"context"
	"strings"

	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"
	"nathanbeddoewebdev/hcloud-mcp/internal/records"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *Handlers) sshKeyTools() []Tool {
	sshKeyID := idArg("ssh_key_id", "The ID of the SSH key")

	return []Tool{
		bind(h, newTool("list_ssh_keys",
			"List all SSH keys.",
			readOnly(),
		), spec{operation: "list SSH keys"}, h.listSSHKeys),

		bind(h, newTool("get_ssh_key",
			"Get details about a specific SSH key.",
			readOnly(), sshKeyID,
		), spec{operation: "get SSH key"}, h.getSSHKey),

		bind(h, newTool("create_ssh_key",
			"Upload a public SSH key.",
			additive(),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the SSH key")),
			mcp.WithString("public_key", mcp.Required(), mcp.Description("The public key in OpenSSH format")),
			labelsArg("User-defined labels (key-value pairs)"),
		), spec{operation: "create SSH key", mutating: true}, h.createSSHKey),

		bind(h, newTool("update_ssh_key",
			"Rename an SSH key and optionally replace its labels.",
			additive(), sshKeyID,
			mcp.WithString("name", mcp.Required(), mcp.Description("New name for the SSH key")),
			labelsArg("New labels, replacing the existing ones"),
		), spec{operation: "update SSH key", mutating: true}, h.updateSSHKey),

		bind(h, newTool("delete_ssh_key",
			"Delete an SSH key. Servers it was installed on keep it.",
			destructive(true), sshKeyID,
		), spec{operation: "delete SSH key", mutating: true}, h.deleteSSHKey),
	}
}

func (h *Handlers) listSSHKeys(ctx context.Context, _ *params.None) (SSHKeysResult, error) {
	keys, err := h.client.SSHKeys.All(ctx)
	if err != nil {
		return SSHKeysResult{}, hetzner.Classify(err)
	}
	return SSHKeysResult{SSHKeys: records.FromSSHKeys(keys)}, nil
}

func (h *Handlers) getSSHKey(ctx context.Context, p *params.SSHKeyID) (SSHKeyResult, error) {
	k, err := h.sshKey(ctx, params.SSHKeyRef{ID: p.SSHKeyID})
	if err != nil {
		return SSHKeyResult{}, err
	}
	return SSHKeyResult{SSHKey: records.FromSSHKey(k)}, nil
}

func (h *Handlers) createSSHKey(ctx context.Context, p *params.CreateSSHKey) (SSHKeyResult, error) {
	annotate(ctx, "ssh_key", 0, p.Name)

	k, _, err := h.client.SSHKeys.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      p.Name,
		PublicKey: strings.TrimSpace(p.PublicKey),
		Labels:    p.Labels,
	})
	if err != nil {
		return SSHKeyResult{}, hetzner.Classify(err)
	}
	if k != nil {
		annotate(ctx, "ssh_key", k.ID, k.Name)
	}
	return SSHKeyResult{SSHKey: records.FromSSHKey(k)}, nil
}

func (h *Handlers) updateSSHKey(ctx context.Context, p *params.UpdateSSHKey) (SSHKeyResult, error) {
	k, err := h.sshKey(ctx, params.SSHKeyRef{ID: p.SSHKeyID})
	if err != nil {
		return SSHKeyResult{}, err
	}
	annotate(ctx, "ssh_key", k.ID, k.Name)

	updated, _, err := h.client.SSHKeys.Update(ctx, k, hcloud.SSHKeyUpdateOpts{
		Name:   p.Name,
		Labels: p.Labels,
	})
	if err != nil {
		return SSHKeyResult{}, hetzner.Classify(err)
	}
	return SSHKeyResult{SSHKey: records.FromSSHKey(updated)}, nil
}

func (h *Handlers) deleteSSHKey(ctx context.Context, p *params.SSHKeyID) (SuccessResult, error) {
	k, err := h.sshKey(ctx, params.SSHKeyRef{ID: p.SSHKeyID})
	if err != nil {
		return SuccessResult{}, err
	}
	annotate(ctx, "ssh_key", k.ID, k.Name)

	if _, err := h.client.SSHKeys.Delete(ctx, k); err != nil {
		return SuccessResult{}, hetzner.Classify(err)
	}
	return SuccessResult{Success: true}, nil
}
