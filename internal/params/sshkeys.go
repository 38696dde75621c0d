package params

import "strings"

type SSHKeyID struct {
	SSHKeyID int64 `json:"ssh_key_id"`
}

func (p *SSHKeyID) Validate() error { return requireID("ssh_key_id", p.SSHKeyID) }

type CreateSSHKey struct {
	Name      string            `json:"name"`
	PublicKey string            `json:"public_key"`
	Labels    map[string]string `json:"labels"`
}

func (p *CreateSSHKey) Validate() error {
	if err := requireString("name", p.Name); err != nil {
		return err
	}
	return requireString("public_key", strings.TrimSpace(p.PublicKey))
}

type UpdateSSHKey struct {
	SSHKeyID int64             `json:"ssh_key_id"`
	Name     string            `json:"name"`
	Labels   map[string]string `json:"labels"`
}

func (p *UpdateSSHKey) Validate() error {
	if err := requireID("ssh_key_id", p.SSHKeyID); err != nil {
		return err
	}
	return requireString("name", p.Name)
}
