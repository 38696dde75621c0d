package records

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

type SSHKey struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Fingerprint string            `json:"fingerprint"`
	PublicKey   string            `json:"public_key"`
	Labels      map[string]string `json:"labels"`
	Created     *string           `json:"created"`
}

func FromSSHKey(k *hcloud.SSHKey) *SSHKey {
	if k == nil {
		return nil
	}
	return &SSHKey{
		ID:          k.ID,
		Name:        k.Name,
		Fingerprint: k.Fingerprint,
		PublicKey:   k.PublicKey,
		Labels:      labels(k.Labels),
		Created:     timestamp(k.Created),
	}
}

func FromSSHKeys(keys []*hcloud.SSHKey) []*SSHKey {
	out := make([]*SSHKey, 0, len(keys))
	for _, k := range keys {
		if r := FromSSHKey(k); r != nil {
			out = append(out, r)
		}
	}
	return out
}
