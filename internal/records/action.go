package records

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

// Action describes an asynchronous provider operation. Actions are
// returned as observed and never polled.
type Action struct {
	ID       int64        `json:"id"`
	Status   string       `json:"status"`
	Command  string       `json:"command"`
	Progress int          `json:"progress"`
	Error    *ActionError `json:"error"`
	Started  *string      `json:"started"`
	Finished *string      `json:"finished"`
}

// ActionError is set only for failed actions.
type ActionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func FromAction(a *hcloud.Action) *Action {
	if a == nil {
		return nil
	}

	out := &Action{
		ID:       a.ID,
		Status:   string(a.Status),
		Command:  a.Command,
		Progress: a.Progress,
		Started:  timestamp(a.Started),
		Finished: timestamp(a.Finished),
	}
	if a.ErrorCode != "" || a.ErrorMessage != "" {
		out.Error = &ActionError{Code: a.ErrorCode, Message: a.ErrorMessage}
	}
	return out
}

// FromActions converts a list of actions. An empty input yields nil so the
// field serializes as null.
func FromActions(actions []*hcloud.Action) []*Action {
	if len(actions) == 0 {
		return nil
	}
	out := make([]*Action, 0, len(actions))
	for _, a := range actions {
		if r := FromAction(a); r != nil {
			out = append(out, r)
		}
	}
	return out
}
