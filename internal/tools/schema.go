package tools

import "github.com/mark3labs/mcp-go/mcp"

// Annotation sets shared by the tool definitions.

func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func additive() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func destructive(idempotent bool) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(idempotent),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

// newTool builds a definition from a description, annotations and
// argument options.
func newTool(name, description string, hints []mcp.ToolOption, args ...mcp.ToolOption) mcp.Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(description)}, hints...)
	return mcp.NewTool(name, append(opts, args...)...)
}

func idArg(name, description string) mcp.ToolOption {
	return mcp.WithNumber(name, mcp.Required(), mcp.Description(description))
}

func labelsArg(description string) mcp.ToolOption {
	return mcp.WithObject("labels", mcp.Description(description))
}

var firewallRuleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"direction": map[string]any{
			"type":        "string",
			"enum":        []string{"in", "out"},
			"description": "Direction of the rule",
		},
		"protocol": map[string]any{
			"type":        "string",
			"enum":        []string{"tcp", "udp", "icmp", "esp", "gre"},
			"description": "Protocol of the rule",
		},
		"source_ips": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Source addresses in CIDR notation",
		},
		"destination_ips": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Destination addresses in CIDR notation",
		},
		"port": map[string]any{
			"type":        "string",
			"description": "Port or port range (e.g. 80 or 8000-8080), tcp and udp only",
		},
		"description": map[string]any{
			"type":        "string",
			"description": "Description of the rule",
		},
	},
	"required": []string{"direction", "protocol", "source_ips"},
}

var firewallResourceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type":        "string",
			"enum":        []string{"server", "label_selector"},
			"description": "Kind of target",
		},
		"server_id": map[string]any{
			"type":        "integer",
			"description": "Server ID, required when type is 'server'",
		},
		"label_selector": map[string]any{
			"type":        "string",
			"description": "Label selector, required when type is 'label_selector'",
		},
	},
	"required": []string{"type"},
}

func rulesArg(required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{
		mcp.Description("Firewall rules"),
		mcp.Items(firewallRuleSchema),
	}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithArray("rules", opts...)
}

func resourcesArg(required bool, description string) mcp.ToolOption {
	opts := []mcp.PropertyOption{
		mcp.Description(description),
		mcp.Items(firewallResourceSchema),
	}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithArray("resources", opts...)
}
