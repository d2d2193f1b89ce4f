package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultListTop = 25

// ListContacts returns a handler that lists Outlook contacts.
func ListContacts(g Graph) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		top := defaultListTop
		if n, ok := args["top"].(float64); ok && n > 0 {
			top = int(n)
		}
		search, _ := args["search"].(string)

		contacts, err := g.ListContacts(ctx, top, search)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list contacts: %s", err)), nil
		}

		if len(contacts) == 0 {
			return mcp.NewToolResultText("No contacts found."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "👥 Contacts (%d found)\n\n", len(contacts))
		for _, c := range contacts {
			sb.WriteString(fmt.Sprintf("**%s**\n", c.DisplayName))
			for _, e := range c.EmailAddresses {
				sb.WriteString(fmt.Sprintf("  Email: %s\n", e.Address))
			}
			if c.MobilePhone != "" {
				sb.WriteString(fmt.Sprintf("  Phone: %s\n", c.MobilePhone))
			}
			if c.CompanyName != "" {
				sb.WriteString(fmt.Sprintf("  Company: %s\n", c.CompanyName))
			}
			sb.WriteString(fmt.Sprintf("  ID: %s\n", c.ID))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
