package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/graph"
)

// CreateContact returns a handler that creates an Outlook contact.
func CreateContact(g Graph) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		givenName, _ := args["given_name"].(string)
		if givenName == "" {
			return mcp.NewToolResultError("given_name is required"), nil
		}

		surname, _ := args["surname"].(string)
		contact := &graph.Contact{
			GivenName:   givenName,
			Surname:     surname,
			DisplayName: strings.TrimSpace(givenName + " " + surname),
		}
		if email, ok := args["email"].(string); ok && email != "" {
			contact.EmailAddresses = []graph.EmailAddress{
				{Address: email, Name: contact.DisplayName},
			}
		}
		if phone, ok := args["phone"].(string); ok {
			contact.MobilePhone = phone
		}
		if company, ok := args["company"].(string); ok {
			contact.CompanyName = company
		}

		created, err := g.CreateContact(ctx, contact)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create contact: %s", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("👤 Contact created: **%s** (ID: %s)", created.DisplayName, created.ID)), nil
	}
}
