package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListContacts returns up to top contacts, ordered by display name.
// When search is non-empty, only contacts whose display, given or
// family name starts with it are returned.
func (c *Client) ListContacts(ctx context.Context, top int, search string) ([]Contact, error) {
	query := url.Values{}
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}
	query.Set("$orderby", "displayName")
	if search != "" {
		// Single quotes are doubled per OData string literal rules.
		quoted := strings.ReplaceAll(search, "'", "''")
		query.Set("$filter", fmt.Sprintf(
			"startswith(displayName,'%s') or startswith(givenName,'%s') or startswith(surname,'%s')",
			quoted, quoted, quoted))
	}

	var resp listResponse[Contact]
	if err := c.do(ctx, http.MethodGet, "/me/contacts", query, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// CreateContact creates a contact and returns the created resource.
func (c *Client) CreateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	var created Contact
	if err := c.do(ctx, http.MethodPost, "/me/contacts", nil, nil, contact, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
