package graph

import "time"

// Microsoft Graph resource shapes, restricted to the fields graphdesk
// reads or writes. Field names follow Graph's camelCase JSON.

// PlannerTask is a task in a Planner plan.
type PlannerTask struct {
	ID                string                       `json:"id,omitempty"`
	ETag              string                       `json:"@odata.etag,omitempty"`
	PlanID            string                       `json:"planId,omitempty"`
	BucketID          string                       `json:"bucketId,omitempty"`
	Title             string                       `json:"title,omitempty"`
	PercentComplete   int                          `json:"percentComplete"`
	Priority          int                          `json:"priority,omitempty"`
	DueDateTime       *time.Time                   `json:"dueDateTime,omitempty"`
	CreatedDateTime   *time.Time                   `json:"createdDateTime,omitempty"`
	CompletedDateTime *time.Time                   `json:"completedDateTime,omitempty"`
	Assignments       map[string]PlannerAssignment `json:"assignments,omitempty"`
}

// PlannerAssignment assigns a task to a user.
type PlannerAssignment struct {
	ODataType string `json:"@odata.type"`
	OrderHint string `json:"orderHint"`
}

// PlannerTaskDetails carries the extended properties of a task.
type PlannerTaskDetails struct {
	ID          string `json:"id,omitempty"`
	ETag        string `json:"@odata.etag,omitempty"`
	Description string `json:"description,omitempty"`
	PreviewType string `json:"previewType,omitempty"`
}

// Contact is an Outlook personal contact.
type Contact struct {
	ID             string         `json:"id,omitempty"`
	DisplayName    string         `json:"displayName,omitempty"`
	GivenName      string         `json:"givenName,omitempty"`
	Surname        string         `json:"surname,omitempty"`
	CompanyName    string         `json:"companyName,omitempty"`
	JobTitle       string         `json:"jobTitle,omitempty"`
	EmailAddresses []EmailAddress `json:"emailAddresses,omitempty"`
	BusinessPhones []string       `json:"businessPhones,omitempty"`
	MobilePhone    string         `json:"mobilePhone,omitempty"`
}

// EmailAddress is a name/address pair used by contacts and events.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Event is an Outlook calendar event.
type Event struct {
	ID          string           `json:"id,omitempty"`
	Subject     string           `json:"subject,omitempty"`
	BodyPreview string           `json:"bodyPreview,omitempty"`
	Body        *ItemBody        `json:"body,omitempty"`
	Start       *DateTimeZone    `json:"start,omitempty"`
	End         *DateTimeZone    `json:"end,omitempty"`
	Location    *Location        `json:"location,omitempty"`
	Attendees   []Attendee       `json:"attendees,omitempty"`
	Organizer   *Recipient       `json:"organizer,omitempty"`
	IsAllDay    bool             `json:"isAllDay,omitempty"`
	WebLink     string           `json:"webLink,omitempty"`
}

// ItemBody is the body of an event or message.
type ItemBody struct {
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content,omitempty"`
}

// DateTimeZone is Graph's dateTimeTimeZone resource.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location names where an event takes place.
type Location struct {
	DisplayName string `json:"displayName,omitempty"`
}

// Attendee is an event participant.
type Attendee struct {
	Type         string       `json:"type,omitempty"` // required, optional, resource
	EmailAddress EmailAddress `json:"emailAddress"`
}

// Recipient wraps an email address.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// listResponse is the Graph collection envelope.
type listResponse[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink,omitempty"`
}
