package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/graphdesk/internal/mcp/handlers"
)

func registerTools(s *server.MCPServer, deps *Deps) {
	// get-planner-tasks — List tasks in a plan
	s.AddTool(
		mcp.NewTool("get-planner-tasks",
			mcp.WithDescription("List Microsoft Planner tasks in a plan, optionally filtered by completion status."),
			mcp.WithString("plan_id",
				mcp.Description("Planner plan ID. If omitted, uses the configured default plan."),
			),
			mcp.WithString("status",
				mcp.Description("Filter tasks by completion status"),
				mcp.Enum("notStarted", "inProgress", "completed"),
			),
		),
		handlers.GetPlannerTasks(deps.Graph, deps.Planner.DefaultPlanID),
	)

	// get-planner-task — Get one task with details
	s.AddTool(
		mcp.NewTool("get-planner-task",
			mcp.WithDescription("Get a single Planner task by ID, including its description."),
			mcp.WithString("task_id",
				mcp.Required(),
				mcp.Description("The Planner task ID"),
			),
		),
		handlers.GetPlannerTask(deps.Graph),
	)

	// create-planner-task — Create a new task
	s.AddTool(
		mcp.NewTool("create-planner-task",
			mcp.WithDescription("Create a new Microsoft Planner task."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Task title"),
			),
			mcp.WithString("plan_id",
				mcp.Description("Planner plan ID. If omitted, uses the configured default plan."),
			),
			mcp.WithString("bucket_id",
				mcp.Description("Planner bucket ID. If omitted, uses the configured default bucket."),
			),
			mcp.WithString("description",
				mcp.Description("Task description (notes)"),
			),
			mcp.WithString("due_date",
				mcp.Description("Due date in RFC 3339 format (e.g., 2026-09-15T17:00:00Z)"),
			),
			mcp.WithArray("assignee_ids",
				mcp.Description("User IDs to assign the task to"),
				mcp.WithStringItems(),
			),
		),
		handlers.CreatePlannerTask(deps.Graph, deps.Publish, deps.Planner),
	)

	// update-planner-task — Modify an existing task
	s.AddTool(
		mcp.NewTool("update-planner-task",
			mcp.WithDescription("Update an existing Planner task. Only the provided fields are changed."),
			mcp.WithString("task_id",
				mcp.Required(),
				mcp.Description("The Planner task ID"),
			),
			mcp.WithString("title",
				mcp.Description("New task title"),
			),
			mcp.WithNumber("percent_complete",
				mcp.Description("Completion percentage (0-100)"),
			),
			mcp.WithString("due_date",
				mcp.Description("New due date in RFC 3339 format"),
			),
			mcp.WithString("bucket_id",
				mcp.Description("Move the task to this bucket"),
			),
			mcp.WithString("description",
				mcp.Description("New task description (notes)"),
			),
		),
		handlers.UpdatePlannerTask(deps.Graph, deps.Publish),
	)

	// complete-planner-task — Mark a task done
	s.AddTool(
		mcp.NewTool("complete-planner-task",
			mcp.WithDescription("Mark a Planner task as completed (100%)."),
			mcp.WithString("task_id",
				mcp.Required(),
				mcp.Description("The Planner task ID"),
			),
		),
		handlers.CompletePlannerTask(deps.Graph, deps.Publish),
	)

	// list-contacts — List Outlook contacts
	s.AddTool(
		mcp.NewTool("list-contacts",
			mcp.WithDescription("List Outlook contacts, optionally filtered by a name prefix."),
			mcp.WithString("search",
				mcp.Description("Only return contacts whose display name starts with this prefix"),
			),
			mcp.WithNumber("top",
				mcp.Description("Maximum number of contacts to return (default: 25)"),
			),
		),
		handlers.ListContacts(deps.Graph),
	)

	// create-contact — Create an Outlook contact
	s.AddTool(
		mcp.NewTool("create-contact",
			mcp.WithDescription("Create a new Outlook contact."),
			mcp.WithString("given_name",
				mcp.Required(),
				mcp.Description("First name"),
			),
			mcp.WithString("surname",
				mcp.Description("Last name"),
			),
			mcp.WithString("email",
				mcp.Description("Email address"),
			),
			mcp.WithString("phone",
				mcp.Description("Mobile phone number"),
			),
			mcp.WithString("company",
				mcp.Description("Company name"),
			),
		),
		handlers.CreateContact(deps.Graph),
	)

	// list-events — List calendar events in a window
	s.AddTool(
		mcp.NewTool("list-events",
			mcp.WithDescription("List calendar events in a time window. Defaults to the next 7 days."),
			mcp.WithString("start",
				mcp.Description("Window start in RFC 3339 format (default: now)"),
			),
			mcp.WithString("end",
				mcp.Description("Window end in RFC 3339 format (default: start + 7 days)"),
			),
			mcp.WithNumber("top",
				mcp.Description("Maximum number of events to return (default: 25)"),
			),
		),
		handlers.ListEvents(deps.Graph),
	)

	// create-event — Create a calendar event
	s.AddTool(
		mcp.NewTool("create-event",
			mcp.WithDescription("Create a new calendar event."),
			mcp.WithString("subject",
				mcp.Required(),
				mcp.Description("Event subject"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Event start in RFC 3339 format"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("Event end in RFC 3339 format"),
			),
			mcp.WithString("body",
				mcp.Description("Event body text"),
			),
			mcp.WithString("location",
				mcp.Description("Event location"),
			),
			mcp.WithArray("attendees",
				mcp.Description("Attendee email addresses"),
				mcp.WithStringItems(),
			),
		),
		handlers.CreateEvent(deps.Graph),
	)
}
