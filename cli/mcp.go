// ABOUTME: MCP server subcommand
// ABOUTME: Exposes CRM record tools over stdio for assistant integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/enterprise-crm/activity"
	"github.com/harperreed/enterprise-crm/handlers"
	"github.com/harperreed/enterprise-crm/store"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(st *store.Store, feed *activity.Log) error {
	log.Println("Starting CRM MCP Server...")

	recordHandlers := handlers.NewRecordHandlers(st, feed)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "enterprise-crm",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_records",
		Description: "Search CRM records by kind with optional text query and status filter",
	}, recordHandlers.FindRecords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_record",
		Description: "Fetch a single CRM record by kind and id",
	}, recordHandlers.GetRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_record",
		Description: "Create a CRM record (customer, lead, deal, quote, order, product, or inventory item)",
	}, recordHandlers.AddRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_record",
		Description: "Update fields on an existing CRM record",
	}, recordHandlers.UpdateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_record",
		Description: "Delete a CRM record by kind and id",
	}, recordHandlers.RemoveRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "crm_summary",
		Description: "Get record counts per collection plus open pipeline and won deal totals",
	}, recordHandlers.Summary)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
