// ABOUTME: Entry point for the CRM server, MCP server, and CLI
// ABOUTME: Routes to serve, mcp, seed, and record commands based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/enterprise-crm/activity"
	"github.com/harperreed/enterprise-crm/api"
	"github.com/harperreed/enterprise-crm/cli"
	"github.com/harperreed/enterprise-crm/store"
	"github.com/harperreed/enterprise-crm/web"
)

const version = "0.1.0"

func main() {
	// .env is optional; environment variables win over defaults below
	_ = godotenv.Load()

	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/enterprise-crm)")
	apiPort := flag.Int("api-port", envInt("CRM_API_PORT", 5000), "REST API port")
	webPort := flag.Int("web-port", envInt("CRM_WEB_PORT", 8080), "Web UI port")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("enterprise-crm version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	dir := getDataDir(*dataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.Open(filepath.Join(dir, "records"))
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer st.Close()

	feed, err := activity.Open(filepath.Join(dir, "activity.db"))
	if err != nil {
		log.Fatalf("Failed to open activity log: %v", err)
	}
	defer feed.Close()

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		log.Printf("CRM data directory: %s", dir)
		if err := st.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed records: %v", err)
		}

		webServer, err := web.NewServer(st, feed)
		if err != nil {
			log.Fatalf("Failed to start web server: %v", err)
		}
		go func() {
			if err := webServer.Start(*webPort); err != nil {
				log.Fatalf("Web server failed: %v", err)
			}
		}()

		router := api.NewRouter(st, feed)
		addr := fmt.Sprintf(":%d", *apiPort)
		log.Printf("Starting API server at http://localhost%s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Fatalf("API server failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(st, feed); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "seed":
		if err := st.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed records: %v", err)
		}
		log.Println("Seed data loaded")

	case "list":
		if err := cli.ListCommand(st, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "add":
		if err := cli.AddCommand(st, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDataDir(dataDir string) string {
	if dataDir != "" {
		return dataDir
	}
	if env := os.Getenv("CRM_DATA_DIR"); env != "" {
		return env
	}
	return filepath.Join(xdg.DataHome, "enterprise-crm")
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func printUsage() {
	fmt.Printf(`enterprise-crm v%s - CRM server and toolkit

USAGE:
  enterprise-crm [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Data directory (default: ~/.local/share/enterprise-crm)
  --api-port <port>      REST API port (default: 5000, env CRM_API_PORT)
  --web-port <port>      Web UI port (default: 8080, env CRM_WEB_PORT)

COMMANDS:
  serve                  Start the REST API and web UI (seeds demo data on first run)
  mcp                    Start MCP server on stdio
  seed                   Load seed data and exit
  list                   List records in the terminal
  add                    Add a record from the terminal

RECORD COMMANDS:
  enterprise-crm list    List records
    --kind <kind>          Collection: customers, leads, deals, quotes, orders, products, inventory
    --q <text>             Search text
    --status <status>      Filter by exact status
    --sort <key>           created-desc, created-asc, name-asc, name-desc

  enterprise-crm add     Add a record
    --kind <kind>          Collection (required)
    --field key=value      Record field (repeatable)

EXAMPLES:
  # Start the API on :5000 and web UI on :8080
  enterprise-crm serve

  # Add a customer
  enterprise-crm add --kind customers --field name="Priya Sharma" --field email=priya@example.com

  # List qualified leads
  enterprise-crm list --kind leads --status Qualified

`, version)
}
