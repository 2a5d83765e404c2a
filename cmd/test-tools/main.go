package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()
	_ = godotenv.Load("env/.env")

	fmt.Println("🧪 Testing MCP Server and Tool Calling")
	fmt.Println("=======================================")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Build path to the MCP server binary
	serverPath := findServerBinary()
	if serverPath == "" {
		log.Fatal("❌ MCP server binary not found. Run: go build -o aqi-mcp ./cmd/aqi-mcp")
	}
	fmt.Println("✅ Test 1: MCP server binary found")

	// Start the MCP server
	cmd := exec.Command(serverPath)
	cmd.Env = append(os.Environ(),
		"GEMINI_API_KEY="+os.Getenv("GEMINI_API_KEY"),
		"NEO4J_URI="+os.Getenv("NEO4J_URI"),
		"NEO4J_PASSWORD="+os.Getenv("NEO4J_PASSWORD"),
	)
	cmd.Stderr = os.Stderr
	transport := &mcp.CommandTransport{Command: cmd}

	// Create client
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	// Connect to server
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MCP server: %v", err)
	}
	defer session.Close()
	fmt.Println("✅ Test 2: Connected to MCP server")

	// List available tools
	fmt.Println("\n✓ Test 3: Listing available tools")
	listResult, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("❌ Failed to list tools: %v", err)
	}
	fmt.Printf("  Found %d tools:\n", len(listResult.Tools))
	for _, tool := range listResult.Tools {
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}

	// Test 1: get_current_aqi always succeeds; a backend outage is
	// bridged with estimated data.
	fmt.Println("\n✓ Test 4: Testing get_current_aqi tool")
	aqiResult, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_current_aqi",
		Arguments: map[string]interface{}{},
	})
	if err != nil {
		fmt.Printf("  ❌ Current AQI tool failed: %v\n", err)
	} else {
		fmt.Println("  ✅ Current AQI tool called successfully")
		printContent(aqiResult, 3)
	}

	// Test 2: get_mask_guidance
	fmt.Println("\n✓ Test 5: Testing get_mask_guidance tool")
	maskResult, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "get_mask_guidance",
		Arguments: map[string]interface{}{
			"aqi":     320,
			"profile": "sensitive",
		},
	})
	if err != nil {
		fmt.Printf("  ❌ Mask guidance tool failed: %v\n", err)
	} else {
		fmt.Println("  ✅ Mask guidance tool called successfully")
		printContent(maskResult, 3)
	}

	// Test 3: ask_air_quality (with timeout)
	fmt.Println("\n✓ Test 6: Testing ask_air_quality tool")
	askCtx, askCancel := context.WithTimeout(ctx, 15*time.Second)
	defer askCancel()

	askResult, err := session.CallTool(askCtx, &mcp.CallToolParams{
		Name: "ask_air_quality",
		Arguments: map[string]interface{}{
			"question": "Which station recorded the worst AQI recently?",
		},
	})
	if err != nil {
		if askCtx.Err() == context.DeadlineExceeded {
			fmt.Println("  ⚠️  Ask tool timed out (may need Neo4j to be running)")
		} else {
			fmt.Printf("  ❌ Ask tool failed: %v\n", err)
		}
	} else {
		fmt.Println("  ✅ Ask tool called successfully")
		printContent(askResult, 0)
	}

	// Test 4: get_reading_history
	fmt.Println("\n✓ Test 7: Testing get_reading_history tool")
	historyResult, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "get_reading_history",
		Arguments: map[string]interface{}{
			"limit": 5,
		},
	})
	if err != nil {
		fmt.Printf("  ⚠️  History tool failed (may be empty database): %v\n", err)
	} else {
		fmt.Println("  ✅ History tool called successfully")
		if len(historyResult.Content) > 0 {
			fmt.Printf("  ✅ Received %d content items\n", len(historyResult.Content))
		}
	}

	fmt.Println("\n=======================================")
	fmt.Println("✅ All MCP tool calling tests complete!")
	fmt.Println("\n💡 To test interactively, run: go run ./cmd/mcp-client ./aqi-mcp")
}

func printContent(result *mcp.CallToolResult, limit int) {
	for i, content := range result.Content {
		if limit > 0 && i >= limit {
			fmt.Printf("  ... and %d more content items\n", len(result.Content)-i)
			break
		}
		switch v := content.(type) {
		case *mcp.TextContent:
			preview := v.Text
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			fmt.Printf("    %s\n", preview)
		default:
			fmt.Printf("    [%T]\n", content)
		}
	}
}

func findServerBinary() string {
	candidates := []string{
		"./aqi-mcp",
		"../../aqi-mcp",
		"../../../aqi-mcp",
	}
	for _, p := range candidates {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	return ""
}
