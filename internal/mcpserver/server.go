// Package mcpserver exposes the air quality stack to MCP clients:
// AI-grounded Q&A, live readings, graph queries, and reading history.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/option"

	"aqidash/internal/api"
	"aqidash/internal/config"
	"aqidash/internal/fallback"
	"aqidash/internal/flagger"
	"aqidash/internal/graph"
	"aqidash/internal/insight"
	"aqidash/internal/poller"
	"aqidash/internal/recorder"
	"aqidash/internal/store"
)

// SnapshotFetcher is the slice of the backend client the server needs.
type SnapshotFetcher interface {
	CurrentAQI(ctx context.Context) (*api.CurrentAQI, error)
	MaskGuidance(ctx context.Context, aqi int, profile string) (*api.MaskGuidance, error)
}

// HistoryRepo answers reading history queries.
type HistoryRepo interface {
	RecentReadings(ctx context.Context, station string, limit int) ([]store.Reading, error)
	TrendAnalysis(ctx context.Context, station string, window time.Duration) (*store.Trend, error)
}

// Server wraps the MCP server with air quality capabilities.
type Server struct {
	mcpServer     *mcp.Server
	insightEngine *insight.Engine
	fetcher       SnapshotFetcher
	fallbackGen   *fallback.Generator
	historyRepo   HistoryRepo
	graphClient   graph.GraphClient
	geminiClient  *genai.Client
	profile       string

	// Background ingestion keeps the graph populated for the insight
	// engine while the server runs.
	rec      *recorder.Recorder
	headline *poller.Poller[*api.CurrentAQI]
}

// ServerInfo names the server toward MCP clients.
type ServerInfo struct {
	Name    string
	Version string
}

// NewServer creates a new MCP server instance over an already migrated
// store.
func NewServer(info ServerInfo, cfg config.Config, repo *store.Repo) (*Server, error) {
	ctx := context.Background()

	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	graphClient, err := graph.NewNeo4jClient(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
	if err != nil {
		geminiClient.Close()
		return nil, fmt.Errorf("failed to create neo4j client: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Using Gemini model: %s\n", cfg.Gemini.Model)
	engine := insight.NewEngine(graphClient, geminiClient, cfg.Gemini.Model)

	client := api.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), nil)
	gen := fallback.NewGenerator(cfg.Fallback.Seed, cfg.Location.Area)

	impl := &mcp.Implementation{
		Name:    info.Name,
		Version: info.Version,
	}

	s := &Server{
		mcpServer:     mcp.NewServer(impl, nil),
		insightEngine: engine,
		fetcher:       client,
		fallbackGen:   gen,
		graphClient:   graphClient,
		geminiClient:  geminiClient,
		profile:       cfg.Health.Profile,
	}
	// The concrete pointer must be checked before assignment; a nil
	// *store.Repo boxed into the interface would pass later nil checks.
	if repo != nil {
		s.historyRepo = repo
	}

	s.registerTools()

	if repo == nil {
		// Without a store there is nothing to record; live readings,
		// graph queries, and guidance still work.
		fmt.Fprintf(os.Stderr, "No reading history store; background ingestion disabled\n")
		return s, nil
	}

	flaggerSvc := flagger.NewFlaggerService(flagger.DefaultConfig())
	rec, err := recorder.New(flaggerSvc, repo, graphClient, nil)
	if err != nil {
		geminiClient.Close()
		graphClient.Close(ctx)
		return nil, fmt.Errorf("failed to create recorder: %w", err)
	}
	s.rec = rec

	// Keep readings flowing into DuckDB and Neo4j while clients talk to
	// us, so history and insight queries have data.
	s.headline = poller.New("mcp-headline",
		poller.Config{
			Interval: cfg.CurrentInterval(),
			Timeout:  cfg.RequestTimeout(),
			FreshFor: cfg.FreshFor(),
		},
		client.CurrentAQI,
		gen.CurrentAQI,
		func(u poller.Update[*api.CurrentAQI]) {
			recCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.rec.Record(recCtx, u); err != nil {
				fmt.Fprintf(os.Stderr, "Background ingest failed: %v\n", err)
			}
		},
		nil)
	s.headline.Start(context.Background())
	fmt.Fprintf(os.Stderr, "Background data ingestion started (interval: %v)\n", cfg.CurrentInterval())

	return s, nil
}

// AskAirQualityArgs defines the input for ask_air_quality tool.
type AskAirQualityArgs struct {
	Question string `json:"question" jsonschema:"the question to ask about air quality"`
}

// AskAirQualityResult defines the output for ask_air_quality tool.
type AskAirQualityResult struct {
	Answer string `json:"answer" jsonschema:"AI-generated answer"`
}

// CurrentAQIArgs defines the input for get_current_aqi tool.
type CurrentAQIArgs struct{}

// QueryGraphArgs defines the input for query_graph tool.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Data interface{} `json:"data" jsonschema:"query results"`
}

// ReadingHistoryArgs defines the input for get_reading_history tool.
type ReadingHistoryArgs struct {
	Station string `json:"station,omitempty" jsonschema:"station name to filter by"`
	Limit   int    `json:"limit,omitempty" jsonschema:"number of readings to return"`
}

// ReadingHistoryResult wraps reading history results.
type ReadingHistoryResult struct {
	Readings []store.Reading `json:"readings" jsonschema:"historical readings"`
}

// TrendArgs defines the input for get_aqi_trend tool.
type TrendArgs struct {
	Station     string `json:"station" jsonschema:"station name"`
	WindowHours int    `json:"window_hours,omitempty" jsonschema:"analysis window in hours"`
}

// MaskGuidanceArgs defines the input for get_mask_guidance tool.
type MaskGuidanceArgs struct {
	AQI     int    `json:"aqi,omitempty" jsonschema:"AQI value to advise on"`
	Profile string `json:"profile,omitempty" jsonschema:"health profile: general, sensitive, children, elderly, outdoor_worker"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool 1: ask_air_quality - graph-grounded Q&A
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ask_air_quality",
		Description: "Ask complex questions about Delhi-NCR air quality, pollution sources, and health impact using AI-powered graph analysis. Use this for 'why' questions and causal reasoning about pollution patterns.",
	}, s.handleAskAirQuality)

	// Tool 2: get_current_aqi - live reading with fallback
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_current_aqi",
		Description: "Get the latest air quality reading from the backend. Returns AQI, category, pollutant concentrations, and weather. When the backend is unreachable a clearly labeled estimate is returned instead.",
	}, s.handleGetCurrentAQI)

	// Tool 3: query_graph - direct Cypher access for power users
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_graph",
		Description: "Execute Cypher queries directly on the Neo4j graph database. For advanced users who want to explore the graph structure. Available nodes: Station, Reading, Flag, Source.",
	}, s.handleQueryGraph)

	// Tool 4: get_reading_history - query DuckDB for time series
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_reading_history",
		Description: "Query historical readings from DuckDB. Use for time-series analysis. Returns readings with AQI, pollutant levels, provenance, severity, and explanations.",
	}, s.handleGetReadingHistory)

	// Tool 5: get_aqi_trend - trend analysis over a window
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_aqi_trend",
		Description: "Analyze how the AQI moved for a station over a time window. Returns direction (improving, worsening, stable), change percentage, and min/mean/max.",
	}, s.handleGetTrend)

	// Tool 6: get_mask_guidance - protection advice
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_mask_guidance",
		Description: "Get mask and protection guidance for an AQI level and health profile, with usage tips and purchase options.",
	}, s.handleGetMaskGuidance)
}

// handleAskAirQuality answers questions grounded on the graph.
func (s *Server) handleAskAirQuality(ctx context.Context, _ *mcp.CallToolRequest, args AskAirQualityArgs) (*mcp.CallToolResult, AskAirQualityResult, error) {
	answer, err := s.insightEngine.Query(ctx, args.Question)
	if err != nil {
		return nil, AskAirQualityResult{}, fmt.Errorf("insight query failed: %w", err)
	}
	return nil, AskAirQualityResult{Answer: answer}, nil
}

// handleGetCurrentAQI fetches the live reading, substituting a labeled
// estimate when the backend is down.
func (s *Server) handleGetCurrentAQI(ctx context.Context, _ *mcp.CallToolRequest, _ CurrentAQIArgs) (*mcp.CallToolResult, *api.CurrentAQI, error) {
	snap, err := s.fetcher.CurrentAQI(ctx)
	if err != nil {
		snap = s.fallbackGen.CurrentAQI()
	}
	return nil, snap, nil
}

// handleQueryGraph executes Cypher queries.
func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	result, err := s.graphClient.ExecuteCypher(ctx, args.Cypher)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	return nil, QueryGraphResult{Data: result}, nil
}

// handleGetReadingHistory queries DuckDB.
func (s *Server) handleGetReadingHistory(ctx context.Context, _ *mcp.CallToolRequest, args ReadingHistoryArgs) (*mcp.CallToolResult, ReadingHistoryResult, error) {
	if s.historyRepo == nil {
		return nil, ReadingHistoryResult{}, fmt.Errorf("reading history is not available")
	}
	limit := args.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	readings, err := s.historyRepo.RecentReadings(ctx, args.Station, limit)
	if err != nil {
		return nil, ReadingHistoryResult{}, fmt.Errorf("failed to query readings: %w", err)
	}
	return nil, ReadingHistoryResult{Readings: readings}, nil
}

// handleGetTrend analyzes the AQI movement for a station.
func (s *Server) handleGetTrend(ctx context.Context, _ *mcp.CallToolRequest, args TrendArgs) (*mcp.CallToolResult, *store.Trend, error) {
	if s.historyRepo == nil {
		return nil, nil, fmt.Errorf("reading history is not available")
	}
	if args.Station == "" {
		return nil, nil, fmt.Errorf("station is required")
	}
	hours := args.WindowHours
	if hours <= 0 {
		hours = 24
	}

	trend, err := s.historyRepo.TrendAnalysis(ctx, args.Station, time.Duration(hours)*time.Hour)
	if err != nil {
		return nil, nil, fmt.Errorf("trend analysis failed: %w", err)
	}
	return nil, trend, nil
}

// handleGetMaskGuidance fetches protection advice with fallback.
func (s *Server) handleGetMaskGuidance(ctx context.Context, _ *mcp.CallToolRequest, args MaskGuidanceArgs) (*mcp.CallToolResult, *api.MaskGuidance, error) {
	profile := args.Profile
	if profile == "" {
		profile = s.profile
	}

	guide, err := s.fetcher.MaskGuidance(ctx, args.AQI, profile)
	if err != nil {
		guide = s.fallbackGen.MaskGuidance(args.AQI, profile)
	}
	return nil, guide, nil
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	fmt.Fprintf(os.Stderr, "Starting aqidash MCP server on stdio...\n")
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}

// Close cleans up resources.
func (s *Server) Close(ctx context.Context) error {
	if s.headline != nil {
		s.headline.Stop()
	}
	if s.rec != nil {
		s.rec.Close() // also closes the graph client
	} else if s.graphClient != nil {
		s.graphClient.Close(ctx)
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	return nil
}
