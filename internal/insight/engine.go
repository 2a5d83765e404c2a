// Package insight answers natural language questions about air quality
// by retrieving a relevant subgraph from Neo4j and grounding a Gemini
// response on it.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aqidash/internal/graph"

	"github.com/google/generative-ai-go/genai"
)

// ModelConfig defines configuration for a Gemini model.
type ModelConfig struct {
	Name        string
	Temperature float32
	TopP        float32
	TopK        int32
}

// AvailableModels defines the available Gemini models and their configurations.
var AvailableModels = map[string]ModelConfig{
	"flash": {
		Name:        "gemini-flash-latest",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"pro": {
		Name:        "gemini-pro-latest",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"flash-2": {
		Name:        "gemini-2.0-flash",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
	"experimental": {
		Name:        "gemini-2.0-flash-exp",
		Temperature: 0.7,
		TopP:        0.95,
		TopK:        40,
	},
}

// Engine grounds Gemini answers on the source-attribution graph.
type Engine struct {
	graphClient  graph.GraphClient
	geminiClient *genai.Client
	modelName    string
	config       ModelConfig
}

// NewEngine constructs an engine over the provided graph client.
func NewEngine(gc graph.GraphClient, gemini *genai.Client, modelKey string) *Engine {
	if modelKey == "" {
		modelKey = "flash"
	}
	config, ok := AvailableModels[modelKey]
	if !ok {
		config = AvailableModels["flash"]
	}

	return &Engine{
		graphClient:  gc,
		geminiClient: gemini,
		modelName:    config.Name,
		config:       config,
	}
}

// getModel returns a configured GenerativeModel instance.
func (e *Engine) getModel() *genai.GenerativeModel {
	model := e.geminiClient.GenerativeModel(e.modelName)
	model.SetTemperature(e.config.Temperature)
	model.SetTopP(e.config.TopP)
	model.SetTopK(e.config.TopK)
	return model
}

// Query answers a natural language question about the recorded air
// quality data.
func (e *Engine) Query(ctx context.Context, question string) (string, error) {
	// Step 1: Generate Cypher query using Gemini
	cypher, err := e.generateCypher(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to generate cypher: %w", err)
	}

	// Step 2: Retrieve the relevant subgraph
	graphData, err := e.graphClient.ExecuteCypher(ctx, cypher)
	if err != nil || len(graphData) == 0 {
		// If the generated query fails or returns nothing, fall back to
		// the most recent readings with all attached context.
		cypher = `
			MATCH (st:Station)-[:OBSERVED]->(rd:Reading)
			OPTIONAL MATCH (rd)-[:TRIGGERED]->(f:Flag)
			OPTIONAL MATCH (rd)-[:ATTRIBUTED_TO]->(src:Source)
			WITH st, rd,
				 collect(DISTINCT f.name) as flags,
				 collect(DISTINCT src.name) as sources
			RETURN st.name as station,
				   rd.aqi as aqi,
				   rd.category as category,
				   rd.pm25 as pm25,
				   rd.severity_level as severity,
				   rd.recorded_at as timestamp,
				   rd.provenance as provenance,
				   flags,
				   sources
			ORDER BY rd.recorded_at DESC
			LIMIT 5
		`
		graphData, err = e.graphClient.ExecuteCypher(ctx, cypher)
		if err != nil {
			return "", fmt.Errorf("failed to execute graph query: %w", err)
		}
	}

	// Step 3: Synthesize a grounded answer
	answer, err := e.synthesizeAnswer(ctx, question, graphData)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize answer: %w", err)
	}

	return answer, nil
}

// generateCypher uses Gemini to convert a natural language question into a Cypher query.
func (e *Engine) generateCypher(ctx context.Context, question string) (string, error) {
	model := e.getModel()

	prompt := fmt.Sprintf(`You are a Neo4j Cypher query expert. Convert the following question into a Cypher query for an air quality monitoring graph database.

Graph Schema:
- Nodes: Station, Reading, Flag, Source
- Relationships:
  - (Station)-[:OBSERVED]->(Reading)
  - (Reading)-[:TRIGGERED]->(Flag)
  - (Reading)-[:ATTRIBUTED_TO]->(Source)

Reading properties: station, recorded_at, aqi, category, pm25, pm10, no2, wind_speed, provenance, severity_level, risk_score, explanation
Flag properties: name (e.g., "severe_aqi", "pm25_critical", "stagnant_wind", "stubble_season")
Source properties: name (e.g., "Vehicular", "Industrial", "Stubble Burning", "Construction")

Question: %s

Return ONLY the Cypher query, no explanation. Limit results to 10.`, question)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	cypher := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return cleanCypherQuery(cypher), nil
}

// synthesizeAnswer uses Gemini to generate a natural language answer from graph data.
func (e *Engine) synthesizeAnswer(ctx context.Context, question string, graphData []map[string]any) (string, error) {
	model := e.getModel()

	graphJSON, err := json.MarshalIndent(graphData, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are an air quality analyst for the Delhi-NCR region. Answer the following question based on the graph database results.

Question: %s

Graph Data (from Neo4j):
%s

Provide a clear, concise answer explaining:
1. What the readings show
2. Attributed pollution sources if applicable
3. Health severity and who is affected
4. Recommended precautions if relevant

If the graph data is empty or insufficient, say so clearly.`, question, string(graphJSON))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "Unable to generate response from the available data.", nil
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// cleanCypherQuery removes markdown code blocks from Cypher queries.
func cleanCypherQuery(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, "```cypher")
	query = strings.TrimPrefix(query, "```")
	query = strings.TrimSuffix(query, "```")
	return strings.TrimSpace(query)
}
