package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// parseToolArguments validates and extracts the arguments map from an MCP tool request.
// Returns the arguments map or an error result if validation fails.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
// This helper eliminates the repeated pattern of json.Marshal + error handling + NewToolResultText.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// stringSliceArg extracts a []string from a decoded JSON array argument, ignoring
// any element that isn't a string rather than failing the whole request.
func stringSliceArg(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// conditionsArg extracts a [][]string from a decoded JSON array-of-arrays argument,
// matching the wire shape produced by internal/request's conditionsBody.
func conditionsArg(v interface{}) [][]string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([][]string, 0, len(raw))
	for _, row := range raw {
		out = append(out, stringSliceArg(row))
	}
	return out
}
