package mcp

import "codenav/internal/envelope"

// Tool is one tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler handles a tool call and returns an envelope response.
type ToolHandler func(params map[string]interface{}) *envelope.Response

func positionProperties() map[string]interface{} {
	return map[string]interface{}{
		"filePath": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path of a source file inside the workspace",
		},
		"line": map[string]interface{}{
			"type":        "integer",
			"description": "1-based line number",
		},
		"column": map[string]interface{}{
			"type":        "integer",
			"description": "1-based column number",
		},
		"project": map[string]interface{}{
			"type":        "string",
			"description": "Explicit solution or project descriptor path, overriding upward resolution (optional)",
		},
	}
}

// toolDefinitions returns all tool definitions
func (s *Server) toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "initializeWorkspace",
			Description: "Discover solutions and projects under a workspace root and select the primary solution. Must be called before position-based tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspaceRoot": map[string]interface{}{
						"type":        "string",
						"description": "Directory to scan. Defaults to the server's working directory.",
					},
					"solutionPath": map[string]interface{}{
						"type":        "string",
						"description": "Preferred solution to select as primary (optional)",
					},
				},
			},
		},
		{
			Name:        "getTypeAtPosition",
			Description: "Resolve the symbol or type under a cursor position: name, kind, full type name, base type, and interfaces.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": positionProperties(),
				"required":   []string{"filePath", "line", "column"},
			},
		},
		{
			Name:        "getAvailableMembers",
			Description: "List the accessible members of the type at a cursor position, optionally including compatible extension methods from imported namespaces.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(positionProperties(), map[string]interface{}{
					"includeExtensions": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Include extension methods from namespaces imported above the cursor",
					},
					"includeStatic": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Include static members",
					},
					"namePrefix": map[string]interface{}{
						"type":        "string",
						"description": "Case-insensitive member name prefix filter",
					},
				}),
				"required": []string{"filePath", "line", "column"},
			},
		},
		{
			Name:        "findSymbolDefinition",
			Description: "Locate the source declaration of the symbol at a cursor position.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": positionProperties(),
				"required":   []string{"filePath", "line", "column"},
			},
		},
		{
			Name:        "findReferences",
			Description: "Find all references to the symbol at a cursor position. Results are truncated to maxResults but totalCount always reflects every occurrence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(positionProperties(), map[string]interface{}{
					"maxResults": map[string]interface{}{
						"type":        "integer",
						"default":     defaultMaxResults,
						"description": "Maximum number of references to materialize",
					},
					"includeDeclaration": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Include the declaration itself among the results",
					},
				}),
				"required": []string{"filePath", "line", "column"},
			},
		},
		{
			Name:        "findImplementations",
			Description: "Find concrete types implementing an interface or deriving from a class. Identify the target by name or by cursor position.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(positionProperties(), map[string]interface{}{
					"typeName": map[string]interface{}{
						"type":        "string",
						"description": "Full or simple type name. When set, position parameters are ignored.",
					},
					"findInterfaceImpls": map[string]interface{}{
						"type":        "boolean",
						"default":     true,
						"description": "When the target is an interface, search for implementing types",
					},
					"findDerived": map[string]interface{}{
						"type":        "boolean",
						"default":     true,
						"description": "When the target is a class, search for derived classes",
					},
				}),
			},
		},
		{
			Name:        "getTypeHierarchy",
			Description: "Report a type's base chain (excluding the universal root), derived classes, and implemented interfaces.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(positionProperties(), map[string]interface{}{
					"typeName": map[string]interface{}{
						"type":        "string",
						"description": "Full or simple type name. When set, position parameters are ignored.",
					},
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"base", "derived", "both"},
						"default":     "both",
						"description": "Which halves of the hierarchy to include",
					},
				}),
			},
		},
		{
			Name:        "analyzeCodeBlock",
			Description: "Analyze a contiguous line range: diagnostics, declared and referenced symbols, cyclomatic complexity, and line count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filePath": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of a source file inside the workspace",
					},
					"startLine": map[string]interface{}{
						"type":        "integer",
						"description": "1-based first line of the block, inclusive",
					},
					"endLine": map[string]interface{}{
						"type":        "integer",
						"description": "1-based last line of the block, inclusive",
					},
					"project": map[string]interface{}{
						"type":        "string",
						"description": "Explicit solution or project descriptor path, overriding upward resolution (optional)",
					},
				},
				"required": []string{"filePath", "startLine", "endLine"},
			},
		},
		{
			Name:        "getCompilationDiagnostics",
			Description: "Get compilation diagnostics for one file or the whole context, filtered by minimum severity.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filePath": map[string]interface{}{
						"type":        "string",
						"description": "Source file to scope to. Empty scopes to the whole context.",
					},
					"minimumSeverity": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"hidden", "info", "warning", "error"},
						"default":     "hidden",
						"description": "Lowest severity to include",
					},
					"project": map[string]interface{}{
						"type":        "string",
						"description": "Explicit solution or project descriptor path, overriding upward resolution (optional)",
					},
				},
			},
		},
		{
			Name:        "getStatus",
			Description: "Get session status: version, workspace info, loaded contexts, and tool metrics.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

func merge(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
