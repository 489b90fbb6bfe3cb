package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"codenav/internal/envelope"
	naverrors "codenav/internal/errors"
	"codenav/internal/navigator"
	"codenav/internal/provider"
)

// defaultMaxResults bounds findReferences when the caller does not set
// an explicit limit.
const defaultMaxResults = 100

// registerTools wires every tool handler.
func (s *Server) registerTools() {
	s.tools["initializeWorkspace"] = s.handleInitializeWorkspace
	s.tools["getTypeAtPosition"] = s.handleGetTypeAtPosition
	s.tools["getAvailableMembers"] = s.handleGetAvailableMembers
	s.tools["findSymbolDefinition"] = s.handleFindSymbolDefinition
	s.tools["findReferences"] = s.handleFindReferences
	s.tools["findImplementations"] = s.handleFindImplementations
	s.tools["getTypeHierarchy"] = s.handleGetTypeHierarchy
	s.tools["analyzeCodeBlock"] = s.handleAnalyzeCodeBlock
	s.tools["getCompilationDiagnostics"] = s.handleGetCompilationDiagnostics
	s.tools["getStatus"] = s.handleGetStatus
}

// withContext resolves the owning descriptor for a file and runs fn
// against its loaded context, holding an operation slot for the
// duration so mid-flight invalidation cannot release the context. An
// explicit "project" argument overrides upward resolution.
func (s *Server) withContext(params map[string]interface{}, file string, fn func(ctx context.Context, pctx provider.Context) *envelope.Response) *envelope.Response {
	if project, ok := stringParam(params, "project"); ok {
		return s.withDescriptor(project, fn)
	}
	descriptor, ok := s.registry.FindDescriptorForFile(file)
	if !ok {
		return failure(naverrors.DescriptorNotFound,
			fmt.Sprintf("no solution or project found for %s", file))
	}
	return s.withDescriptor(descriptor, fn)
}

func (s *Server) handleInitializeWorkspace(params map[string]interface{}) *envelope.Response {
	root, _ := stringParam(params, "workspaceRoot")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return envelope.Failure(err)
		}
		root = cwd
	}
	preferred, _ := stringParam(params, "solutionPath")

	info, err := s.registry.Initialize(root, preferred)
	if err != nil {
		return envelope.Failure(err)
	}
	return envelope.Success(map[string]interface{}{
		"sessionId": s.sessionID,
		"provider":  s.providerName,
		"workspace": info,
	})
}

func (s *Server) handleGetTypeAtPosition(params map[string]interface{}) *envelope.Response {
	file, line, column, resp := positionParams(params)
	if resp != nil {
		return resp
	}
	return s.withContext(params, file, func(ctx context.Context, pctx provider.Context) *envelope.Response {
		desc, err := s.nav.ResolveAtPosition(ctx, pctx, file, line, column)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(desc)
	})
}

func (s *Server) handleGetAvailableMembers(params map[string]interface{}) *envelope.Response {
	file, line, column, resp := positionParams(params)
	if resp != nil {
		return resp
	}
	q := navigator.MemberQuery{
		File:              file,
		Line:              line,
		Column:            column,
		IncludeExtensions: boolParam(params, "includeExtensions", false),
		IncludeStatic:     boolParam(params, "includeStatic", false),
	}
	q.NamePrefix, _ = stringParam(params, "namePrefix")

	return s.withContext(params, file, func(ctx context.Context, pctx provider.Context) *envelope.Response {
		members, err := s.nav.ListMembers(ctx, pctx, q)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(map[string]interface{}{
			"members": members,
			"count":   len(members),
		})
	})
}

func (s *Server) handleFindSymbolDefinition(params map[string]interface{}) *envelope.Response {
	file, line, column, resp := positionParams(params)
	if resp != nil {
		return resp
	}
	return s.withContext(params, file, func(ctx context.Context, pctx provider.Context) *envelope.Response {
		def, err := s.nav.FindDefinition(ctx, pctx, file, line, column)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(def)
	})
}

func (s *Server) handleFindReferences(params map[string]interface{}) *envelope.Response {
	file, line, column, resp := positionParams(params)
	if resp != nil {
		return resp
	}
	q := navigator.ReferenceQuery{
		File:               file,
		Line:               line,
		Column:             column,
		MaxResults:         intParam(params, "maxResults", defaultMaxResults),
		IncludeDeclaration: boolParam(params, "includeDeclaration", false),
	}
	if q.MaxResults <= 0 {
		q.MaxResults = defaultMaxResults
	}

	return s.withContext(params, file, func(ctx context.Context, pctx provider.Context) *envelope.Response {
		result, err := s.nav.FindReferences(ctx, pctx, q)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(result)
	})
}

func (s *Server) handleFindImplementations(params map[string]interface{}) *envelope.Response {
	q := navigator.ImplementationQuery{
		FindInterfaceImpls: boolParam(params, "findInterfaceImpls", true),
		FindDerived:        boolParam(params, "findDerived", true),
	}
	q.Name, _ = stringParam(params, "typeName")

	run := func(ctx context.Context, pctx provider.Context) *envelope.Response {
		return s.implementationsResponse(ctx, pctx, q)
	}

	var file string
	if q.Name == "" {
		var resp *envelope.Response
		file, q.Line, q.Column, resp = positionParams(params)
		if resp != nil {
			return resp
		}
		q.File = file
	} else {
		// Name lookup still needs a loaded context; any known file or
		// the anchor descriptor provides it.
		file, _ = stringParam(params, "filePath")
		if file == "" {
			return s.withAnchor(params, run)
		}
	}

	return s.withContext(params, file, run)
}

func (s *Server) implementationsResponse(ctx context.Context, pctx provider.Context, q navigator.ImplementationQuery) *envelope.Response {
	impls, err := s.nav.FindImplementations(ctx, pctx, q)
	if err != nil {
		return envelope.Failure(err)
	}
	return envelope.Success(map[string]interface{}{
		"implementations": impls,
		"count":           len(impls),
	})
}

func (s *Server) handleGetTypeHierarchy(params map[string]interface{}) *envelope.Response {
	q := navigator.HierarchyQuery{}
	q.Name, _ = stringParam(params, "typeName")
	if direction, ok := stringParam(params, "direction"); ok {
		q.Direction = navigator.HierarchyDirection(direction)
	}

	run := func(ctx context.Context, pctx provider.Context) *envelope.Response {
		res, err := s.nav.GetHierarchy(ctx, pctx, q)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(res)
	}

	if q.Name == "" {
		file, line, column, resp := positionParams(params)
		if resp != nil {
			return resp
		}
		q.File, q.Line, q.Column = file, line, column
		return s.withContext(params, file, run)
	}
	if file, _ := stringParam(params, "filePath"); file != "" {
		return s.withContext(params, file, run)
	}
	return s.withAnchor(params, run)
}

func (s *Server) handleAnalyzeCodeBlock(params map[string]interface{}) *envelope.Response {
	file, ok := stringParam(params, "filePath")
	if !ok {
		return failure(naverrors.ProviderInternalFailure, "filePath is required")
	}
	startLine := intParam(params, "startLine", 0)
	endLine := intParam(params, "endLine", 0)
	if startLine < 1 || endLine < startLine {
		return failure(naverrors.ProviderInternalFailure,
			fmt.Sprintf("invalid line range %d..%d", startLine, endLine))
	}

	return s.withContext(params, file, func(ctx context.Context, pctx provider.Context) *envelope.Response {
		res, err := s.nav.AnalyzeBlock(ctx, pctx, file, startLine, endLine)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(res)
	})
}

func (s *Server) handleGetCompilationDiagnostics(params map[string]interface{}) *envelope.Response {
	file, _ := stringParam(params, "filePath")
	severity := provider.SeverityHidden
	if raw, ok := stringParam(params, "minimumSeverity"); ok {
		severity = provider.DiagnosticSeverity(raw)
	}

	if file == "" {
		return s.withAnchor(params, func(ctx context.Context, pctx provider.Context) *envelope.Response {
			return s.diagnosticsResponse(ctx, pctx, "", severity)
		})
	}
	return s.withContext(params, file, func(ctx context.Context, pctx provider.Context) *envelope.Response {
		return s.diagnosticsResponse(ctx, pctx, file, severity)
	})
}

func (s *Server) diagnosticsResponse(ctx context.Context, pctx provider.Context, file string, severity provider.DiagnosticSeverity) *envelope.Response {
	diags, err := s.nav.GetDiagnostics(ctx, pctx, file, severity)
	if err != nil {
		return envelope.Failure(err)
	}
	return envelope.Success(map[string]interface{}{
		"diagnostics": diags,
		"count":       len(diags),
	})
}

func (s *Server) handleGetStatus(params map[string]interface{}) *envelope.Response {
	status := map[string]interface{}{
		"version":   s.version,
		"sessionId": s.sessionID,
		"provider":  s.providerName,
		"uptimeMs":  time.Since(s.startedAt).Milliseconds(),
		"contexts":  s.cache.Stats(),
	}
	if info := s.registry.Current(); info != nil {
		status["workspace"] = info
	}
	if s.db != nil {
		if aggs, err := s.db.ToolAggregates(); err == nil {
			status["toolMetrics"] = aggs
		}
	}
	return envelope.Success(status)
}

// primaryDescriptor returns the primary solution path, or "" before
// initialization.
func (s *Server) primaryDescriptor() string {
	info := s.registry.Current()
	if info == nil || info.PrimarySolution == nil {
		return ""
	}
	return info.PrimarySolution.Path
}

// withAnchor runs fn against the explicit project context, or the
// primary solution when none is given. Context-wide queries with no
// file to resolve from land here.
func (s *Server) withAnchor(params map[string]interface{}, fn func(ctx context.Context, pctx provider.Context) *envelope.Response) *envelope.Response {
	if project, ok := stringParam(params, "project"); ok {
		return s.withDescriptor(project, fn)
	}
	if primary := s.primaryDescriptor(); primary != "" {
		return s.withDescriptor(primary, fn)
	}
	return failure(naverrors.DescriptorNotFound, "workspace not initialized")
}

// withDescriptor is withContext for an already-known descriptor path.
func (s *Server) withDescriptor(descriptor string, fn func(ctx context.Context, pctx provider.Context) *envelope.Response) *envelope.Response {
	ctx := context.Background()
	pctx, release, err := s.cache.Acquire(ctx, descriptor)
	if err != nil {
		return envelope.Failure(err)
	}
	defer release()
	return fn(ctx, pctx)
}

// positionParams extracts the common filePath/line/column triple.
func positionParams(params map[string]interface{}) (file string, line, column int, resp *envelope.Response) {
	file, ok := stringParam(params, "filePath")
	if !ok {
		return "", 0, 0, failure(naverrors.ProviderInternalFailure, "filePath is required")
	}
	line = intParam(params, "line", 0)
	column = intParam(params, "column", 0)
	if line < 1 || column < 1 {
		return "", 0, 0, failure(naverrors.ProviderInternalFailure,
			"line and column are required and 1-based")
	}
	return file, line, column, nil
}

func stringParam(params map[string]interface{}, key string) (string, bool) {
	v, ok := params[key].(string)
	return v, ok && v != ""
}

func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}
