package storage

import (
	"fmt"
	"time"
)

// ToolAggregate is the per-tool rollup of recorded invocations.
type ToolAggregate struct {
	ToolName   string  `json:"toolName"`
	CallCount  int64   `json:"callCount"`
	ErrorCount int64   `json:"errorCount"`
	TotalMs    int64   `json:"totalMs"`
	AvgMs      float64 `json:"avgMs"`
}

// RecordToolCall persists one tool invocation.
func (db *DB) RecordToolCall(toolName string, success bool, errorCode string, duration time.Duration) error {
	successInt := 0
	if success {
		successInt = 1
	}
	_, err := db.conn.Exec(`
		INSERT INTO tool_metrics (tool_name, success, error_code, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, toolName, successInt, errorCode, duration.Milliseconds(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record tool call: %w", err)
	}
	return nil
}

// ToolAggregates returns the rollup for every tool with recorded calls,
// keyed by tool name.
func (db *DB) ToolAggregates() (map[string]*ToolAggregate, error) {
	rows, err := db.conn.Query(`
		SELECT tool_name,
		       COUNT(*),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		       COALESCE(SUM(duration_ms), 0)
		FROM tool_metrics
		GROUP BY tool_name
	`)
	if err != nil {
		return nil, fmt.Errorf("tool aggregates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*ToolAggregate)
	for rows.Next() {
		agg := &ToolAggregate{}
		if err := rows.Scan(&agg.ToolName, &agg.CallCount, &agg.ErrorCount, &agg.TotalMs); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		if agg.CallCount > 0 {
			agg.AvgMs = float64(agg.TotalMs) / float64(agg.CallCount)
		}
		out[agg.ToolName] = agg
	}
	return out, rows.Err()
}
