package mcp

import (
	"strings"
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

var groupOrder = []testagentv1.TraceGroup{
	testagentv1.TraceGroupTrajectory,
	testagentv1.TraceGroupNavigation,
	testagentv1.TraceGroupInference,
	testagentv1.TraceGroupSafetyCritical,
}

// compactEvent returns an agent-readable form of a trace event: the
// timestamp as RFC 3339 and the groups bitmask expanded into names.
func compactEvent(ev *testagentv1.TraceEvent) map[string]any {
	return map[string]any{
		"timestamp":    time.Unix(0, int64(ev.GetTimestampNs())).UTC().Format(time.RFC3339Nano),
		"timestamp_ns": ev.GetTimestampNs(),
		"groups":       groupNames(ev.GetGroupsMask()),
		"severity":     shortName(ev.GetSeverity().String(), "TRACE_SEVERITY_"),
		"event_type":   shortName(ev.GetEventType().String(), "TRACE_EVENT_TYPE_"),
		"message":      ev.GetMessage(),
	}
}

func compactEvents(events []*testagentv1.TraceEvent) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		out = append(out, compactEvent(ev))
	}
	return out
}

// groupNames expands mask into lowercase group names. Bits outside the
// known groups are ignored.
func groupNames(mask uint32) []string {
	names := []string{}
	for _, g := range groupOrder {
		if mask&uint32(g) != 0 {
			names = append(names, shortName(g.String(), "TRACE_GROUP_"))
		}
	}
	return names
}

func shortName(full, prefix string) string {
	return strings.ToLower(strings.TrimPrefix(full, prefix))
}
