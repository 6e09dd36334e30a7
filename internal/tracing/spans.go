package tracing

// Span attribute keys.
const (
	AttrRoute        = "route.name"
	AttrPattern      = "route.pattern"
	AttrEventType    = "event.type"
	AttrViewName     = "view.name"
	AttrViewID       = "view.id"
	AttrPlayer       = "player.id"
	AttrCancelled    = "event.cancelled"
	AttrErrorMessage = "error.message"
)

// Span name prefixes.
const (
	SpanPrefixDispatch = "dispatch."
)
