package tracing

// Span attribute keys.
const (
	AttrCommand  = "codenav.command"
	AttrRunID    = "codenav.run_id"
	AttrFile     = "codenav.file"
	AttrLanguage = "codenav.language"
	AttrLexer    = "codenav.lexer"
	AttrRow      = "codenav.row"
	AttrColumn   = "codenav.column"
	AttrRule     = "codenav.rule"
	AttrLines    = "codenav.lines"
	AttrChanged  = "codenav.changed"
	AttrCacheKey = "codenav.cache.key"

	AttrErrorMessage = "error.message"
)

// SpanPrefixCommand prefixes the span opened for each CLI command.
const SpanPrefixCommand = "command."

// Event names for span events.
const (
	EventIndentRule   = "indent.rule"
	EventExpandRule   = "expand.rule"
	EventModelLoaded  = "model.loaded"
	EventCacheHit     = "cache.hit"
	EventCacheMiss    = "cache.miss"
	EventFileChanged  = "file.changed"
	EventErrorOccured = "error.occurred"
)
