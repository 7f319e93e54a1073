package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the event store.
	DatabaseBackend string

	// EventKind represents the kind of contribution record.
	EventKind string

	// Dominance represents the additions-vs-deletions classification of a bucket.
	Dominance string

	// Window represents a selectable time window.
	Window string

	// Theme represents the display theme.
	Theme string

	// Viewport represents the injected screen-size class.
	Viewport string

	// InputSource represents where activity is loaded from.
	InputSource string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text"
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	SVGOut     OutputMode = "svg"
	HTMLOut    OutputMode = "html"
	PNGOut     OutputMode = "png"
)

// All event store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All event kinds supported.
const (
	PullRequestEvent EventKind = "pull_request"
	IssueEvent       EventKind = "issue"
	CommitEvent      EventKind = "commit"
	StarEvent        EventKind = "star"
	ForkEvent        EventKind = "fork"
)

// Dominance classes.
const (
	AdditionsDominant Dominance = "additions"
	DeletionsDominant Dominance = "deletions"
	Balanced          Dominance = "balanced"
)

// All windows supported.
const (
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
	Window1y  Window = "1y"
	WindowAll Window = "all"
)

// All themes supported.
const (
	LightTheme Theme = "light"
	DarkTheme  Theme = "dark"
)

// All viewport classes supported.
const (
	RegularViewport Viewport = "regular"
	CompactViewport Viewport = "compact"
)

// All input sources supported.
const (
	FileSource InputSource = "file" // default
	DBSource   InputSource = "db"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	SVGOut:     {},
	HTMLOut:    {},
	PNGOut:     {},
}

// ValidDatabaseBackends lists all valid event store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidEventKinds lists all valid event kinds.
var ValidEventKinds = map[EventKind]struct{}{
	PullRequestEvent: {},
	IssueEvent:       {},
	CommitEvent:      {},
	StarEvent:        {},
	ForkEvent:        {},
}

// WindowDays maps each bounded window to its length in days.
// WindowAll is intentionally absent.
var WindowDays = map[Window]int{
	Window7d:  7,
	Window30d: 30,
	Window90d: 90,
	Window1y:  365,
}

// ValidThemes lists all valid themes.
var ValidThemes = map[Theme]struct{}{
	LightTheme: {},
	DarkTheme:  {},
}

// ValidViewports lists all valid viewport classes.
var ValidViewports = map[Viewport]struct{}{
	RegularViewport: {},
	CompactViewport: {},
}

// ValidInputSources lists all valid input sources.
var ValidInputSources = map[InputSource]struct{}{
	FileSource: {},
	DBSource:   {},
}
