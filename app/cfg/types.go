package cfg

type Cfg struct {
	// HTTP server configuration
	Port string

	// Tool server configuration
	MCPTransport string

	// Aggregation configuration
	SourcesDir   string
	FetchTimeout int // seconds
	CacheTTL     int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
