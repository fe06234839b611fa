package config

// CapstanConfig is the top-level configuration structure for capstan.
type CapstanConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Sanitizer SanitizerConfig `yaml:"sanitizer"`
}

const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

// ServerConfig defines how the capability server is exposed.
type ServerConfig struct {
	Name         string `yaml:"name,omitempty"`         // Server name advertised to clients (default: "capstan")
	Host         string `yaml:"host,omitempty"`         // Host to bind to (default: localhost)
	Port         int    `yaml:"port,omitempty"`         // Port for HTTP transports (default: 8090)
	Transport    string `yaml:"transport,omitempty"`    // Transport to use (default: streamable-http)
	Declarations string `yaml:"declarations,omitempty"` // Directory of declaration units (default: "declarations")
	Watch        bool   `yaml:"watch,omitempty"`        // Recompile when declaration units change
}

// SanitizerConfig tunes the argument sanitizer.
type SanitizerConfig struct {
	Strict        bool `yaml:"strict,omitempty"`        // Reject flagged input instead of warning
	MaxDepth      int  `yaml:"maxDepth,omitempty"`      // Nesting depth limit (default: 10)
	ValidateFirst bool `yaml:"validateFirst,omitempty"` // Run validation before sanitization
}
