package config

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() CapstanConfig {
	return CapstanConfig{
		Server: ServerConfig{
			Name:         "capstan",
			Host:         "localhost",
			Port:         8090,
			Transport:    TransportStreamableHTTP,
			Declarations: "declarations",
		},
		Sanitizer: SanitizerConfig{
			MaxDepth: 10,
		},
	}
}
