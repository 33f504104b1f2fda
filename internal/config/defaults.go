package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Extension:       ".pisi",
		ExcludePatterns: []string{},
		ErrorLogDir:     ".",
	}
}
