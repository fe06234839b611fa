// Package config loads capstan's configuration: server exposure, the
// declarations directory, and sanitizer tuning. Missing files fall back
// to defaults; malformed files are errors.
package config
