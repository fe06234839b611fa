// Package logging provides a structured logging system for capstan built on
// Go's standard slog package.
//
// All log entries carry a subsystem identifier so that output from the
// compiler, registry, and server layers can be filtered independently:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Compiler", "Compiled unit %s with %d capabilities", name, n)
//	logging.Debug("Registry", "Cache hit for schema %x", hash)
//	logging.Error("Server", err, "Failed to start transport")
//
// Level filtering happens at the handler, so filtered-out messages cost no
// allocation beyond the call itself.
package logging
