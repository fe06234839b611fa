package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"capstan/internal/argcheck"
	"capstan/internal/compiler"
	"capstan/internal/config"
	"capstan/internal/registry"
	"capstan/internal/template"
	"capstan/pkg/logging"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// Server exposes a compiled capability registry over MCP. Operations and
// routers become tools, documents become resources, templates become
// prompts, and the meta tools provide discovery over the whole set,
// hidden capabilities included.
type Server struct {
	cfg      config.CapstanConfig
	cache    *argcheck.Cache
	engine   *template.Engine
	handlers map[string]registry.HandlerFunc

	mu         sync.RWMutex
	assembly   *compiler.Assembly
	dispatcher *registry.Dispatcher
	toolNames  []string

	mcpServer            *mcpserver.MCPServer
	sseServer            *mcpserver.SSEServer
	stdioServer          *mcpserver.StdioServer
	streamableHTTPServer *mcpserver.StreamableHTTPServer

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server for the given configuration.
func New(cfg config.CapstanConfig) *Server {
	return &Server{
		cfg:      cfg,
		cache:    argcheck.NewCache(),
		engine:   template.New(),
		handlers: make(map[string]registry.HandlerFunc),
	}
}

// Bind attaches a handler implementation. Bindings survive reloads: a
// recompiled operation reconnects to the same handler name.
func (s *Server) Bind(handlerName string, fn registry.HandlerFunc) {
	s.handlers[handlerName] = fn
}

// Registry returns the current capability registry. Before the first
// assembly is installed it returns an empty registry, so accessors are
// safe to call ahead of Start.
func (s *Server) Registry() *registry.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assembly == nil {
		return registry.New(s.cache)
	}
	return s.assembly.Registry
}

// Dispatcher returns the current dispatcher, or one over an empty registry
// when no assembly is installed yet.
func (s *Server) Dispatcher() *registry.Dispatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dispatcher == nil {
		return registry.NewDispatcher(registry.New(s.cache), s.checkerOptions())
	}
	return s.dispatcher
}

// CacheStats reports the validator cache counters.
func (s *Server) CacheStats() argcheck.CacheStats {
	return s.cache.Stats()
}

// Start compiles the declarations, builds the MCP server, and starts the
// configured transport. Compilation errors are logged but do not prevent
// startup: the capabilities that compiled cleanly are served.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.mcpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	assembly, err := compiler.AssembleDir(s.cfg.Server.Declarations, s.cache)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("loading declarations: %w", err)
	}
	for _, compileErr := range assembly.Errors {
		logging.Warn("Server", "declaration error: %v", compileErr)
	}
	s.installAssembly(assembly)

	s.mcpServer = mcpserver.NewMCPServer(
		s.cfg.Server.Name,
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithPromptCapabilities(true),
	)
	s.mu.Unlock()

	s.publishCapabilities()

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	switch s.cfg.Server.Transport {
	case config.TransportSSE:
		logging.Info("Server", "Starting capability server with SSE transport on %s", addr)
		baseURL := fmt.Sprintf("http://%s", addr)
		s.sseServer = mcpserver.NewSSEServer(
			s.mcpServer,
			mcpserver.WithBaseURL(baseURL),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := s.sseServer
		go func() {
			if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "SSE server error")
			}
		}()

	case config.TransportStdio:
		logging.Info("Server", "Starting capability server with stdio transport")
		s.stdioServer = mcpserver.NewStdioServer(s.mcpServer)
		stdioServer := s.stdioServer
		go func() {
			if err := stdioServer.Listen(s.ctx, os.Stdin, os.Stdout); err != nil {
				logging.Error("Server", err, "Stdio server error")
			}
		}()

	case config.TransportStreamableHTTP:
		fallthrough
	default:
		logging.Info("Server", "Starting capability server with streamable-http transport on %s", addr)
		s.streamableHTTPServer = mcpserver.NewStreamableHTTPServer(s.mcpServer)
		streamableServer := s.streamableHTTPServer
		go func() {
			if err := streamableServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "Streamable HTTP server error")
			}
		}()
	}

	return nil
}

// Run starts the server and blocks until the context is cancelled,
// watching the declarations directory for changes when configured to.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Server.Watch {
		g.Go(func() error {
			return s.watch(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	})
	return g.Wait()
}

// Stop shuts the transport down and releases the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	var err error
	if s.streamableHTTPServer != nil {
		err = s.streamableHTTPServer.Shutdown(ctx)
		s.streamableHTTPServer = nil
	}
	if s.sseServer != nil {
		if shutdownErr := s.sseServer.Shutdown(ctx); err == nil {
			err = shutdownErr
		}
		s.sseServer = nil
	}
	s.stdioServer = nil
	s.mcpServer = nil

	logging.Info("Server", "Capability server stopped")
	return err
}

// Reload recompiles the declarations and swaps the published capability
// set. The previous registry keeps serving until the swap, so in-flight
// calls are unaffected.
func (s *Server) Reload() error {
	assembly, err := compiler.AssembleDir(s.cfg.Server.Declarations, s.cache)
	if err != nil {
		return fmt.Errorf("reloading declarations: %w", err)
	}
	for _, compileErr := range assembly.Errors {
		logging.Warn("Server", "declaration error: %v", compileErr)
	}

	s.mu.Lock()
	s.installAssembly(assembly)
	s.mu.Unlock()

	s.publishCapabilities()
	logging.Info("Server", "Reloaded declarations: %d capabilities", assembly.Registry.Len())
	return nil
}

// checkerOptions maps the sanitizer configuration onto the dispatcher's
// checker, including the validate-before-sanitize order switch.
func (s *Server) checkerOptions() argcheck.CheckerOptions {
	opts := argcheck.CheckerOptions{
		Sanitizer: argcheck.SanitizerOptions{
			MaxDepth: s.cfg.Sanitizer.MaxDepth,
			Strict:   s.cfg.Sanitizer.Strict,
		},
	}
	if s.cfg.Sanitizer.ValidateFirst {
		opts.Order = argcheck.ValidateFirst
	}
	return opts
}

// installAssembly swaps in a new assembly and rebinds handlers. Caller
// holds the lock.
func (s *Server) installAssembly(assembly *compiler.Assembly) {
	dispatcher := registry.NewDispatcher(assembly.Registry, s.checkerOptions())
	for name, fn := range s.handlers {
		dispatcher.Bind(name, fn)
	}
	s.assembly = assembly
	s.dispatcher = dispatcher
}

// publishCapabilities replaces the MCP server's tool, prompt, and
// resource sets with the current registry's. Prompts and resources are
// keyed by name and URI, so re-adding overwrites in place; tools are
// deleted by name first.
func (s *Server) publishCapabilities() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mcpServer == nil {
		return
	}

	if len(s.toolNames) > 0 {
		s.mcpServer.DeleteTools(s.toolNames...)
	}

	tools := s.buildTools()
	prompts := s.buildPrompts()
	resources := s.buildResources()

	s.toolNames = s.toolNames[:0]
	for _, tool := range tools {
		s.toolNames = append(s.toolNames, tool.Tool.Name)
	}

	if len(tools) > 0 {
		s.mcpServer.AddTools(tools...)
	}
	if len(prompts) > 0 {
		s.mcpServer.AddPrompts(prompts...)
	}
	if len(resources) > 0 {
		s.mcpServer.AddResources(resources...)
	}

	logging.Info("Server", "Published %d tools, %d prompts, %d resources",
		len(tools), len(prompts), len(resources))
}
