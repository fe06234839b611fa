package registry

import (
	"context"
	"fmt"
	"sort"

	"capstan/internal/argcheck"
	"capstan/internal/extract"
	"capstan/pkg/logging"
)

// HandlerFunc implements a capability. It receives arguments that already
// passed sanitization and validation, normalized to the schema's declared
// types.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// InvokeResult carries a successful invocation's handler output together
// with any non-fatal sanitization findings on the input, so callers can
// relay the warnings instead of losing them to a log line.
type InvokeResult struct {
	Output   interface{}
	Warnings []argcheck.SanitizationIssue
}

// Dispatcher routes capability invocations: lookup, then the configured
// sanitize/validate pipeline, then the bound handler. Routers dispatch to
// a member operation chosen by the caller.
type Dispatcher struct {
	registry *Registry
	handlers map[string]HandlerFunc
	opts     argcheck.CheckerOptions
}

// NewDispatcher creates a dispatcher over a registry. The checker options
// set the sanitizer limits and whether validation runs before or after
// sanitization.
func NewDispatcher(reg *Registry, opts argcheck.CheckerOptions) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		handlers: make(map[string]HandlerFunc),
		opts:     opts,
	}
}

// Bind attaches a handler implementation under a handler name. Operations
// whose declarations reference the name delegate to it at invocation time.
func (d *Dispatcher) Bind(handlerName string, fn HandlerFunc) {
	d.handlers[handlerName] = fn
}

// Invoke calls a capability by name. The full pipeline runs on every call:
// registry lookup (with suggestions on a miss), then sanitization and
// schema validation in the configured order, then the handler with the
// normalized arguments.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]interface{}) (*InvokeResult, error) {
	cap, err := d.registry.Get(name)
	if err != nil {
		return nil, err
	}

	if cap.Kind == extract.KindRouter {
		return d.invokeRouter(ctx, cap, args)
	}
	if !cap.Invocable() {
		return nil, &RegistryError{
			Op:      "resolve",
			Name:    name,
			Message: fmt.Sprintf("%s is a %s and cannot be invoked; fetch it instead", cap.Name, cap.Kind),
		}
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	checker := argcheck.CheckerFor(d.registry.Validator(cap.Name), d.opts)
	checked := checker.Check(args)
	for _, issue := range checked.Warnings {
		logging.Warn("Dispatcher", "suspicious input for %q: %s", cap.Name, issue.Error())
	}
	if !checked.Success {
		return nil, checked.Failure()
	}

	cleaned := args
	if m, ok := checked.Data.(map[string]interface{}); ok {
		cleaned = m
	}

	handlerName := cap.Handler
	if handlerName == "" {
		handlerName = cap.Name
	}
	handler, bound := d.handlers[handlerName]
	if !bound {
		return nil, &RegistryError{
			Op:      "resolve",
			Name:    cap.Name,
			Message: fmt.Sprintf("no handler bound for %q", handlerName),
		}
	}

	logging.Debug("Dispatcher", "invoking %q via handler %q", cap.Name, handlerName)
	output, err := handler(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	return &InvokeResult{Output: output, Warnings: checked.Warnings}, nil
}

// invokeRouter dispatches to one of the router's member operations. The
// caller selects the member with the "operation" argument; the remaining
// payload travels under "arguments".
func (d *Dispatcher) invokeRouter(ctx context.Context, router *Capability, args map[string]interface{}) (*InvokeResult, error) {
	memberName, _ := args["operation"].(string)
	if memberName == "" {
		return nil, &RegistryError{
			Op:      "resolve",
			Name:    router.Name,
			Message: `router invocation needs an "operation" argument naming the member to call`,
			Valid:   memberNames(router),
		}
	}

	member, err := d.resolveMember(router, memberName)
	if err != nil {
		return nil, err
	}

	memberArgs, _ := args["arguments"].(map[string]interface{})
	return d.Invoke(ctx, member, memberArgs)
}

// resolveMember matches a requested member against the router's declared
// members, tolerating case and separator differences. The member must be
// declared on the router even if the registry knows the name: a router is
// a closed set.
func (d *Dispatcher) resolveMember(router *Capability, requested string) (string, error) {
	want := canonical(requested)
	for _, member := range router.Members {
		if canonical(member) == want {
			return member, nil
		}
	}

	valid := memberNames(router)
	return "", &RegistryError{
		Op:          "resolve",
		Name:        requested,
		Message:     fmt.Sprintf("router %q has no such member operation", router.Name),
		Suggestions: suggest(requested, valid),
		Valid:       valid,
	}
}

func memberNames(router *Capability) []string {
	names := append([]string(nil), router.Members...)
	sort.Strings(names)
	return names
}
