package registry

import (
	"fmt"
	"sort"
	"sync"

	"capstan/internal/argcheck"
	"capstan/internal/extract"
	"capstan/pkg/logging"
)

// Registry is the authoritative set of registered capabilities. Lookups
// tolerate case and separator differences and resolve both declared names
// and derived call names; failed lookups come back with ranked
// suggestions.
//
// Validators are compiled at Register time through the injected cache, so
// the first call to a capability never pays schema compilation latency.
type Registry struct {
	mu sync.RWMutex

	// entries is keyed by declared name.
	entries map[string]*Capability

	// byCanonical maps canonicalized spellings of both the declared name
	// and the call name back to the declared name.
	byCanonical map[string]string

	validators map[string]*argcheck.Validator
	cache      *argcheck.Cache
}

// New creates an empty registry compiling validators through the given
// cache. A nil cache gets a private one.
func New(cache *argcheck.Cache) *Registry {
	if cache == nil {
		cache = argcheck.NewCache()
	}
	return &Registry{
		entries:     make(map[string]*Capability),
		byCanonical: make(map[string]string),
		validators:  make(map[string]*argcheck.Validator),
		cache:       cache,
	}
}

// Register adds a capability. Names are unique across all kinds, and so
// are their canonicalized spellings: a second registration under an
// already-taken name, or under a name fuzzy matching resolves to an
// existing capability, is rejected and the first registration stands.
func (r *Registry) Register(cap *Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, taken := r.entries[cap.Name]; taken {
		return &RegistryError{
			Op:      "register",
			Name:    cap.Name,
			Message: "name already registered by " + existing.Kind + " from " + existing.Source,
		}
	}

	canonKeys := []string{canonical(cap.Name)}
	if cap.CallName != "" && canonical(cap.CallName) != canonKeys[0] {
		canonKeys = append(canonKeys, canonical(cap.CallName))
	}
	for _, key := range canonKeys {
		if holder, taken := r.byCanonical[key]; taken {
			existing := r.entries[holder]
			return &RegistryError{
				Op:   "register",
				Name: cap.Name,
				Message: fmt.Sprintf("name is indistinguishable from %s %q from %s under fuzzy matching",
					existing.Kind, holder, existing.Source),
			}
		}
	}

	r.entries[cap.Name] = cap
	for _, key := range canonKeys {
		r.byCanonical[key] = cap.Name
	}
	if cap.HasSchema {
		r.validators[cap.Name] = r.cache.Get(cap.Schema)
	}

	logging.Debug("Registry", "registered %s %q (call name %q, hidden=%v)",
		cap.Kind, cap.Name, cap.CallName, cap.Hidden)
	return nil
}

// Get resolves a capability by declared name or call name, tolerating case
// and separator differences. Unknown names fail with ranked suggestions
// and the full sorted valid list.
func (r *Registry) Get(name string) (*Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(name)
}

func (r *Registry) getLocked(name string) (*Capability, error) {
	if cap, ok := r.entries[name]; ok {
		return cap, nil
	}
	if declared, ok := r.byCanonical[canonical(name)]; ok {
		return r.entries[declared], nil
	}

	valid := r.namesLocked(true)
	return nil, &RegistryError{
		Op:          "lookup",
		Name:        name,
		Message:     "no such capability",
		Suggestions: suggest(name, valid),
		Valid:       valid,
	}
}

// Validator returns the compiled validator for a capability, or nil when
// the capability declares no schema.
func (r *Registry) Validator(name string) *argcheck.Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.validators[name]
}

// List returns registered capabilities sorted by name. Hidden capabilities
// are omitted unless includeHidden is set.
func (r *Registry) List(includeHidden bool) []*Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Capability
	for _, cap := range r.entries {
		if cap.Hidden && !includeHidden {
			continue
		}
		out = append(out, cap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListKind returns the visible capabilities of one kind, sorted by name.
func (r *Registry) ListKind(kind string, includeHidden bool) []*Capability {
	var out []*Capability
	for _, cap := range r.List(includeHidden) {
		if cap.Kind == kind {
			out = append(out, cap)
		}
	}
	return out
}

// Names returns all registered names sorted, including hidden ones.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked(true)
}

func (r *Registry) namesLocked(includeHidden bool) []string {
	names := make([]string, 0, len(r.entries))
	for name, cap := range r.entries {
		if cap.Hidden && !includeHidden {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ResolveRouter resolves every member of a router to a registered
// operation. Member matching tolerates case and separator differences.
// All missing members are reported together, each with its own ranked
// suggestions; a router with any unresolved member is unusable.
func (r *Registry) ResolveRouter(router *Capability) ([]*Capability, []error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	operationNames := make([]string, 0)
	for name, cap := range r.entries {
		if cap.Kind == extract.KindOperation {
			operationNames = append(operationNames, name)
		}
	}
	sort.Strings(operationNames)

	var resolved []*Capability
	var errs []error
	for _, member := range router.Members {
		cap, err := r.getLocked(member)
		if err == nil && cap.Kind != extract.KindOperation {
			err = &RegistryError{
				Op:      "resolve",
				Name:    member,
				Message: "router member must be an operation, not a " + cap.Kind,
			}
			cap = nil
		}
		if err != nil {
			if regErr, ok := err.(*RegistryError); ok && regErr.Message == "no such capability" {
				err = &RegistryError{
					Op:          "resolve",
					Name:        member,
					Message:     "router " + router.Name + " names an unknown member operation",
					Suggestions: suggest(member, operationNames),
					Valid:       operationNames,
				}
			}
			errs = append(errs, err)
			continue
		}
		resolved = append(resolved, cap)
	}
	return resolved, errs
}

// SkillContent renders a skill's content. Manual skills return their text;
// auto skills assemble a listing of the operations, documents, and
// templates they name, resolving each against the registry.
func (r *Registry) SkillContent(skill *Capability) (string, []error) {
	if skill.Manual != "" {
		return skill.Manual, nil
	}
	if skill.Auto == nil {
		return "", nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	content := "# " + skill.Name + "\n\n" + skill.Description + "\n"

	section := func(heading string, members []string, wantKind string) {
		if len(members) == 0 {
			return
		}
		content += "\n## " + heading + "\n"
		for _, member := range members {
			cap, err := r.getLocked(member)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if cap.Kind != wantKind {
				errs = append(errs, &RegistryError{
					Op:      "resolve",
					Name:    member,
					Message: "skill " + skill.Name + " lists a " + cap.Kind + " under " + heading,
				})
				continue
			}
			content += "- " + cap.CallName + ": " + cap.Description + "\n"
		}
	}

	section("Operations", skill.Auto.Operations, extract.KindOperation)
	section("Documents", skill.Auto.Documents, extract.KindDocument)
	section("Templates", skill.Auto.Templates, extract.KindTemplate)

	return content, errs
}
