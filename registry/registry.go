// Package registry implements the MCP catalog: the tools, resources,
// resource templates, and prompts a server exposes, together with the
// host-supplied handlers that serve them.
//
// A Registry is safe for concurrent use. Entries registered with
// OriginManual can never be overwritten or removed by a later
// OriginDiscovered registration of the same key; the reverse replacement
// (manual over discovered) is always allowed.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cbrgm/go-mcp-server/mcp"
)

// Origin records how a catalog entry came to be registered.
type Origin int

const (
	// OriginManual marks an entry a host registered explicitly at startup.
	OriginManual Origin = iota

	// OriginDiscovered marks an entry a host registered via some dynamic
	// discovery mechanism (e.g. scanning a plugin directory). Discovered
	// entries never override a manual entry of the same key.
	OriginDiscovered
)

var (
	// ErrNotFound is returned when a lookup key has no catalog entry.
	ErrNotFound = errors.New("registry: not found")

	// ErrAlreadyManual is returned when a discovered registration would
	// overwrite an existing manual entry.
	ErrAlreadyManual = errors.New("registry: entry already registered manually")

	// ErrInvalidSpec is returned when a spec fails basic structural checks
	// (empty name, non-object input schema, malformed URI template, ...).
	ErrInvalidSpec = errors.New("registry: invalid spec")
)

// ListKind identifies which catalog changed, for list_changed fan-out.
type ListKind string

const (
	ListKindTools     ListKind = "tools"
	ListKindResources ListKind = "resources"
	ListKindPrompts   ListKind = "prompts"
)

type toolEntry struct {
	spec    mcp.ToolSpec
	origin  Origin
	handler mcp.ToolHandlerFunc
}

type resourceEntry struct {
	spec    mcp.ResourceSpec
	origin  Origin
	handler mcp.ResourceHandlerFunc
}

type templateEntry struct {
	spec       mcp.TemplateSpec
	origin     Origin
	matcher    *uriMatcher
	handler    mcp.TemplateHandlerFunc
	completion map[string]mcp.CompletionHandlerFunc
}

type promptEntry struct {
	spec       mcp.PromptSpec
	origin     Origin
	handler    mcp.PromptHandlerFunc
	completion map[string]mcp.CompletionHandlerFunc
}

// Registry is the thread-safe catalog of tools, resources, resource
// templates, and prompts a server exposes.
type Registry struct {
	mu sync.RWMutex

	tools     map[string]*toolEntry
	resources map[string]*resourceEntry
	templates map[string]*templateEntry
	prompts   map[string]*promptEntry

	// order* record insertion order per category, so list operations can
	// return entries in the order spec.md §4.F requires rather than map
	// iteration order. A re-registration of an existing key keeps its
	// original position.
	toolOrder     []string
	resourceOrder []string
	templateOrder []string
	promptOrder   []string

	listeners []func(ListKind)
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		tools:     make(map[string]*toolEntry),
		resources: make(map[string]*resourceEntry),
		templates: make(map[string]*templateEntry),
		prompts:   make(map[string]*promptEntry),
	}
}

func appendIfAbsent(order []string, key string) []string {
	for _, k := range order {
		if k == key {
			return order
		}
	}
	return append(order, key)
}

func removeFromOrder(order []string, key string) []string {
	for i, k := range order {
		if k == key {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// OnListChanged subscribes to list_changed events. The callback is invoked
// synchronously under no lock after the catalog mutation that triggered it.
func (r *Registry) OnListChanged(fn func(ListKind)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) notify(kind ListKind) {
	r.mu.RLock()
	listeners := make([]func(ListKind), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, fn := range listeners {
		fn(kind)
	}
}

// RegisterTool adds a tool to the catalog. A discovered registration never
// overwrites a manual one of the same name.
func (r *Registry) RegisterTool(spec mcp.ToolSpec, origin Origin, handler mcp.ToolHandlerFunc) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: tool name cannot be empty", ErrInvalidSpec)
	}
	if spec.InputSchema.Type == "" {
		spec.InputSchema.Type = "object"
	}
	if spec.InputSchema.Type != "object" {
		return fmt.Errorf("%w: tool %q input schema must be of type object", ErrInvalidSpec, spec.Name)
	}
	if handler == nil {
		return fmt.Errorf("%w: tool %q has a nil handler", ErrInvalidSpec, spec.Name)
	}

	r.mu.Lock()
	if existing, ok := r.tools[spec.Name]; ok && existing.origin == OriginManual && origin == OriginDiscovered {
		r.mu.Unlock()
		return fmt.Errorf("%w: tool %q", ErrAlreadyManual, spec.Name)
	}
	r.tools[spec.Name] = &toolEntry{spec: spec, origin: origin, handler: handler}
	r.toolOrder = appendIfAbsent(r.toolOrder, spec.Name)
	r.mu.Unlock()

	r.notify(ListKindTools)
	return nil
}

// RemoveTool removes a tool from the catalog.
func (r *Registry) RemoveTool(name string) {
	r.mu.Lock()
	_, existed := r.tools[name]
	delete(r.tools, name)
	r.toolOrder = removeFromOrder(r.toolOrder, name)
	r.mu.Unlock()
	if existed {
		r.notify(ListKindTools)
	}
}

// FindTool returns the tool entry for name, or ErrNotFound.
func (r *Registry) FindTool(name string) (mcp.ToolSpec, mcp.ToolHandlerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return mcp.ToolSpec{}, nil, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	return entry.spec, entry.handler, nil
}

// AllTools returns every registered tool descriptor in insertion order.
func (r *Registry) AllTools() []mcp.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.ToolDescriptor, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		entry := r.tools[name]
		out = append(out, mcp.ToolDescriptor{
			Name:        entry.spec.Name,
			Description: entry.spec.Description,
			InputSchema: entry.spec.InputSchema.AsMap(),
			Annotations: entry.spec.Annotations,
		})
	}
	return out
}

// RegisterResource adds a concrete, exact-URI resource to the catalog.
func (r *Registry) RegisterResource(spec mcp.ResourceSpec, origin Origin, handler mcp.ResourceHandlerFunc) error {
	if spec.URI == "" {
		return fmt.Errorf("%w: resource uri cannot be empty", ErrInvalidSpec)
	}
	if handler == nil {
		return fmt.Errorf("%w: resource %q has a nil handler", ErrInvalidSpec, spec.URI)
	}

	r.mu.Lock()
	if existing, ok := r.resources[spec.URI]; ok && existing.origin == OriginManual && origin == OriginDiscovered {
		r.mu.Unlock()
		return fmt.Errorf("%w: resource %q", ErrAlreadyManual, spec.URI)
	}
	r.resources[spec.URI] = &resourceEntry{spec: spec, origin: origin, handler: handler}
	r.resourceOrder = appendIfAbsent(r.resourceOrder, spec.URI)
	r.mu.Unlock()

	r.notify(ListKindResources)
	return nil
}

// RemoveResource removes a concrete resource from the catalog.
func (r *Registry) RemoveResource(uri string) {
	r.mu.Lock()
	_, existed := r.resources[uri]
	delete(r.resources, uri)
	r.resourceOrder = removeFromOrder(r.resourceOrder, uri)
	r.mu.Unlock()
	if existed {
		r.notify(ListKindResources)
	}
}

// AllResources returns every registered concrete resource descriptor, in
// insertion order.
func (r *Registry) AllResources() []mcp.ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.ResourceDescriptor, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		entry := r.resources[uri]
		out = append(out, mcp.ResourceDescriptor{
			URI:         entry.spec.URI,
			Name:        entry.spec.Name,
			Description: entry.spec.Description,
			MimeType:    entry.spec.MimeType,
		})
	}
	return out
}

// RegisterTemplate adds a parameterized resource template to the catalog.
func (r *Registry) RegisterTemplate(spec mcp.TemplateSpec, origin Origin, handler mcp.TemplateHandlerFunc) error {
	matcher, err := compileTemplate(spec.URITemplate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if handler == nil {
		return fmt.Errorf("%w: template %q has a nil handler", ErrInvalidSpec, spec.URITemplate)
	}

	r.mu.Lock()
	if existing, ok := r.templates[spec.URITemplate]; ok && existing.origin == OriginManual && origin == OriginDiscovered {
		r.mu.Unlock()
		return fmt.Errorf("%w: template %q", ErrAlreadyManual, spec.URITemplate)
	}
	r.templates[spec.URITemplate] = &templateEntry{
		spec: spec, origin: origin, matcher: matcher, handler: handler,
		completion: make(map[string]mcp.CompletionHandlerFunc),
	}
	r.templateOrder = appendIfAbsent(r.templateOrder, spec.URITemplate)
	r.mu.Unlock()

	r.notify(ListKindResources)
	return nil
}

// RegisterTemplateCompletion attaches a completion provider for a variable
// of an already-registered template.
func (r *Registry) RegisterTemplateCompletion(uriTemplate, variable string, fn mcp.CompletionHandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.templates[uriTemplate]
	if !ok {
		return fmt.Errorf("%w: template %q", ErrNotFound, uriTemplate)
	}
	entry.completion[variable] = fn
	return nil
}

// RemoveTemplate removes a template from the catalog.
func (r *Registry) RemoveTemplate(uriTemplate string) {
	r.mu.Lock()
	_, existed := r.templates[uriTemplate]
	delete(r.templates, uriTemplate)
	r.templateOrder = removeFromOrder(r.templateOrder, uriTemplate)
	r.mu.Unlock()
	if existed {
		r.notify(ListKindResources)
	}
}

// AllTemplates returns every registered template descriptor, in insertion
// order.
func (r *Registry) AllTemplates() []mcp.TemplateDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.TemplateDescriptor, 0, len(r.templateOrder))
	for _, uriTemplate := range r.templateOrder {
		entry := r.templates[uriTemplate]
		out = append(out, mcp.TemplateDescriptor{
			URITemplate: entry.spec.URITemplate,
			Name:        entry.spec.Name,
			Description: entry.spec.Description,
			MimeType:    entry.spec.MimeType,
		})
	}
	return out
}

// ResolveResource looks up how to read uri: first against exact resources,
// then against templates. Exact matches always win over a template match,
// regardless of registration order.
func (r *Registry) ResolveResource(ctx context.Context, uri string) (mcp.ResourceResult, error) {
	r.mu.RLock()
	if entry, ok := r.resources[uri]; ok {
		handler := entry.handler
		r.mu.RUnlock()
		return handler(ctx, uri)
	}

	for _, uriTemplate := range r.templateOrder {
		entry := r.templates[uriTemplate]
		if vars, ok := entry.matcher.match(uri); ok {
			handler := entry.handler
			r.mu.RUnlock()
			return handler(ctx, uri, vars)
		}
	}
	r.mu.RUnlock()
	return mcp.ResourceResult{}, fmt.Errorf("%w: resource %q", ErrNotFound, uri)
}

// CompleteTemplateVariable runs the completion provider registered for a
// template variable, if any.
func (r *Registry) CompleteTemplateVariable(ctx context.Context, uriTemplate, variable, value string) ([]string, error) {
	r.mu.RLock()
	entry, ok := r.templates[uriTemplate]
	if !ok {
		r.mu.RUnlock()
		return nil, fmt.Errorf("%w: template %q", ErrNotFound, uriTemplate)
	}
	fn, ok := entry.completion[variable]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return fn(ctx, variable, value)
}

// RegisterPrompt adds a prompt to the catalog.
func (r *Registry) RegisterPrompt(spec mcp.PromptSpec, origin Origin, handler mcp.PromptHandlerFunc) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: prompt name cannot be empty", ErrInvalidSpec)
	}
	if handler == nil {
		return fmt.Errorf("%w: prompt %q has a nil handler", ErrInvalidSpec, spec.Name)
	}

	r.mu.Lock()
	if existing, ok := r.prompts[spec.Name]; ok && existing.origin == OriginManual && origin == OriginDiscovered {
		r.mu.Unlock()
		return fmt.Errorf("%w: prompt %q", ErrAlreadyManual, spec.Name)
	}
	r.prompts[spec.Name] = &promptEntry{
		spec: spec, origin: origin, handler: handler,
		completion: make(map[string]mcp.CompletionHandlerFunc),
	}
	r.promptOrder = appendIfAbsent(r.promptOrder, spec.Name)
	r.mu.Unlock()

	r.notify(ListKindPrompts)
	return nil
}

// RegisterPromptCompletion attaches a completion provider for an argument
// of an already-registered prompt.
func (r *Registry) RegisterPromptCompletion(promptName, argument string, fn mcp.CompletionHandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.prompts[promptName]
	if !ok {
		return fmt.Errorf("%w: prompt %q", ErrNotFound, promptName)
	}
	entry.completion[argument] = fn
	return nil
}

// RemovePrompt removes a prompt from the catalog.
func (r *Registry) RemovePrompt(name string) {
	r.mu.Lock()
	_, existed := r.prompts[name]
	delete(r.prompts, name)
	r.promptOrder = removeFromOrder(r.promptOrder, name)
	r.mu.Unlock()
	if existed {
		r.notify(ListKindPrompts)
	}
}

// FindPrompt returns the prompt entry for name, or ErrNotFound.
func (r *Registry) FindPrompt(name string) (mcp.PromptSpec, mcp.PromptHandlerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.prompts[name]
	if !ok {
		return mcp.PromptSpec{}, nil, fmt.Errorf("%w: prompt %q", ErrNotFound, name)
	}
	return entry.spec, entry.handler, nil
}

// CompletePromptArgument runs the completion provider registered for a
// prompt argument, if any.
func (r *Registry) CompletePromptArgument(ctx context.Context, promptName, argument, value string) ([]string, error) {
	r.mu.RLock()
	entry, ok := r.prompts[promptName]
	if !ok {
		r.mu.RUnlock()
		return nil, fmt.Errorf("%w: prompt %q", ErrNotFound, promptName)
	}
	fn, ok := entry.completion[argument]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return fn(ctx, argument, value)
}

// AllPrompts returns every registered prompt descriptor, in insertion order.
func (r *Registry) AllPrompts() []mcp.PromptDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.PromptDescriptor, 0, len(r.promptOrder))
	for _, name := range r.promptOrder {
		entry := r.prompts[name]
		out = append(out, mcp.PromptDescriptor{
			Name:        entry.spec.Name,
			Description: entry.spec.Description,
			Arguments:   entry.spec.Arguments,
		})
	}
	return out
}
