package prebuilt

import (
	"fmt"
	"sort"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/fluentmind"
)

// Builder constructs a flow template from a typed configuration.
// Implementations should be pure (no side effects) and return a
// template that passes core validation.
type Builder interface {
	Name() string
	DefaultConfig() any
	Build(cfg any) (*fluentmind.Template, error)
}

// BuildFunc is a convenience adapter to implement Builder via functions.
type BuildFunc struct {
	NameStr  string
	ConfigFn func() any
	Fn       func(cfg any) (*fluentmind.Template, error)
}

func (b BuildFunc) Name() string       { return b.NameStr }
func (b BuildFunc) DefaultConfig() any { return b.ConfigFn() }
func (b BuildFunc) Build(cfg any) (*fluentmind.Template, error) {
	return b.Fn(cfg)
}

// NewBuildFunc creates a Builder from functions.
func NewBuildFunc(name string, configFn func() any, fn func(cfg any) (*fluentmind.Template, error)) BuildFunc {
	return BuildFunc{NameStr: name, ConfigFn: configFn, Fn: fn}
}

// Registry holds named prebuilt template builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds or replaces a prebuilt builder.
func (r *Registry) Register(b Builder) {
	r.builders[b.Name()] = b
}

// MustRegister panics on duplicate names; useful during init() setup.
func (r *Registry) MustRegister(b Builder) {
	if _, exists := r.builders[b.Name()]; exists {
		panic(fmt.Sprintf("prebuilt already registered: %s", b.Name()))
	}
	r.builders[b.Name()] = b
}

// Get retrieves a named prebuilt.
func (r *Registry) Get(name string) (Builder, bool) {
	b, ok := r.builders[name]
	return b, ok
}

// Names returns registered builder names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Templates builds every registered prebuilt with its default
// configuration, in sorted name order. Catalog seeding starts here.
func (r *Registry) Templates() ([]*fluentmind.Template, error) {
	templates := make([]*fluentmind.Template, 0, len(r.builders))
	for _, name := range r.Names() {
		b := r.builders[name]
		tpl, err := b.Build(b.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("building prebuilt %s: %w", name, err)
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// DefaultRegistry is a singleton for convenience. Projects can also
// construct their own Registry if they want isolation.
var DefaultRegistry = NewRegistry()

// Templates builds every prebuilt in the default registry.
func Templates() ([]*fluentmind.Template, error) {
	return DefaultRegistry.Templates()
}
