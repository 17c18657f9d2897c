package navigation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownRoute is returned when a route tag is not in the registry.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrInvalidParams is returned when route params do not match the route's schema.
	ErrInvalidParams = errors.New("invalid route params")
)

// Privacy tags a route as reachable with or without a session
type Privacy int

const (
	Public Privacy = iota
	Private
)

func (p Privacy) String() string {
	if p == Private {
		return "private"
	}
	return "public"
}

// ParamKind is the type a route parameter is normalised to
type ParamKind int

const (
	StringParam ParamKind = iota
	IntParam
	FloatParam
)

// ParamSpec describes one named parameter of a route
type ParamSpec struct {
	Name string
	Kind ParamKind
}

// RouteDef is one entry of the static route registry
type RouteDef struct {
	Name    string
	Privacy Privacy
	Params  []ParamSpec
}

// Params carries the typed arguments of a route
type Params map[string]any

// Route identifies a screen together with its params
type Route struct {
	Name   string
	Params Params
}

// String renders the route the way it is addressed in logs, e.g. "CompanionInfo/Ana/4"
func (r Route) String() string {
	if len(r.Params) == 0 {
		return r.Name
	}
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{r.Name}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v", r.Params[k]))
	}
	return strings.Join(parts, "/")
}

// Equal reports whether both routes name the same screen with the same params
func (r Route) Equal(other Route) bool {
	if r.Name != other.Name || len(r.Params) != len(other.Params) {
		return false
	}
	for k, v := range r.Params {
		ov, ok := other.Params[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Param returns the string form of a param, or fallback when it is absent
func (r Route) Param(name, fallback string) string {
	v, ok := r.Params[name]
	if !ok {
		return fallback
	}
	return fmt.Sprintf("%v", v)
}

// Registry is the static table of routes known at startup
type Registry struct {
	defs  map[string]RouteDef
	order []string
}

// NewRegistry builds a registry, rejecting duplicate or empty route names
func NewRegistry(defs ...RouteDef) (*Registry, error) {
	r := &Registry{defs: make(map[string]RouteDef, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("route name must not be empty")
		}
		if _, exists := r.defs[def.Name]; exists {
			return nil, fmt.Errorf("duplicate route %q", def.Name)
		}
		r.defs[def.Name] = def
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

// MustRegistry is NewRegistry for package-level tables
func MustRegistry(defs ...RouteDef) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the definition for a route tag. Tags are case-sensitive.
func (r *Registry) Lookup(name string) (RouteDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// IsPrivate reports whether the named route requires a session.
// Unknown routes are treated as private.
func (r *Registry) IsPrivate(name string) bool {
	def, ok := r.defs[name]
	return !ok || def.Privacy == Private
}

// Names returns route tags in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Route validates params against the route's schema and returns the normalised route.
// String values are parsed into the declared kind, since path segments arrive as strings.
func (r *Registry) Route(name string, params Params) (Route, error) {
	def, ok := r.defs[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	if len(params) == 0 {
		return Route{Name: name}, nil
	}

	specs := make(map[string]ParamKind, len(def.Params))
	for _, p := range def.Params {
		specs[p.Name] = p.Kind
	}

	normalised := make(Params, len(params))
	for key, value := range params {
		kind, ok := specs[key]
		if !ok {
			return Route{}, fmt.Errorf("%w: %s has no param %q", ErrInvalidParams, name, key)
		}
		v, err := coerce(value, kind)
		if err != nil {
			return Route{}, fmt.Errorf("%w: %s.%s: %v", ErrInvalidParams, name, key, err)
		}
		normalised[key] = v
	}
	return Route{Name: name, Params: normalised}, nil
}

func coerce(value any, kind ParamKind) (any, error) {
	switch kind {
	case StringParam:
		switch v := value.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)
	case IntParam:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected int, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected int, got %T", value)
	case FloatParam:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("expected float, got %q", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("expected float, got %T", value)
	}
	return nil, fmt.Errorf("unsupported param kind %d", kind)
}
