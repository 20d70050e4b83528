package units

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// EnvUnitFiles lists extra definition files, separated like PATH, that are
// loaded into the Default registry.
const EnvUnitFiles = "GOQUANTITY_UNIT_FILES"

//go:embed definitions.toml
var builtinDefinitions []byte

// Format is the encoding of a definitions document.
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota
	// FormatYAML represents YAML format
	FormatYAML
	// FormatAuto picks the format from the file extension
	FormatAuto
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Definition describes a named unit. A base unit lists its Dimension
// directly; a derived unit gives a Reference expression in terms of units
// defined earlier, scaled by Factor (default 1).
type Definition struct {
	Name      string             `toml:"name" yaml:"name"`
	Symbol    string             `toml:"symbol" yaml:"symbol"`
	Aliases   []string           `toml:"aliases" yaml:"aliases"`
	Factor    float64            `toml:"factor" yaml:"factor"`
	Reference string             `toml:"reference" yaml:"reference"`
	Dimension map[string]float64 `toml:"dimension" yaml:"dimension"`
}

// Prefix is a decimal multiplier that combines with unit names or symbols.
type Prefix struct {
	Name   string  `toml:"name" yaml:"name"`
	Symbol string  `toml:"symbol" yaml:"symbol"`
	Factor float64 `toml:"factor" yaml:"factor"`
}

// Definitions is the document layout of a definitions file.
type Definitions struct {
	Prefixes []Prefix     `toml:"prefix" yaml:"prefix"`
	Units    []Definition `toml:"unit" yaml:"unit"`
}

// Registry resolves unit names and expressions. Lookups are safe for
// concurrent use; loading takes an exclusive lock.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]term
	bySymbol map[string]term
	prefixes []Prefix // longest name first
	cache    map[string]Unit
}

// NewRegistry returns a registry holding the built-in definitions.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	if err := r.Load(builtinDefinitions, FormatTOML); err != nil {
		panic(errors.Wrap(err, "units: built-in definitions"))
	}
	return r
}

// NewEmptyRegistry returns a registry with no units or prefixes.
func NewEmptyRegistry() *Registry {
	return &Registry{
		byName:   map[string]term{},
		bySymbol: map[string]term{},
		cache:    map[string]Unit{},
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry. It is built on first use from
// the built-in definitions plus any files named in GOQUANTITY_UNIT_FILES; a
// file that fails to load is logged and skipped.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, path := range filepath.SplitList(os.Getenv(EnvUnitFiles)) {
			if path == "" {
				continue
			}
			if err := defaultRegistry.LoadFile(path); err != nil {
				klog.ErrorS(err, "Skipping unit definition file", "path", path)
			}
		}
	})
	return defaultRegistry
}

// LoadFile overlays definitions from a .toml, .yaml or .yml file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read unit definitions %s", path)
	}
	format := FormatTOML
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
	default:
		return errors.Errorf("unsupported unit definition file extension %q", filepath.Ext(path))
	}
	if err := r.Load(data, format); err != nil {
		return errors.Wrapf(err, "load unit definitions %s", path)
	}
	return nil
}

// Load overlays definitions decoded from data. Later definitions replace
// earlier ones with the same name or symbol. FormatAuto sniffs the content:
// documents whose first table header is "[[" are TOML, anything else YAML.
func (r *Registry) Load(data []byte, format Format) error {
	var defs Definitions
	if format == FormatAuto {
		format = FormatYAML
		if bytes.Contains(data, []byte("[[")) {
			format = FormatTOML
		}
	}
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&defs); err != nil {
			return errors.Wrap(err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return errors.Wrap(err, "decode yaml")
		}
	default:
		return errors.Errorf("unknown definitions format %v", format)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range defs.Prefixes {
		if p.Name == "" {
			return errors.New("prefix without a name")
		}
		if p.Factor == 0 {
			return errors.Errorf("prefix %q has no factor", p.Name)
		}
		r.addPrefix(p)
	}
	for _, d := range defs.Units {
		if err := r.define(d); err != nil {
			return err
		}
	}
	r.cache = map[string]Unit{}
	klog.V(2).InfoS("Loaded unit definitions", "format", format, "units", len(defs.Units), "prefixes", len(defs.Prefixes))
	return nil
}

func (r *Registry) addPrefix(p Prefix) {
	for i, old := range r.prefixes {
		if old.Name == p.Name {
			r.prefixes[i] = p
			return
		}
	}
	r.prefixes = append(r.prefixes, p)
	sort.SliceStable(r.prefixes, func(i, j int) bool {
		return len(r.prefixes[i].Name) > len(r.prefixes[j].Name)
	})
}

// define must be called with r.mu held.
func (r *Registry) define(d Definition) error {
	if d.Name == "" {
		return errors.New("unit without a name")
	}
	factor := d.Factor
	if factor == 0 {
		factor = 1
	}
	t := term{name: d.Name, symbol: d.Symbol, factor: factor, dims: Dimension{}, exp: 1}
	if t.symbol == "" {
		t.symbol = d.Name
	}
	if d.Reference != "" {
		ref, err := r.parseLocked(d.Reference)
		if err != nil {
			return errors.Wrapf(err, "unit %q", d.Name)
		}
		t.factor *= ref.Factor()
		t.dims = ref.Dimensionality()
	} else {
		for k, e := range d.Dimension {
			t.dims[k] = e
		}
	}
	r.byName[d.Name] = t
	for _, a := range d.Aliases {
		r.byName[a] = t
	}
	if d.Symbol != "" {
		r.bySymbol[d.Symbol] = t
	}
	return nil
}

// Parse resolves a unit expression such as "kg * m / s**2". The empty string
// and "dimensionless" yield the dimensionless unit.
func (r *Registry) Parse(expr string) (Unit, error) {
	r.mu.RLock()
	u, ok := r.cache[expr]
	r.mu.RUnlock()
	if ok {
		return u, nil
	}
	r.mu.RLock()
	u, err := r.parseLocked(expr)
	r.mu.RUnlock()
	if err != nil {
		return Unit{}, err
	}
	r.mu.Lock()
	r.cache[expr] = u
	r.mu.Unlock()
	return u, nil
}

// MustParse is like Parse but panics on error.
func (r *Registry) MustParse(expr string) Unit {
	u, err := r.Parse(expr)
	if err != nil {
		panic(err)
	}
	return u
}

func (r *Registry) parseLocked(expr string) (Unit, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || trimmed == "dimensionless" {
		return Dimensionless, nil
	}
	tokens, err := lex(trimmed)
	if err != nil {
		return Unit{}, err
	}
	p := &parser{input: trimmed, tokens: tokens, resolve: r.resolveLocked}
	return p.parse()
}

// Lookup resolves a single unit name.
func (r *Registry) Lookup(name string) (Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(name)
}

func single(t term) Unit { return Unit{terms: map[string]term{t.name: t}} }

// resolveLocked tries, in order: name or alias, symbol, plural name, prefix
// name + unit name, prefix symbol + unit symbol.
func (r *Registry) resolveLocked(name string) (Unit, error) {
	if name == "dimensionless" {
		return Dimensionless, nil
	}
	if t, ok := r.byName[name]; ok {
		return single(t), nil
	}
	if t, ok := r.bySymbol[name]; ok {
		return single(t), nil
	}
	if t, ok := r.plural(name); ok {
		return single(t), nil
	}
	for _, p := range r.prefixes {
		if rest := strings.TrimPrefix(name, p.Name); rest != name && rest != "" {
			t, ok := r.byName[rest]
			if !ok {
				t, ok = r.plural(rest)
			}
			if ok {
				return single(prefixed(p, t)), nil
			}
		}
	}
	for _, p := range r.prefixesBySymbol() {
		if rest := strings.TrimPrefix(name, p.Symbol); rest != name && rest != "" {
			if t, ok := r.bySymbol[rest]; ok {
				return single(prefixed(p, t)), nil
			}
		}
	}
	return Unit{}, errors.Wrapf(ErrUndefinedUnit, "%q", name)
}

func (r *Registry) plural(name string) (term, bool) {
	for _, suffix := range []string{"s", "es"} {
		if stem := strings.TrimSuffix(name, suffix); stem != name && stem != "" {
			if t, ok := r.byName[stem]; ok {
				return t, true
			}
		}
	}
	return term{}, false
}

func (r *Registry) prefixesBySymbol() []Prefix {
	ps := make([]Prefix, 0, len(r.prefixes))
	for _, p := range r.prefixes {
		if p.Symbol != "" {
			ps = append(ps, p)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool { return len(ps[i].Symbol) > len(ps[j].Symbol) })
	return ps
}

func prefixed(p Prefix, t term) term {
	t.name = p.Name + t.name
	t.symbol = p.Symbol + t.symbol
	t.factor *= p.Factor
	return t
}

// Names lists every canonical unit name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var names []string
	for _, t := range r.byName {
		if !seen[t.name] {
			seen[t.name] = true
			names = append(names, t.name)
		}
	}
	sort.Strings(names)
	return names
}
