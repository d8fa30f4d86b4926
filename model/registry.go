package model

import (
	"sync"

	"gopkg.in/yaml.v3"
)

// RouteConfig is the routing decision for one agent role.
type RouteConfig struct {
	// Model is the registry key of the primary model.
	Model string `json:"model" yaml:"model"`

	// Temperature controls randomness for this role.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxOutputTokens caps the response length for this role.
	MaxOutputTokens int `json:"maxOutputTokens" yaml:"max_output_tokens"`
}

// EndpointConfig defines an available model endpoint.
type EndpointConfig struct {
	// Provider is the provider implementation to use (gemini, openai).
	Provider string `json:"provider" yaml:"provider"`

	// URL is the API base URL. Empty uses the provider default.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Model is the identifier sent to the provider.
	Model string `json:"model" yaml:"model"`
}

// Registry maps agent roles to models and models to fallback chains.
// It also tracks per-endpoint health for circuit breaking. All methods
// are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	routes    map[Role]*RouteConfig
	endpoints map[string]*EndpointConfig
	fallbacks map[string][]string
	health    *healthState
}

// NewRegistry creates a registry from explicit tables.
func NewRegistry(routes map[Role]*RouteConfig, endpoints map[string]*EndpointConfig, fallbacks map[string][]string) *Registry {
	return &Registry{
		routes:    routes,
		endpoints: endpoints,
		fallbacks: fallbacks,
		health:    newHealthState(DefaultHealthConfig()),
	}
}

// NewDefaultRegistry creates a registry with the built-in routing
// table: thinker roles on the heavy Gemini model with looser
// temperature, parser/utility roles on the fast model with tighter
// temperature.
func NewDefaultRegistry() *Registry {
	return &Registry{
		routes: map[Role]*RouteConfig{
			RoleInput:      {Model: "gemini-flash", Temperature: 0.2, MaxOutputTokens: 2048},
			RoleSpatial:    {Model: "gemini-pro", Temperature: 0.7, MaxOutputTokens: 16384},
			RoleCritic:     {Model: "gemini-pro", Temperature: 0.3, MaxOutputTokens: 4096},
			RoleRefinement: {Model: "gemini-pro", Temperature: 0.5, MaxOutputTokens: 16384},
			RoleCost:       {Model: "gemini-flash", Temperature: 0.2, MaxOutputTokens: 4096},
			RoleFurniture:  {Model: "gemini-flash", Temperature: 0.4, MaxOutputTokens: 8192},
		},
		endpoints: map[string]*EndpointConfig{
			"gemini-pro":        {Provider: "gemini", Model: "gemini-2.5-pro"},
			"gemini-flash":      {Provider: "gemini", Model: "gemini-2.5-flash"},
			"gemini-flash-lite": {Provider: "gemini", Model: "gemini-2.0-flash"},
		},
		fallbacks: map[string][]string{
			"gemini-pro":   {"gemini-flash", "gemini-flash-lite"},
			"gemini-flash": {"gemini-flash-lite"},
		},
		health: newHealthState(DefaultHealthConfig()),
	}
}

// Route returns the routing config for a role. Unknown roles fall back
// to the input route (the cheapest one).
func (r *Registry) Route(role Role) RouteConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.routes[role]; ok {
		return *cfg
	}
	if cfg, ok := r.routes[RoleInput]; ok {
		return *cfg
	}
	return RouteConfig{}
}

// FallbackChain returns the model followed by its static fallbacks.
// The caller tries each in order until one succeeds.
func (r *Registry) FallbackChain(modelName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := make([]string, 0, 1+len(r.fallbacks[modelName]))
	chain = append(chain, modelName)
	chain = append(chain, r.fallbacks[modelName]...)
	return chain
}

// AvailableFallbackChain returns the fallback chain with endpoints
// whose circuit is open filtered out. If filtering would empty the
// chain, the full chain is returned so the caller can still surface
// the real endpoint errors.
func (r *Registry) AvailableFallbackChain(modelName string) []string {
	chain := r.FallbackChain(modelName)

	available := make([]string, 0, len(chain))
	for _, name := range chain {
		if r.IsEndpointAvailable(name) {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		return chain
	}
	return available
}

// GetEndpoint returns the endpoint configuration for a model name, or
// nil if the model is not configured.
func (r *Registry) GetEndpoint(modelName string) *EndpointConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.endpoints[modelName]
}

// SetRoute updates or adds a role route.
func (r *Registry) SetRoute(role Role, cfg *RouteConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.routes == nil {
		r.routes = make(map[Role]*RouteConfig)
	}
	r.routes[role] = cfg
}

// SetEndpoint updates or adds an endpoint configuration.
func (r *Registry) SetEndpoint(name string, cfg *EndpointConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.endpoints == nil {
		r.endpoints = make(map[string]*EndpointConfig)
	}
	r.endpoints[name] = cfg
}

// SetFallbacks replaces the fallback chain for a model.
func (r *Registry) SetFallbacks(modelName string, chain []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fallbacks == nil {
		r.fallbacks = make(map[string][]string)
	}
	r.fallbacks[modelName] = chain
}

// ListEndpoints returns all configured endpoint names.
func (r *Registry) ListEndpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	return names
}

// routingFile is the on-disk YAML shape consumed by LoadRouting.
type routingFile struct {
	Routes    map[Role]*RouteConfig      `yaml:"routes"`
	Endpoints map[string]*EndpointConfig `yaml:"endpoints"`
	Fallbacks map[string][]string        `yaml:"fallbacks"`
}

// ApplyRouting replaces the routing tables from YAML bytes, keeping
// endpoint health state intact. Used by the config hot-reload watcher.
func (r *Registry) ApplyRouting(data []byte) error {
	var file routingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if file.Routes != nil {
		r.routes = file.Routes
	}
	if file.Endpoints != nil {
		r.endpoints = file.Endpoints
	}
	if file.Fallbacks != nil {
		r.fallbacks = file.Fallbacks
	}
	return nil
}
