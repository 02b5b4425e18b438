// Package config defines the service configuration model and its backing
// providers (YAML files and SQLite databases).
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetService() (*ServiceData, error)
	GetProviders() (*ProvidersData, error)
	GetStorageConfig() (*StorageData, error)
	GetCacheConfig() (*CacheData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Service   ServiceData   `json:"service"`
	Providers ProvidersData `json:"providers"`
	Storage   StorageData   `json:"storage,omitempty"`
	Cache     CacheData     `json:"cache,omitempty"`
}

// ServiceData holds the HTTP service configuration
type ServiceData struct {
	ListenAddr string `json:"listen_addr"`
	LogFile    string `json:"log_file,omitempty"`
}

// ProvidersData holds credentials and endpoints for the upstream data
// providers (geocoding, building insights, vision classification)
type ProvidersData struct {
	GoogleAPIKey     string `json:"google_api_key"`
	GeocodeEndpoint  string `json:"geocode_endpoint,omitempty"`
	InsightsEndpoint string `json:"insights_endpoint,omitempty"`
	VisionAPIKey     string `json:"vision_api_key,omitempty"`
	VisionEndpoint   string `json:"vision_endpoint,omitempty"`
	VisionModel      string `json:"vision_model,omitempty"`
}

// StorageData holds the configuration for estimate persistence
type StorageData struct {
	ConnectionString string `json:"connection_string,omitempty"`
}

// CacheData holds the configuration for the upstream response cache
type CacheData struct {
	Path       string `json:"path,omitempty"`
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
}

// Defaults applied by providers when fields are absent.
const (
	DefaultListenAddr       = ":8000"
	DefaultGeocodeEndpoint  = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultInsightsEndpoint = "https://solar.googleapis.com/v1/buildingInsights:findClosest"
	DefaultVisionEndpoint   = "https://api.openai.com/v1/chat/completions"
	DefaultVisionModel      = "gpt-4o"
	DefaultCacheTTLMinutes  = 1440
)

// applyDefaults fills in defaulted fields on a loaded configuration.
func applyDefaults(c *ConfigData) {
	if c.Service.ListenAddr == "" {
		c.Service.ListenAddr = DefaultListenAddr
	}
	if c.Providers.GeocodeEndpoint == "" {
		c.Providers.GeocodeEndpoint = DefaultGeocodeEndpoint
	}
	if c.Providers.InsightsEndpoint == "" {
		c.Providers.InsightsEndpoint = DefaultInsightsEndpoint
	}
	if c.Providers.VisionEndpoint == "" {
		c.Providers.VisionEndpoint = DefaultVisionEndpoint
	}
	if c.Providers.VisionModel == "" {
		c.Providers.VisionModel = DefaultVisionModel
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = DefaultCacheTTLMinutes
	}
}
