package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Service struct {
			ListenAddr string `yaml:"listen_addr"`
			LogFile    string `yaml:"log_file"`
		} `yaml:"service"`
		Providers struct {
			GoogleAPIKey     string `yaml:"google_api_key"`
			GeocodeEndpoint  string `yaml:"geocode_endpoint"`
			InsightsEndpoint string `yaml:"insights_endpoint"`
			VisionAPIKey     string `yaml:"vision_api_key"`
			VisionEndpoint   string `yaml:"vision_endpoint"`
			VisionModel      string `yaml:"vision_model"`
		} `yaml:"providers"`
		Storage struct {
			ConnectionString string `yaml:"connection_string"`
		} `yaml:"storage"`
		Cache struct {
			Path       string `yaml:"path"`
			TTLMinutes int    `yaml:"ttl_minutes"`
		} `yaml:"cache"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Service: ServiceData{
			ListenAddr: yamlConfig.Service.ListenAddr,
			LogFile:    yamlConfig.Service.LogFile,
		},
		Providers: ProvidersData{
			GoogleAPIKey:     yamlConfig.Providers.GoogleAPIKey,
			GeocodeEndpoint:  yamlConfig.Providers.GeocodeEndpoint,
			InsightsEndpoint: yamlConfig.Providers.InsightsEndpoint,
			VisionAPIKey:     yamlConfig.Providers.VisionAPIKey,
			VisionEndpoint:   yamlConfig.Providers.VisionEndpoint,
			VisionModel:      yamlConfig.Providers.VisionModel,
		},
		Storage: StorageData{
			ConnectionString: yamlConfig.Storage.ConnectionString,
		},
		Cache: CacheData{
			Path:       yamlConfig.Cache.Path,
			TTLMinutes: yamlConfig.Cache.TTLMinutes,
		},
	}

	applyDefaults(config)
	y.config = config
	return config, nil
}

// GetService returns the service configuration section
func (y *YAMLProvider) GetService() (*ServiceData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Service, nil
}

// GetProviders returns the upstream provider configuration section
func (y *YAMLProvider) GetProviders() (*ProvidersData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Providers, nil
}

// GetStorageConfig returns the storage configuration section
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Storage, nil
}

// GetCacheConfig returns the cache configuration section
func (y *YAMLProvider) GetCacheConfig() (*CacheData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Cache, nil
}

// IsReadOnly returns true; YAML configurations are not editable at runtime
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config != nil {
		return nil
	}
	_, err := y.LoadConfig()
	return err
}
