package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	service, err := s.GetService()
	if err != nil {
		return nil, fmt.Errorf("failed to load service config: %w", err)
	}
	config.Service = *service

	providers, err := s.GetProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}
	config.Providers = *providers

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	cache, err := s.GetCacheConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache config: %w", err)
	}
	config.Cache = *cache

	applyDefaults(config)
	return config, nil
}

// GetService returns the service configuration from the database
func (s *SQLiteProvider) GetService() (*ServiceData, error) {
	query := `
		SELECT listen_addr, log_file
		FROM service_config
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')`

	service := &ServiceData{}
	var listenAddr, logFile sql.NullString

	err := s.db.QueryRow(query).Scan(&listenAddr, &logFile)
	if err == sql.ErrNoRows {
		return service, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query service config: %w", err)
	}

	service.ListenAddr = listenAddr.String
	service.LogFile = logFile.String
	return service, nil
}

// GetProviders returns the upstream provider configuration from the database
func (s *SQLiteProvider) GetProviders() (*ProvidersData, error) {
	query := `
		SELECT google_api_key, geocode_endpoint, insights_endpoint,
		       vision_api_key, vision_endpoint, vision_model
		FROM provider_config
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')`

	providers := &ProvidersData{}
	var googleKey, geocodeEndpoint, insightsEndpoint sql.NullString
	var visionKey, visionEndpoint, visionModel sql.NullString

	err := s.db.QueryRow(query).Scan(&googleKey, &geocodeEndpoint, &insightsEndpoint,
		&visionKey, &visionEndpoint, &visionModel)
	if err == sql.ErrNoRows {
		return providers, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query provider config: %w", err)
	}

	providers.GoogleAPIKey = googleKey.String
	providers.GeocodeEndpoint = geocodeEndpoint.String
	providers.InsightsEndpoint = insightsEndpoint.String
	providers.VisionAPIKey = visionKey.String
	providers.VisionEndpoint = visionEndpoint.String
	providers.VisionModel = visionModel.String
	return providers, nil
}

// GetStorageConfig returns the storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	query := `
		SELECT connection_string
		FROM storage_config
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')`

	storage := &StorageData{}
	var connectionString sql.NullString

	err := s.db.QueryRow(query).Scan(&connectionString)
	if err == sql.ErrNoRows {
		return storage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage config: %w", err)
	}

	storage.ConnectionString = connectionString.String
	return storage, nil
}

// GetCacheConfig returns the cache configuration from the database
func (s *SQLiteProvider) GetCacheConfig() (*CacheData, error) {
	query := `
		SELECT path, ttl_minutes
		FROM cache_config
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')`

	cache := &CacheData{}
	var path sql.NullString
	var ttl sql.NullInt64

	err := s.db.QueryRow(query).Scan(&path, &ttl)
	if err == sql.ErrNoRows {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache config: %w", err)
	}

	cache.Path = path.String
	cache.TTLMinutes = int(ttl.Int64)
	return cache, nil
}

// IsReadOnly returns false; SQLite configurations support runtime edits
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
