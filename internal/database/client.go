// Package database persists completed gutter estimates to PostgreSQL.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/roofsight/roofsight/internal/log"
	"go.uber.org/zap"
)

// Client holds the connection to the estimates database
type Client struct {
	connectionString string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the database and migrates the estimate tables
func (c *Client) Connect() error {
	var err error

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	config := &gorm.Config{
		Logger: dbLogger,
	}

	log.Info("connecting to estimates database...")
	c.DB, err = gorm.Open(postgres.Open(c.connectionString), config)
	if err != nil {
		log.Warn("warning: unable to create a database connection:", err)
		return err
	}
	log.Info("estimates database connection successful")

	if err := c.DB.AutoMigrate(&EstimateRecord{}); err != nil {
		return fmt.Errorf("error migrating estimate tables: %w", err)
	}

	return nil
}

// SaveEstimate stores a completed estimate
func (c *Client) SaveEstimate(record *EstimateRecord) error {
	if err := c.DB.Create(record).Error; err != nil {
		return fmt.Errorf("error saving estimate record: %w", err)
	}
	return nil
}

// GetEstimatesByAddress returns previously computed estimates for an
// address, newest first
func (c *Client) GetEstimatesByAddress(address string, limit int) ([]EstimateRecord, error) {
	var records []EstimateRecord
	err := c.DB.Where("address = ?", address).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error querying estimate records: %w", err)
	}
	return records, nil
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
