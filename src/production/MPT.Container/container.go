package container

import (
	"fmt"
	"sync"

	"github.com/supabase-community/postgrest-go"
	config "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Config"
	logger "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Logger"
	implementation "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Repository/Implementation"
	interfaces "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Repository/Interfaces"
	"gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.SeederService/client"
)

// SeederContainer manages dependencies for one run of the device seeder
type SeederContainer struct {
	config *config.SeederConfig
	logger *logger.Logger

	client     *postgrest.Client
	deviceRepo interfaces.DeviceRepository

	mu sync.Mutex
}

// NewSeederContainer loads configuration from envFile and the environment
func NewSeederContainer(envFile string) (*SeederContainer, error) {
	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load seeder configuration: %w", err)
	}

	// Initialize logger
	log := logger.NewLogger(&cfg.Logging)
	if cfg.EnvFileErr != nil {
		log.WarnWithError(cfg.EnvFileErr, "Ignoring unreadable env file")
	}

	return NewSeederContainerWith(cfg, log), nil
}

// NewSeederContainerWith builds a container around an already loaded configuration
func NewSeederContainerWith(cfg *config.SeederConfig, log *logger.Logger) *SeederContainer {
	return &SeederContainer{
		config: cfg,
		logger: log,
	}
}

// GetConfig returns the seeder configuration
func (c *SeederContainer) GetConfig() *config.SeederConfig {
	return c.config
}

// GetLogger returns the logger
func (c *SeederContainer) GetLogger() *logger.Logger {
	return c.logger
}

// GetClient returns the Supabase REST client, creating it on first use
func (c *SeederContainer) GetClient() *postgrest.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getClientLocked()
}

func (c *SeederContainer) getClientLocked() *postgrest.Client {
	if c.client == nil {
		c.client = client.NewSupabaseClient(c.config.Supabase.URL, c.config.Supabase.Key)
		c.logger.WithField("key_source", c.config.Supabase.KeySource).
			WithField("url", client.RestURL(c.config.Supabase.URL)).
			Debug("Supabase client created")
	}
	return c.client
}

// GetDeviceRepository returns the device repository
func (c *SeederContainer) GetDeviceRepository() interfaces.DeviceRepository {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deviceRepo == nil {
		c.deviceRepo = implementation.NewPostgrestDeviceRepository(c.getClientLocked(), c.logger)
	}

	return c.deviceRepo
}

// SetDeviceRepository replaces the device repository
func (c *SeederContainer) SetDeviceRepository(repo interfaces.DeviceRepository) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deviceRepo = repo
}
