package commands

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// ConfigPersister serializes read-modify-write cycles on the config file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// Set applies key=value to the stored configuration and saves it. The
// running process sees the new value immediately.
func (p *ConfigPersister) Set(key, value string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	err := setConfigValue(config, key, value)
	if err != nil {
		return err
	}

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	viper.Set(key, value)

	return nil
}
