package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig holds CLI preferences stored in ~/.farmsim/config.json
type UserConfig struct {
	// Run whose decisions and reports are listed when --run is omitted
	LastRunID string `json:"last_run_id,omitempty"`

	// Farm preset used by `farmsim run` when --farm-type is omitted
	DefaultFarmType string `json:"default_farm_type,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for ~/.farmsim/config.json
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".farmsim"))
}

// NewUserConfigHandlerAt creates a handler rooted at dir
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &UserConfigHandler{
		configPath: filepath.Join(dir, "config.json"),
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetLastRun remembers the most recent run ID
func (h *UserConfigHandler) SetLastRun(runID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.LastRunID = runID
	return h.Save(config)
}

// SetDefaultFarmType sets the preset used when none is given
func (h *UserConfigHandler) SetDefaultFarmType(farmType string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultFarmType = farmType
	return h.Save(config)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
