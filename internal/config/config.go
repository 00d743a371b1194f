// Package config loads and validates TOML configuration for the seqnet
// daemons.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type NodeConfig struct {
	Name         string   `toml:"name"`
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	Listen       string   `toml:"listen"`
	RegistryAddr string   `toml:"registry_addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	Sequences    []string `toml:"sequences"`
}

type RegistryConfig struct {
	ID          string   `toml:"id"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

func LoadNodeConfig(path string) (NodeConfig, error) {
	var cfg NodeConfig
	if err := loadToml(path, &cfg); err != nil {
		return NodeConfig{}, err
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Listen == "" {
		cfg.Listen = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.RegistryAddr == "" {
		cfg.RegistryAddr = "http://127.0.0.1:7878"
	}
	if err := ValidateNodeConfig(cfg); err != nil {
		return NodeConfig{}, err
	}
	return cfg, nil
}

func LoadRegistryConfig(path string) (RegistryConfig, error) {
	var cfg RegistryConfig
	if err := loadToml(path, &cfg); err != nil {
		return RegistryConfig{}, err
	}
	if cfg.ID == "" {
		cfg.ID = "registryctl"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":7878"
	}
	if err := ValidateRegistryConfig(cfg); err != nil {
		return RegistryConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateNodeConfig(cfg NodeConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("node config missing name")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("node config port %d out of range", cfg.Port)
	}
	if strings.TrimSpace(cfg.RegistryAddr) == "" {
		return fmt.Errorf("node config missing registry_addr")
	}
	if !strings.HasPrefix(cfg.RegistryAddr, "http://") && !strings.HasPrefix(cfg.RegistryAddr, "https://") {
		return fmt.Errorf("node config registry_addr must be a base URL")
	}
	if len(cfg.Sequences) == 0 {
		return fmt.Errorf("node config must list at least one sequence")
	}
	return nil
}

func ValidateRegistryConfig(cfg RegistryConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("registry config missing id")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("registry config missing addr")
	}
	return nil
}
