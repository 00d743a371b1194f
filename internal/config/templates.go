package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "node":
		return nodeTemplate, nil
	case "registry":
		return registryTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const nodeTemplate = `name = "node-alpha"
host = "127.0.0.1"
port = 9101
listen = ":9101"
registry_addr = "http://127.0.0.1:7878"
cors_origins = ["http://localhost:3000"]
sequences = ["Arithmetic", "Geometric", "Constant", "Sum"]
`

const registryTemplate = `id = "registryctl"
addr = ":7878"
cors_origins = ["http://localhost:3000"]
`
