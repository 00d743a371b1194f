package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mhodnik/seqnet/internal/config"
	"github.com/mhodnik/seqnet/internal/observability"
	"github.com/mhodnik/seqnet/internal/registry"
)

func main() {
	path := flag.String("config", "registry.toml", "path to registry config")
	flag.Parse()

	observability.InitLogger("registryctl")

	cfg, err := config.LoadRegistryConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "registryctl: %v\n", err)
		os.Exit(1)
	}

	srv := registry.NewServer(registry.ServerConfig{
		ID:          cfg.ID,
		Addr:        cfg.Addr,
		CorsOrigins: cfg.CorsOrigins,
	})
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "registryctl: %v\n", err)
		os.Exit(1)
	}
}
