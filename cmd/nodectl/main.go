package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mhodnik/seqnet/internal/config"
	"github.com/mhodnik/seqnet/internal/node"
	"github.com/mhodnik/seqnet/internal/observability"
	"github.com/mhodnik/seqnet/internal/protocol"
)

func main() {
	path := flag.String("config", "node.toml", "path to node config")
	flag.Parse()

	cfg, err := config.LoadNodeConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nodectl: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Name)

	srv, err := node.NewServer(node.ServerConfig{
		Record: protocol.NodeRecord{
			Name:      cfg.Name,
			Host:      cfg.Host,
			Port:      cfg.Port,
			Sequences: cfg.Sequences,
		},
		Listen:       cfg.Listen,
		RegistryAddr: cfg.RegistryAddr,
		CorsOrigins:  cfg.CorsOrigins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "nodectl: %v\n", err)
		os.Exit(1)
	}
	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "nodectl: %v\n", err)
		os.Exit(1)
	}
}
