package main

import (
	"flag"
	"log"

	"github.com/mhodnik/seqnet/internal/config"
)

func main() {
	kind := flag.String("kind", "node", "config kind: node|registry")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			switch *kind {
			case "node":
				path = "node.toml"
			case "registry":
				path = "registry.toml"
			default:
				log.Fatalf("unknown kind: %s", *kind)
			}
		}

		switch *kind {
		case "node":
			if _, err := config.LoadNodeConfig(path); err != nil {
				log.Fatal(err)
			}
		case "registry":
			if _, err := config.LoadRegistryConfig(path); err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
		log.Printf("%s config %s is valid", *kind, path)
		return
	}

	path := *output
	if path == "" {
		path = *kind + ".toml"
	}
	if err := config.WriteTemplate(path, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s config template to %s", *kind, path)
}
