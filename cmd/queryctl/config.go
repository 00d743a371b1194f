package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mhodnik/seqnet/internal/sequence"
)

// queryctl profile.toml key mapping.
type fileProfile struct {
	RegistryAddr string      `toml:"registry_addr"`
	Node         string      `toml:"node"`
	Queries      []fileQuery `toml:"queries"`
}

type fileQuery struct {
	Sequence   string     `toml:"sequence"`
	From       int64      `toml:"from"`
	To         int64      `toml:"to"`
	Step       int64      `toml:"step"`
	Parameters []float64  `toml:"parameters"`
	Sequences  []fileSpec `toml:"sequences"`
}

type fileSpec struct {
	Name       string     `toml:"name"`
	Parameters []float64  `toml:"parameters"`
	Sequences  []fileSpec `toml:"sequences"`
}

type profile struct {
	RegistryAddr string
	Node         string
	Queries      []query
}

type query struct {
	Sequence   string
	Range      sequence.Range
	Parameters []float64
	Sequences  []sequence.Spec
}

// loadProfile reads a TOML query profile with default overlay.
func loadProfile(path string) (profile, error) {
	var raw fileProfile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return profile{}, fmt.Errorf("load query profile: %w", err)
	}

	out := profile{
		RegistryAddr: "http://127.0.0.1:7878",
		Node:         strings.TrimSpace(raw.Node),
	}
	if meta.IsDefined("registry_addr") {
		out.RegistryAddr = strings.TrimSpace(raw.RegistryAddr)
	}
	if out.Node == "" {
		return profile{}, fmt.Errorf("load query profile: node is required")
	}
	if len(raw.Queries) == 0 {
		return profile{}, fmt.Errorf("load query profile: at least one query is required")
	}

	for i, q := range raw.Queries {
		name := strings.TrimSpace(q.Sequence)
		if name == "" {
			return profile{}, fmt.Errorf("load query profile: queries[%d] missing sequence", i)
		}
		step := q.Step
		if step == 0 {
			step = 1
		}
		out.Queries = append(out.Queries, query{
			Sequence:   name,
			Range:      sequence.Range{From: q.From, To: q.To, Step: step},
			Parameters: q.Parameters,
			Sequences:  convertSpecs(q.Sequences),
		})
	}
	return out, nil
}

func convertSpecs(in []fileSpec) []sequence.Spec {
	out := make([]sequence.Spec, 0, len(in))
	for _, s := range in {
		out = append(out, sequence.Spec{
			Name:       s.Name,
			Parameters: s.Parameters,
			Sequences:  convertSpecs(s.Sequences),
		})
	}
	return out
}
