package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mhodnik/seqnet/internal/observability"
	"github.com/mhodnik/seqnet/internal/protocol"
	"github.com/mhodnik/seqnet/internal/registry"
	"github.com/mhodnik/seqnet/internal/sequence"
)

func main() {
	path := flag.String("profile", "profile.toml", "path to query profile")
	flag.Parse()

	observability.InitLogger("queryctl")

	prof, err := loadProfile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "queryctl: %v\n", err)
		os.Exit(1)
	}
	if err := run(prof); err != nil {
		fmt.Fprintf(os.Stderr, "queryctl: %v\n", err)
		os.Exit(1)
	}
}

func run(prof profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nodes, err := registry.NewClient(prof.RegistryAddr).Nodes(ctx)
	if err != nil {
		return err
	}

	var target *protocol.NodeRecord
	for i := range nodes {
		if nodes[i].Name == prof.Node {
			target = &nodes[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("node %q not registered", prof.Node)
	}
	base := "http://" + target.Addr()
	log.Info().Str("node", target.Name).Str("addr", target.Addr()).Msg("resolved target node")

	client := &http.Client{Timeout: 10 * time.Second}

	infos, err := fetchCatalog(ctx, client, base)
	if err != nil {
		return err
	}
	for _, info := range infos {
		log.Info().
			Str("sequence", info.Name).
			Str("description", info.Description).
			Int("parameters", info.Parameters).
			Int("sequences", info.Sequences).
			Msg("catalog entry")
	}

	for _, q := range prof.Queries {
		values, missing, err := postQuery(ctx, client, base, q)
		if err != nil {
			return fmt.Errorf("query %s: %w", q.Sequence, err)
		}
		if missing != "" {
			log.Warn().Str("sequence", missing).Msg("nobody has sequence")
			continue
		}
		fmt.Printf("%s %+v -> %v\n", q.Sequence, q.Range, values)
	}
	return nil
}

func fetchCatalog(ctx context.Context, client *http.Client, base string) ([]sequence.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/sequence", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog listing returned http %d", resp.StatusCode)
	}
	var infos []sequence.Info
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		return nil, err
	}
	return infos, nil
}

func postQuery(ctx context.Context, client *http.Client, base string, q query) ([]float64, string, error) {
	body, err := json.Marshal(protocol.QueryRequest{
		Range:      q.Range,
		Parameters: q.Parameters,
		Sequences:  q.Sequences,
	})
	if err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/sequence/"+q.Sequence, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("query returned http %d", resp.StatusCode)
	}
	var out protocol.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", err
	}
	return out.Values, out.Missing, nil
}
