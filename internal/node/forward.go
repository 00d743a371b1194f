package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mhodnik/seqnet/internal/observability"
	"github.com/mhodnik/seqnet/internal/protocol"
)

var ErrNobodyHasSequence = errors.New("node: nobody has sequence")

// Directory answers ownership lookups for forwarding.
type Directory interface {
	Owners(ctx context.Context, name string) ([]string, error)
}

// Forwarder resolves sequences this node does not own by querying peers.
//
// Candidates come from the directory with this node's own address removed,
// are shuffled for load distribution, and are tried one at a time. A
// candidate that errors or times out is skipped, never retried; the first
// well-formed result wins.
type Forwarder struct {
	directory Directory
	nodeID    string
	self      string
	http      *http.Client
}

func NewForwarder(directory Directory, nodeID, selfAddr string) *Forwarder {
	return &Forwarder{
		directory: directory,
		nodeID:    nodeID,
		self:      selfAddr,
		http:      &http.Client{Timeout: 5 * time.Second},
	}
}

// ResolveRemote forwards the top-level request to a peer that owns name.
// It fails with ErrNobodyHasSequence once the candidate set is exhausted.
func (f *Forwarder) ResolveRemote(ctx context.Context, name string, req protocol.QueryRequest) ([]float64, error) {
	owners, err := f.directory.Owners(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("node: owners lookup for %q: %w", name, err)
	}

	candidates := make([]string, 0, len(owners))
	for _, addr := range owners {
		if addr != f.self {
			candidates = append(candidates, addr)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNobodyHasSequence, name)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, addr := range candidates {
		values, err := f.query(ctx, addr, name, req)
		if err != nil {
			log.Warn().
				Str("peer", addr).
				Str("sequence", name).
				Err(err).
				Msg("forward attempt failed")
			continue
		}
		log.Debug().Str("peer", addr).Str("sequence", name).Msg("forwarded query served")
		return values, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNobodyHasSequence, name)
}

func (f *Forwarder) query(ctx context.Context, addr, name string, req protocol.QueryRequest) ([]float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	target := "http://" + addr + "/sequence/" + url.PathEscape(name)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := f.http.Do(httpReq)
	if err != nil {
		observability.RecordForward(f.nodeID, addr, name, 0, time.Since(start), false)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		observability.RecordForward(f.nodeID, addr, name, resp.StatusCode, time.Since(start), false)
		return nil, fmt.Errorf("node: peer %s returned http %d", addr, resp.StatusCode)
	}

	var out protocol.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.RecordForward(f.nodeID, addr, name, resp.StatusCode, time.Since(start), false)
		return nil, fmt.Errorf("node: peer %s sent malformed response: %w", addr, err)
	}
	if out.Missing != "" {
		// The directory said this peer owns the sequence but the peer
		// disagrees; treat it like any other failed candidate.
		observability.RecordForward(f.nodeID, addr, name, resp.StatusCode, time.Since(start), false)
		return nil, fmt.Errorf("node: peer %s does not serve %q", addr, out.Missing)
	}

	observability.RecordForward(f.nodeID, addr, name, resp.StatusCode, time.Since(start), true)
	return out.Values, nil
}
