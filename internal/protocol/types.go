// Package protocol owns the wire types shared by nodes, the registry,
// and clients.
package protocol

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/mhodnik/seqnet/internal/sequence"
)

var ErrInvalidRecord = errors.New("protocol: invalid node record")

// NodeRecord is one node's advertisement: where it listens and which
// sequences it owns. Records are upserted into the registry keyed by
// host:port; re-registration replaces the previous record wholesale.
type NodeRecord struct {
	Name      string   `json:"name"`
	Host      string   `json:"host"`
	Port      int      `json:"port"`
	Sequences []string `json:"sequences"`
}

// Addr returns the host:port the node serves on.
func (r NodeRecord) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// Validate checks the fields a registry needs to route requests.
func (r NodeRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidRecord)
	}
	if r.Port < 1 || r.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidRecord, r.Port)
	}
	return nil
}

// QueryRequest is the body of POST /sequence/:name. The top-level spec is
// flattened: the name comes from the endpoint, parameters and nested
// sub-sequence specs travel in the body.
type QueryRequest struct {
	Range      sequence.Range  `json:"range"`
	Parameters []float64       `json:"parameters"`
	Sequences  []sequence.Spec `json:"sequences"`
}

// Spec reassembles the full top-level spec for the named endpoint.
func (q QueryRequest) Spec(name string) sequence.Spec {
	return sequence.Spec{Name: name, Parameters: q.Parameters, Sequences: q.Sequences}
}

// QueryResponse carries the ordered sampled values. Missing names the
// requested sequence when no node in the network owns it; in that case
// Values is present and empty, distinguishing the condition from a
// malformed-request error.
type QueryResponse struct {
	Values  []float64 `json:"values"`
	Missing string    `json:"missing,omitempty"`
}

// OwnersResponse lists the addresses of nodes whose catalogs contain a
// sequence. An empty list is a valid, non-error response.
type OwnersResponse struct {
	Addresses []string `json:"addresses"`
}
