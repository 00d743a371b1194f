package registry

import (
	"errors"
	"testing"

	"github.com/mhodnik/seqnet/internal/protocol"
)

func record(name, host string, port int, seqs ...string) protocol.NodeRecord {
	return protocol.NodeRecord{Name: name, Host: host, Port: port, Sequences: seqs}
}

func TestRegisterAndOwners(t *testing.T) {
	s := NewStore()
	if err := s.Register(record("alpha", "127.0.0.1", 9101, "Arithmetic", "Sum")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Register(record("beta", "127.0.0.1", 9102, "Arithmetic")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	owners := s.Owners("Arithmetic")
	if len(owners) != 2 || owners[0] != "127.0.0.1:9101" || owners[1] != "127.0.0.1:9102" {
		t.Fatalf("unexpected owners: %v", owners)
	}
	if got := s.Owners("Sum"); len(got) != 1 || got[0] != "127.0.0.1:9101" {
		t.Fatalf("unexpected Sum owners: %v", got)
	}
	if got := s.Owners("Geometric"); len(got) != 0 {
		t.Fatalf("expected no owners, got %v", got)
	}
}

func TestReregistrationReplacesCatalog(t *testing.T) {
	s := NewStore()
	if err := s.Register(record("alpha", "127.0.0.1", 9101, "Arithmetic")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Register(record("alpha", "127.0.0.1", 9101, "Geometric")); err != nil {
		t.Fatalf("re-Register: %v", err)
	}

	if got := s.Owners("Arithmetic"); len(got) != 0 {
		t.Fatalf("old catalog membership survived re-registration: %v", got)
	}
	if got := s.Owners("Geometric"); len(got) != 1 {
		t.Fatalf("new catalog membership missing: %v", got)
	}
	if all := s.All(); len(all) != 1 {
		t.Fatalf("expected one record after upsert, got %d", len(all))
	}
}

func TestRegisterRejectsInvalidRecord(t *testing.T) {
	s := NewStore()
	cases := []protocol.NodeRecord{
		record("", "127.0.0.1", 9101, "Arithmetic"),
		record("alpha", "", 9101, "Arithmetic"),
		record("alpha", "127.0.0.1", 0, "Arithmetic"),
		record("alpha", "127.0.0.1", 70000, "Arithmetic"),
	}
	for _, rec := range cases {
		if err := s.Register(rec); !errors.Is(err, protocol.ErrInvalidRecord) {
			t.Fatalf("record %+v: expected ErrInvalidRecord, got %v", rec, err)
		}
	}
	if all := s.All(); len(all) != 0 {
		t.Fatalf("invalid records must not be stored, got %v", all)
	}
}
