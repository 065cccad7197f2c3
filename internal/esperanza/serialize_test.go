package esperanza

import (
	"bytes"
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

// TestSerializeRoundTrip exercises P5: deserialize(serialize(S)) == S.
func TestSerializeRoundTrip(t *testing.T) {
	s := NewGenesis(testParams())
	addr := addrOf(7)
	s.ProcessDeposit(addr, 5000, chain.DoubleHashH([]byte("dep")))
	_ = s.InitializeEpoch(1)

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(&buf, testParams())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !s.Equal(decoded) {
		t.Fatal("round-trip produced a different state")
	}
}

func TestSerializeRejectsUnknownVersion(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff})
	if _, err := Decode(buf, testParams()); err == nil {
		t.Fatal("expected error decoding an unrecognized version byte")
	}
}
