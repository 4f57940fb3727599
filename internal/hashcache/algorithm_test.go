package hashcache

import "testing"

func TestAlgorithmNew(t *testing.T) {
	for _, a := range []Algorithm{SHA256, SHA3, ""} {
		h, err := a.New()
		if err != nil {
			t.Errorf("Algorithm(%q).New(): unexpected error %v", a, err)
			continue
		}
		if h == nil {
			t.Errorf("Algorithm(%q).New(): expected a non-nil hash.Hash", a)
		}
	}
}

func TestAlgorithmUnknown(t *testing.T) {
	if _, err := Algorithm("not-a-real-algorithm").New(); err == nil {
		t.Error("expected an error for an unrecognized algorithm")
	}
}
