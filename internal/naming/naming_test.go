package naming

import "testing"

func TestFreshNamesAreUniqueAndReserved(t *testing.T) {
	c := New()
	t1 := c.FreshTyVar()
	t2 := c.FreshTyVar()
	if t1 == t2 {
		t.Fatalf("FreshTyVar returned the same name twice: %q", t1)
	}
	if !IsGenerated(t1) || !IsGenerated(t2) {
		t.Errorf("generated type variable names must carry the reserved prefix, got %q and %q", t1, t2)
	}

	k1 := c.FreshKid()
	k2 := c.FreshKid()
	if k1 == k2 {
		t.Fatalf("FreshKid returned the same name twice: %q", k1)
	}
	if !IsGenerated(k1) || !IsGenerated(k2) {
		t.Errorf("generated kid names must carry the reserved prefix, got %q and %q", k1, k2)
	}
}

func TestFreshArgTaggedIsolatesPerArgIndex(t *testing.T) {
	c := New()
	a0 := c.FreshArgTagged(0)
	b0 := c.FreshArgTagged(0)
	a1 := c.FreshArgTagged(1)
	if a0 == b0 {
		t.Fatalf("two calls for the same argument index produced the same name: %q", a0)
	}
	if a0 == a1 {
		t.Fatalf("different argument indices collided: %q", a0)
	}
}

func TestIsGeneratedRejectsUserNames(t *testing.T) {
	if IsGenerated("n") {
		t.Error("a plain user-written name must not be reported as generated")
	}
	if IsGenerated("") {
		t.Error("the empty name must not be reported as generated")
	}
}

func TestNewContextsAreIndependent(t *testing.T) {
	c1 := New()
	c2 := New()
	if c1.FreshKid() != c2.FreshKid() {
		t.Error("two fresh contexts should mint the same first name, confirming no shared global state")
	}
}
