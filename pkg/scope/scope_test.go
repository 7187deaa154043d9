package scope

import "testing"

func TestInsertAndLookup(t *testing.T) {
	s := New[int]()
	s.Insert("x", 1)

	v, ok := s.Lookup("x")
	if !ok || v != 1 {
		t.Errorf("Lookup(x) = (%d, %v), want (1, true)", v, ok)
	}

	if _, ok := s.Lookup("y"); ok {
		t.Error("Lookup(y) should miss")
	}
}

func TestShadowing(t *testing.T) {
	s := New[int]()
	s.Insert("x", 1)

	s.Enter()
	s.Insert("x", 2)
	if v, _ := s.Lookup("x"); v != 2 {
		t.Errorf("inner Lookup(x) = %d, want 2", v)
	}

	s.Exit()
	if v, _ := s.Lookup("x"); v != 1 {
		t.Errorf("outer Lookup(x) = %d, want 1", v)
	}
}

func TestExitAbandonsBindings(t *testing.T) {
	s := New[string]()
	s.Enter()
	s.Insert("local", "value")
	s.Exit()

	if _, ok := s.Lookup("local"); ok {
		t.Error("binding should be abandoned after Exit")
	}
}

func TestOuterVisibleFromInner(t *testing.T) {
	s := New[int]()
	s.Insert("a", 10)
	s.Enter()
	s.Enter()

	if v, ok := s.Lookup("a"); !ok || v != 10 {
		t.Errorf("Lookup(a) = (%d, %v), want (10, true)", v, ok)
	}
}

func TestRootFrameNeverPopped(t *testing.T) {
	s := New[int]()
	s.Insert("x", 1)
	s.Exit()
	s.Exit()

	if s.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", s.Depth())
	}
	if v, ok := s.Lookup("x"); !ok || v != 1 {
		t.Errorf("Lookup(x) = (%d, %v), want (1, true)", v, ok)
	}
}
