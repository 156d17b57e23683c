package cron

import "testing"

func TestRegistryStoresJobs(t *testing.T) {
	first := &testJob{name: "first"}
	second := &testJob{name: "second"}

	registry := NewRegistry(first, nil)
	registry.Register(second)
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name() != "first" || jobs[1].Name() != "second" {
		t.Fatalf("jobs out of order: %q, %q", jobs[0].Name(), jobs[1].Name())
	}

	// mutating the returned slice must not affect the registry
	jobs[0] = &testJob{name: "swapped"}
	if registry.Jobs()[0].Name() != "first" {
		t.Fatal("Jobs leaked the internal slice")
	}
}
