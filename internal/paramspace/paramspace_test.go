package paramspace

import (
	"reflect"
	"testing"
)

func TestCacheCombinations_UnconfiguredYieldsSingleUnsetInstance(t *testing.T) {
	instances := CacheParams{}.Combinations()
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	if got := instances[0].Overrides(RoleL2Cache); len(got) != 0 {
		t.Fatalf("expected no overrides for unset instance, got %v", got)
	}
}

func TestCacheCombinations_ProductOverConfiguredAxes(t *testing.T) {
	params := CacheParams{
		CacheSize:     []int{32, 64},
		Associativity: []int{2, 4, 8},
	}
	instances := params.Combinations()
	if len(instances) != 6 {
		t.Fatalf("expected 6 instances, got %d", len(instances))
	}

	// Last axis varies fastest.
	first := instances[0]
	if *first.CacheSize != 32 || *first.Associativity != 2 {
		t.Fatalf("unexpected first instance: size=%d assoc=%d", *first.CacheSize, *first.Associativity)
	}
	second := instances[1]
	if *second.CacheSize != 32 || *second.Associativity != 4 {
		t.Fatalf("unexpected second instance: size=%d assoc=%d", *second.CacheSize, *second.Associativity)
	}
	last := instances[5]
	if *last.CacheSize != 64 || *last.Associativity != 8 {
		t.Fatalf("unexpected last instance: size=%d assoc=%d", *last.CacheSize, *last.Associativity)
	}

	// Unconfigured axes stay unset.
	if first.CacheBlockSize != nil || first.Replacement != nil {
		t.Fatal("expected unconfigured axes to stay unset")
	}
}

func TestTLBCombinations(t *testing.T) {
	params := TLBParams{Entries: []int{64, 128}, PageSize: []int{4096}}
	instances := params.Combinations()
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}
	for _, inst := range instances {
		if inst.Associativity != nil {
			t.Fatal("expected associativity to stay unset")
		}
		if *inst.PageSize != 4096 {
			t.Fatalf("expected page_size 4096, got %d", *inst.PageSize)
		}
	}
}

func TestCacheOverrides_FormatAndOrder(t *testing.T) {
	size := 64
	block := 32
	assoc := 8
	repl := "lru"
	inst := CacheInstance{CacheSize: &size, CacheBlockSize: &block, Associativity: &assoc, Replacement: &repl}

	want := []string{
		"perf_model/l1_dcache/cache_size=64",
		"perf_model/l1_dcache/cache_block_size=32",
		"perf_model/l1_dcache/associativity=8",
		"perf_model/l1_dcache/replacement=lru",
	}
	got := inst.Overrides(RoleL1DCache)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("overrides mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestOverrides_SingleSetAxisYieldsSingleArgument(t *testing.T) {
	entries := 128
	inst := TLBInstance{Entries: &entries}
	got := inst.Overrides(RoleITLB)
	if len(got) != 1 || got[0] != "perf_model/itlb/entries=128" {
		t.Fatalf("unexpected overrides: %v", got)
	}
}

func TestSpaceCount_ProductOverAllRoles(t *testing.T) {
	space := Space{}
	space.Caches.L1DCache = CacheParams{CacheSize: []int{32, 64}, Associativity: []int{2, 4, 8}}
	if got := space.Count(); got != 6 {
		t.Fatalf("expected 6 configurations, got %d", got)
	}

	space.TLBs.ITLB = TLBParams{Entries: []int{64, 128}}
	if got := space.Count(); got != 12 {
		t.Fatalf("expected 12 configurations, got %d", got)
	}
}

func TestEnumerate_IndexedAndDeterministic(t *testing.T) {
	space := Space{}
	space.Caches.L1DCache = CacheParams{CacheSize: []int{32, 64}}
	space.TLBs.DTLB = TLBParams{Entries: []int{64, 128}}

	first := space.Enumerate()
	if len(first) != 4 {
		t.Fatalf("expected 4 configurations, got %d", len(first))
	}
	for i, cfg := range first {
		if cfg.Index != i+1 {
			t.Fatalf("configuration %d has index %d", i, cfg.Index)
		}
	}

	second := space.Enumerate()
	for i := range first {
		got := first[i].Overrides()
		want := second[i].Overrides()
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("enumeration not deterministic at index %d:\n got %v\nwant %v", i+1, got, want)
		}
	}
}

func TestConfigurationOverrides_FixedRoleOrder(t *testing.T) {
	space := Space{}
	space.Caches.L1DCache = CacheParams{CacheSize: []int{32}}
	space.TLBs.DTLB = TLBParams{Entries: []int{64}}

	configs := space.Enumerate()
	if len(configs) != 1 {
		t.Fatalf("expected 1 configuration, got %d", len(configs))
	}

	// TLB overrides come before cache overrides.
	want := []string{
		"perf_model/dtlb/entries=64",
		"perf_model/l1_dcache/cache_size=32",
	}
	if got := configs[0].Overrides(); !reflect.DeepEqual(got, want) {
		t.Fatalf("override order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestEnumerate_UnconfiguredSpaceYieldsOneDefaultConfiguration(t *testing.T) {
	configs := Space{}.Enumerate()
	if len(configs) != 1 {
		t.Fatalf("expected 1 configuration, got %d", len(configs))
	}
	if got := configs[0].Overrides(); len(got) != 0 {
		t.Fatalf("expected empty override sequence, got %v", got)
	}
	if configs[0].Index != 1 {
		t.Fatalf("expected index 1, got %d", configs[0].Index)
	}
}
