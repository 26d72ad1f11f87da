package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemGenerator(0)).Float64()
		v2 := rng2.ForSubsystem(SubsystemGenerator(0)).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from generator 0 doesn't affect generator 1
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemGenerator(0)).Float64()
	}
	aFirst := rngA.ForSubsystem(SubsystemGenerator(1)).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForSubsystem(SubsystemGenerator(1)).Float64()

	if aFirst != expectedFirst {
		t.Errorf("generator 1 first value = %v, want %v (isolation broken)", aFirst, expectedFirst)
	}
}

func TestPartitionedRNG_XorDerivation(t *testing.T) {
	// BDD: subsystem seed = master XOR fnv1a64(name)
	seed := int64(42)
	name := SubsystemGenerator(3)
	got := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(name).Float64()
	want := rand.New(rand.NewSource(seed ^ fnv1a64(name))).Float64()
	if got != want {
		t.Errorf("derived stream value = %v, want %v", got, want)
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	// BDD: Same name returns same *rand.Rand instance
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if rng.ForSubsystem(SubsystemGenerator(0)) != rng.ForSubsystem(SubsystemGenerator(0)) {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	seed := int64(12345)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	if rng.Key() != SimulationKey(seed) {
		t.Errorf("Key() = %v, want %v", rng.Key(), seed)
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	// BDD: Subsystems map is empty until ForSubsystem is called
	rng := NewPartitionedRNG(NewSimulationKey(42))

	if len(rng.subsystems) != 0 {
		t.Errorf("New PartitionedRNG has %d subsystems, want 0", len(rng.subsystems))
	}

	rng.ForSubsystem(SubsystemGenerator(0))

	if len(rng.subsystems) != 1 {
		t.Errorf("After one ForSubsystem call, have %d subsystems, want 1", len(rng.subsystems))
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Collision(t *testing.T) {
	// Different subsystem names should produce different hashes (spot check)
	hashes := make(map[int64]string)
	for i := 0; i < 64; i++ {
		name := SubsystemGenerator(i)
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === SubsystemGenerator Tests ===

func TestSubsystemGenerator(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "generator_0"},
		{1, "generator_1"},
		{100, "generator_100"},
	}

	for _, tt := range tests {
		if got := SubsystemGenerator(tt.id); got != tt.want {
			t.Errorf("SubsystemGenerator(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemGenerator(0))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemGenerator(0))
	}
}
