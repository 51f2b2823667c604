// Package dice provides the deterministic random source and dice roller used
// by the match engine.
package dice

// zeroStateReplacement seeds the generator when the caller's seed truncates
// to zero; a zero xorshift state never leaves zero.
const zeroStateReplacement uint32 = 0x9E3779B9

// Source is a 32-bit xorshift generator.
//
// # Determinism
//
// Two sources created with the same seed yield identical sequences for the
// same sequence of calls. Source is not safe for concurrent use; every match
// owns its own Source.
type Source struct {
	state uint32
}

// NewSource creates a Source from the low 32 bits of seed.
func NewSource(seed int64) *Source {
	state := uint32(uint64(seed))
	if state == 0 {
		state = zeroStateReplacement
	}
	return &Source{state: state}
}

// Uint32 advances the generator and returns the new state.
func (s *Source) Uint32() uint32 {
	x := s.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.state = x
	return x
}

// Float64 returns a value in [0, 1].
func (s *Source) Float64() float64 {
	return float64(s.Uint32()) / float64(^uint32(0))
}

// Intn returns a value in [0, n). It panics when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with non-positive n")
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Shuffle permutes n elements with Fisher-Yates using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, s.Intn(i+1))
	}
}

// DeriveSeed mixes base with each salt into a new seed. Used to give every
// match and every agent an independent stream from one tournament seed.
func DeriveSeed(base int64, salts ...int64) int64 {
	x := uint64(base)
	for _, salt := range salts {
		x = mix64(x ^ mix64(uint64(salt)+0x9E3779B97F4A7C15))
	}
	return int64(mix64(x))
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}
