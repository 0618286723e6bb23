// Package paramspace models the explored hardware parameter space and expands
// it into the ordered list of concrete simulator configurations. It performs
// no I/O.
package paramspace

// Role identifies one of the seven configurable device slots of a system
// configuration. The set is fixed; RoleOrder governs both enumeration and
// override serialization.
type Role string

const (
	RoleITLB     Role = "itlb"
	RoleDTLB     Role = "dtlb"
	RoleL1ICache Role = "l1_icache"
	RoleL1DCache Role = "l1_dcache"
	RoleL2Cache  Role = "l2_cache"
	RoleL3Cache  Role = "l3_cache"
	RoleL4Cache  Role = "l4_cache"
)

var RoleOrder = []Role{
	RoleITLB,
	RoleDTLB,
	RoleL1ICache,
	RoleL1DCache,
	RoleL2Cache,
	RoleL3Cache,
	RoleL4Cache,
}

// Space is the full explored parameter space, one parameter range per device
// role.
type Space struct {
	Caches CacheSet `yaml:"caches"`
	TLBs   TLBSet   `yaml:"tlbs"`
}

type CacheSet struct {
	L1ICache CacheParams `yaml:"l1_icache"`
	L1DCache CacheParams `yaml:"l1_dcache"`
	L2Cache  CacheParams `yaml:"l2_cache"`
	L3Cache  CacheParams `yaml:"l3_cache"`
	L4Cache  CacheParams `yaml:"l4_cache"`
}

type TLBSet struct {
	ITLB TLBParams `yaml:"itlb"`
	DTLB TLBParams `yaml:"dtlb"`
}

// Configuration is one full hardware configuration, one instance per device
// role. Index is its 1-based position in enumeration order and names the
// run's output directory; two value-identical configurations remain distinct
// by index.
type Configuration struct {
	Index    int
	ITLB     TLBInstance
	DTLB     TLBInstance
	L1ICache CacheInstance
	L1DCache CacheInstance
	L2Cache  CacheInstance
	L3Cache  CacheInstance
	L4Cache  CacheInstance
}

// Overrides serializes the configuration to simulator override arguments,
// concatenating each device's overrides in fixed role order. The sequence is
// byte-identical across runs for value-identical configurations.
func (c Configuration) Overrides() []string {
	var args []string
	args = append(args, c.ITLB.Overrides(RoleITLB)...)
	args = append(args, c.DTLB.Overrides(RoleDTLB)...)
	args = append(args, c.L1ICache.Overrides(RoleL1ICache)...)
	args = append(args, c.L1DCache.Overrides(RoleL1DCache)...)
	args = append(args, c.L2Cache.Overrides(RoleL2Cache)...)
	args = append(args, c.L3Cache.Overrides(RoleL3Cache)...)
	args = append(args, c.L4Cache.Overrides(RoleL4Cache)...)
	return args
}

// Enumerate expands the space into every concrete configuration, in the
// lexicographic product order over RoleOrder with the last role varying
// fastest. The order is deterministic: repeated calls on an unchanged space
// yield identical configurations at identical indices.
func (s Space) Enumerate() []Configuration {
	itlbs := s.TLBs.ITLB.Combinations()
	dtlbs := s.TLBs.DTLB.Combinations()
	icaches := s.Caches.L1ICache.Combinations()
	dcaches := s.Caches.L1DCache.Combinations()
	l2s := s.Caches.L2Cache.Combinations()
	l3s := s.Caches.L3Cache.Combinations()
	l4s := s.Caches.L4Cache.Combinations()

	configs := make([]Configuration, 0, s.Count())
	index := 1
	for _, itlb := range itlbs {
		for _, dtlb := range dtlbs {
			for _, icache := range icaches {
				for _, dcache := range dcaches {
					for _, l2 := range l2s {
						for _, l3 := range l3s {
							for _, l4 := range l4s {
								configs = append(configs, Configuration{
									Index:    index,
									ITLB:     itlb,
									DTLB:     dtlb,
									L1ICache: icache,
									L1DCache: dcache,
									L2Cache:  l2,
									L3Cache:  l3,
									L4Cache:  l4,
								})
								index++
							}
						}
					}
				}
			}
		}
	}
	return configs
}

// Count returns the total number of configurations Enumerate produces: the
// product over all roles of each device's instance count, where a device
// without configured axes counts as 1.
func (s Space) Count() int {
	return len(s.TLBs.ITLB.Combinations()) *
		len(s.TLBs.DTLB.Combinations()) *
		len(s.Caches.L1ICache.Combinations()) *
		len(s.Caches.L1DCache.Combinations()) *
		len(s.Caches.L2Cache.Combinations()) *
		len(s.Caches.L3Cache.Combinations()) *
		len(s.Caches.L4Cache.Combinations())
}
