package paramspace

import "fmt"

// Override keys are passed to the simulator as perf_model/<role>/<param>=<value>.
const overrideNamespace = "perf_model"

// CacheParams holds the candidate values for the tunable axes of one cache
// level. An empty axis means the simulator default is kept for that axis.
type CacheParams struct {
	CacheSize      []int    `yaml:"cache_size"`
	CacheBlockSize []int    `yaml:"cache_block_size"`
	Associativity  []int    `yaml:"associativity"`
	Replacement    []string `yaml:"replacement"`
}

// TLBParams holds the candidate values for the tunable axes of one TLB.
type TLBParams struct {
	Entries       []int `yaml:"entries"`
	Associativity []int `yaml:"associativity"`
	PageSize      []int `yaml:"page_size"`
}

// CacheInstance is one concrete assignment of a cache's axes. A nil field is
// unset and contributes no override argument.
type CacheInstance struct {
	CacheSize      *int
	CacheBlockSize *int
	Associativity  *int
	Replacement    *string
}

// TLBInstance is one concrete assignment of a TLB's axes.
type TLBInstance struct {
	Entries       *int
	Associativity *int
	PageSize      *int
}

// Combinations expands the cache axes into the Cartesian product of their
// candidate values, substituting unset for any axis without values. A cache
// with no configured axes yields exactly one fully-unset instance, so the
// device still participates as a singleton in the full product.
func (p CacheParams) Combinations() []CacheInstance {
	sizes := intAxis(p.CacheSize)
	blockSizes := intAxis(p.CacheBlockSize)
	assocs := intAxis(p.Associativity)
	replacements := stringAxis(p.Replacement)

	instances := make([]CacheInstance, 0, len(sizes)*len(blockSizes)*len(assocs)*len(replacements))
	for _, size := range sizes {
		for _, block := range blockSizes {
			for _, assoc := range assocs {
				for _, repl := range replacements {
					instances = append(instances, CacheInstance{
						CacheSize:      size,
						CacheBlockSize: block,
						Associativity:  assoc,
						Replacement:    repl,
					})
				}
			}
		}
	}
	return instances
}

// Combinations expands the TLB axes the same way as CacheParams.Combinations.
func (p TLBParams) Combinations() []TLBInstance {
	entries := intAxis(p.Entries)
	assocs := intAxis(p.Associativity)
	pageSizes := intAxis(p.PageSize)

	instances := make([]TLBInstance, 0, len(entries)*len(assocs)*len(pageSizes))
	for _, entry := range entries {
		for _, assoc := range assocs {
			for _, page := range pageSizes {
				instances = append(instances, TLBInstance{
					Entries:       entry,
					Associativity: assoc,
					PageSize:      page,
				})
			}
		}
	}
	return instances
}

// Overrides serializes the set axes to override arguments in declared axis
// order. A fully-unset instance serializes to nothing.
func (c CacheInstance) Overrides(role Role) []string {
	var args []string
	if c.CacheSize != nil {
		args = append(args, intOverride(role, "cache_size", *c.CacheSize))
	}
	if c.CacheBlockSize != nil {
		args = append(args, intOverride(role, "cache_block_size", *c.CacheBlockSize))
	}
	if c.Associativity != nil {
		args = append(args, intOverride(role, "associativity", *c.Associativity))
	}
	if c.Replacement != nil {
		args = append(args, fmt.Sprintf("%s/%s/replacement=%s", overrideNamespace, role, *c.Replacement))
	}
	return args
}

func (t TLBInstance) Overrides(role Role) []string {
	var args []string
	if t.Entries != nil {
		args = append(args, intOverride(role, "entries", *t.Entries))
	}
	if t.Associativity != nil {
		args = append(args, intOverride(role, "associativity", *t.Associativity))
	}
	if t.PageSize != nil {
		args = append(args, intOverride(role, "page_size", *t.PageSize))
	}
	return args
}

func intOverride(role Role, param string, value int) string {
	return fmt.Sprintf("%s/%s/%s=%d", overrideNamespace, role, param, value)
}

func intAxis(values []int) []*int {
	if len(values) == 0 {
		return []*int{nil}
	}
	axis := make([]*int, len(values))
	for i := range values {
		v := values[i]
		axis[i] = &v
	}
	return axis
}

func stringAxis(values []string) []*string {
	if len(values) == 0 {
		return []*string{nil}
	}
	axis := make([]*string, len(values))
	for i := range values {
		v := values[i]
		axis[i] = &v
	}
	return axis
}
