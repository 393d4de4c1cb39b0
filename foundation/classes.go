package foundation

import "github.com/chazu/objective/object"

// Classes returns every class this package declares, ancestors before
// descendants.
func Classes() []*object.Class {
	return []*object.Class{
		StringClass,
		MutableStringClass,
		ArrayClass,
		IndexPathClass,
		DateClass,
		LockClass,
		ConditionClass,
		ThreadClass,
		URLSessionTaskClass,
		URLSessionDataTaskClass,
	}
}
