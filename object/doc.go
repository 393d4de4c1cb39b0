// Package object implements a small class/object runtime.
//
// This package contains:
//   - Class descriptors with single inheritance
//   - Per-class dispatch tables, prefix compatible with every ancestor's table
//   - Lazy, exactly-once table initialization
//   - The allocate / construct / destruct / release lifecycle
//   - Virtual dispatch and super-calls through a named ancestor
//   - Kind queries and checked casts
//
// A class is declared as a package-level descriptor and populated on first use:
//
//	var PointClass = &object.Class{
//		Name:       "Point",
//		Superclass: object.ObjectClass,
//		InstVars:   []string{"x", "y"},
//		Interface:  []string{"distanceTo"},
//	}
//
//	func init() {
//		PointClass.Initialize = func(c *object.Class) {
//			c.Override("init", pointInit)
//			c.Override("distanceTo", pointDistanceTo)
//		}
//	}
//
// Contract violations (malformed descriptors, super-calls through a class that
// is not an ancestor, dispatch through a released object) panic with a
// *ContractError. Resource failures are returned as errors.
package object
