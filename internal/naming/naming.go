// Package naming owns the two fresh-name counters the checker mints names
// from: one for type-variable freshening, one for existential opening.
//
// Both counters live on a Context threaded alongside the environment
// rather than as package-level globals, so that two independent checking
// sessions never share state and their outputs stay reproducible.
package naming

import "fmt"

// reservedPrefix marks every generated name so it can never collide with a
// name the user wrote in source.
const reservedPrefix = "%"

// Context mints fresh, reserved-prefix names for type variables minted
// during unification and for existential kids opened during subtyping or
// function-application instantiation. A Context must be reset (via New)
// between independent checking sessions to keep outputs reproducible.
type Context struct {
	tyvarCounter int
	kidCounter   int
	argTagged    map[string]int
}

// New creates a fresh, zeroed naming context.
func New() *Context {
	return &Context{argTagged: make(map[string]int)}
}

// FreshTyVar mints a reserved-prefix type variable name, e.g. "%t3".
func (c *Context) FreshTyVar() string {
	c.tyvarCounter++
	return fmt.Sprintf("%st%d", reservedPrefix, c.tyvarCounter)
}

// FreshKid mints a reserved-prefix numeric/order/effect variable name,
// e.g. "%k7". This implements the environment's fresh_kid() operation.
func (c *Context) FreshKid() string {
	c.kidCounter++
	return fmt.Sprintf("%sk%d", reservedPrefix, c.kidCounter)
}

// FreshArgTagged mints a kid name tagged with an argument index, so that
// existential variables opened while unifying one call argument never
// capture the bindings opened for another argument.
func (c *Context) FreshArgTagged(argIndex int) string {
	c.argTagged[fmt.Sprint(argIndex)]++
	n := c.argTagged[fmt.Sprint(argIndex)]
	return fmt.Sprintf("%sarg%d#%d", reservedPrefix, argIndex, n)
}

// IsGenerated reports whether a name carries the reserved prefix, i.e. was
// minted by this package rather than written by a user.
func IsGenerated(name string) bool {
	return len(name) > 0 && name[0] == reservedPrefix[0]
}
