// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys is the declared scope of an invocation: each account key it may
// touch and what it may do there. A view refuses access outside it.
type Keys map[string]Permissions

// Permissions say whether a key may be read, created or overwritten.
type Permissions byte

// Add widens the permissions of [name]; an account listed both read-only
// and writable ends up writable.
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Has reports whether [p] grants every bit in [require].
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}
