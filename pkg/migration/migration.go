// Package migration applies and reverts ordered schema-change scripts,
// tracking applied state in a bookkeeping table keyed by migration name.
package migration

import "time"

// Migration is one named schema change. Name is the idempotency key; Up and
// Down are opaque SQL scripts the store executes verbatim, with no parameter
// substitution.
type Migration struct {
	Name string
	Up   string
	Down string
}

// Record is the persisted bookkeeping entry for an applied migration.
type Record struct {
	Name      string
	AppliedAt time.Time
}

// Builder assembles a Migration.
type Builder struct {
	m Migration
}

// NewBuilder starts a migration with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{m: Migration{Name: name}}
}

// Up sets the forward script.
func (b *Builder) Up(script string) *Builder {
	b.m.Up = script
	return b
}

// Down sets the revert script.
func (b *Builder) Down(script string) *Builder {
	b.m.Down = script
	return b
}

// Build returns the assembled migration.
func (b *Builder) Build() Migration {
	return b.m
}
