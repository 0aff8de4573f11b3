// Package state loads and saves per-project setting overrides and builds the
// scope tree that mirrors a host build.
//
// A Store only loads and saves the overrides of a single project. The
// Resolver loads overrides for a set of projects, links their scopes by
// project path and applies the overrides through Scope.Set, so stored values
// go through the same validation as programmatic writes.
//
// Data flow:
//
//	Store -> Resolver.Build -> metalava.NewScope(...) + Scope.Set -> *Tree
//
// Project paths follow the Gradle convention: ":" is the root project,
// ":app" a direct child and ":app:core" a grandchild. Ancestors missing from
// the input are created without overrides so the chain is always complete.
//
// Provenance: Meta.SnapshotID is recorded in each scope's metadata under
// "snapshot_id" and kept on the Tree for audit.
package state
