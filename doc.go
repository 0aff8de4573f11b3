// Package metalava holds the configuration of the Metalava API signature
// tool for a tree of build projects.
//
// Each project gets a Scope. A scope stores only the settings assigned on it
// and resolves everything else through its parent chain, falling back to a
// fixed default per setting:
//
//	root := metalava.NewScope(":", nil, metalava.WithProjectVersion("2.3.0"))
//	root.SetDocumentation(metalava.DocumentationPublic)
//
//	app := metalava.NewScope(":app", root)
//	app.AddHiddenPackages("com.example.internal")
//
//	app.Documentation() // public, inherited
//	app.Filename()      // api/2.3.0.api
//
// Collection settings are copied into a scope the first time they are
// materialized, so later parent changes no longer reach it. Reads never
// modify a scope.
//
// Beyond the typed accessors a scope supports key based access (Get, Set,
// Add, Unset), provenance traces, rule evaluation over a snapshot of the
// effective settings, schema generation and activity events for writes.
package metalava
