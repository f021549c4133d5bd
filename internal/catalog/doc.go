// Package catalog provides the registry tables that describe the known test
// types, services and actions.
//
// The tables are shipped as an embedded YAML document and decoded once. A
// deployment can point catalog.path at its own file with the same layout:
//
//	testTypes:
//	  - testType: UNIT_TEST
//	    executionTime: 1-5 minutes
//	    parallelizable: true
//	services:
//	  - name: user-service
//	    port: 8081
//	    dependencies: [users-db]
//	actions:
//	  - actionType: RUN_TESTS
//	intents:
//	  RUN_TESTS: RUN_TESTS
//
// Catalog values are read-only after construction and every accessor returns
// a copy, so analyzers can share one instance across goroutines.
package catalog
