// Package config defines the route definition schema and the YAML loader
// for the route-matching library.
//
// A route file is a YAML document with a top-level routes list:
//
//	routes:
//	  - path: /api/v1/users
//	    metadata: users-service
//	    method: [GET, POST]
//	    host: "*.example.com"
//	    remoteAddr: 10.0.0.0/8
//
// The loader substitutes ${VAR} and ${VAR:-default} environment variable
// references before parsing. Structural validation (non-empty path, present
// metadata) happens in Validate; address constraint syntax is validated by
// the routing package at table build time, where a failure aborts the whole
// registration.
package config
