package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/vyrodovalexey/routematch/internal/util"
)

// Validate checks the structural fields of a route file. It aggregates all
// violations instead of stopping at the first one.
//
// Address constraint syntax is deliberately not checked here: the routing
// package owns that normalization and a malformed address aborts the table
// build with an AddressParseError.
func Validate(file *RoutesFile) error {
	if file == nil {
		return util.NewInvalidArgumentError("routes", "route file is nil")
	}

	var errs error
	for i, route := range file.Routes {
		if route.Path == "" {
			errs = multierr.Append(errs, util.NewInvalidArgumentError(
				fmt.Sprintf("routes[%d].path", i), "must not be empty"))
		}
		if route.Metadata == nil {
			errs = multierr.Append(errs, util.NewInvalidArgumentError(
				fmt.Sprintf("routes[%d].metadata", i), "is required"))
		}
		for j, method := range route.Method {
			if method == "" {
				errs = multierr.Append(errs, util.NewInvalidArgumentError(
					fmt.Sprintf("routes[%d].method[%d]", i, j), "must not be empty"))
			}
		}
	}

	return errs
}
