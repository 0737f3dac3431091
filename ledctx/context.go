// Package ledctx carries cli settings down to the transports.
package ledctx

import "context"

type verboseKey struct{}

// IsVerbose reports whether transports should dump raw traffic.
func IsVerbose(ctx context.Context) bool {
	verbose, _ := ctx.Value(verboseKey{}).(bool)
	return verbose
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, verboseKey{}, value)
}
