package observability

// Discard is a Logger that drops every record. Tests that don't want
// to assert on log output, but still need a Logger to construct an
// adapter, use this.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
