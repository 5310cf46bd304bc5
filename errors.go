package rsutax

import "fmt"

// InvalidLineError reports a transaction line that cannot be classified.
type InvalidLineError struct {
	Index  int    // 0-based position of the line in the input
	Ref    string // where the line comes from, if known
	Field  string
	Reason string
}

func (e *InvalidLineError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("invalid line #%d: %s %s", e.Index+1, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid line #%d (%s): %s %s", e.Index+1, e.Ref, e.Field, e.Reason)
}

// ConfigurationError reports missing or inconsistent regime constants for a fiscal year.
type ConfigurationError struct {
	Year   int
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid regime for fiscal year %d: %s %s", e.Year, e.Field, e.Reason)
}
