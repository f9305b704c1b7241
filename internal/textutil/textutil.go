package textutil

// Truncate shortens a string to maxLen, appending "..." if truncated.
// Diagnostics echo offending source lines; this keeps them one-line.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
