package logging

// MaxLogFieldLength caps the length of command and output fields in log
// entries so a verbose install script cannot flood the log.
const MaxLogFieldLength = 512

// Truncate shortens s to MaxLogFieldLength runes, appending "..." when
// anything was cut off. Truncation is rune-based so a multi-byte UTF-8
// sequence is never split.
func Truncate(s string) string {
	if len(s) <= MaxLogFieldLength {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxLogFieldLength {
		return s
	}
	return string(runes[:MaxLogFieldLength]) + "..."
}
