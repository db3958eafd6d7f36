package util

// MaskSecret keeps the first visiblePrefix characters of s and masks the
// rest. Values no longer than the prefix are masked completely.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
