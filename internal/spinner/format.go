package spinner

// FormatTitle formats the spinner title for a provider display name.
func FormatTitle(name string) string {
	if name == "" {
		return "Fetching usage..."
	}
	return "Fetching " + name + " usage..."
}
