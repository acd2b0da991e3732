package plugin

import "regexp"

// appURLPattern recognizes the store's canonical app-page URL shape: optional
// scheme, fixed host, /app/<digits>, with an optional slug or query after.
var appURLPattern = regexp.MustCompile(`^(?:https?://)?store\.steampowered\.com/app/(\d+)(?:[/?#]\S*)?$`)

// ExtractAppID pulls the app id out of a pasted store URL. Plain text that is
// not a store app URL does not match.
func ExtractAppID(text string) (string, bool) {
	m := appURLPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
