package donation

import (
	"fmt"
	"net/url"
	"strings"
)

// ContactURL is the mailto fallback offered when online donation fails.
func ContactURL(email, artistName, artTitle string) string {
	body := fmt.Sprintf(
		"I would like to make a donation to support the Museum of Jaxsen and the artist %s for the artwork \"%s\".",
		artistName, artTitle)
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", email, mailtoEscape("Donation Inquiry"), mailtoEscape(body))
}

// Mail clients read '+' literally, so spaces are percent-encoded.
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
