package google

import "sort"

// ServiceScopes maps each gateway service name to the OAuth scopes its
// adapter needs. One consent covers the union; the stored credential for a
// service records only its own slice so a narrower future consent stays
// representable.
var ServiceScopes = map[string][]string{
	"gmail": {
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.send",
		"https://www.googleapis.com/auth/gmail.modify",
		"https://www.googleapis.com/auth/gmail.compose",
	},
	"chat": {
		"https://www.googleapis.com/auth/chat.spaces",
		"https://www.googleapis.com/auth/chat.messages",
	},
	"sheets": {
		"https://www.googleapis.com/auth/spreadsheets",
	},
	"drive": {
		"https://www.googleapis.com/auth/drive",
		"https://www.googleapis.com/auth/drive.file",
	},
	"forms": {
		"https://www.googleapis.com/auth/forms.body",
		"https://www.googleapis.com/auth/forms.responses.readonly",
	},
	"calendar": {
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/calendar.events",
	},
	"docs": {
		"https://www.googleapis.com/auth/documents",
	},
}

// Services returns the known service names in sorted order.
func Services() []string {
	names := make([]string, 0, len(ServiceScopes))
	for name := range ServiceScopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllScopes returns the deduplicated union of every service's scopes, in
// sorted order. This is the scope set requested during the consent flow.
func AllScopes() []string {
	seen := make(map[string]bool)
	var scopes []string
	for _, svc := range ServiceScopes {
		for _, s := range svc {
			if !seen[s] {
				seen[s] = true
				scopes = append(scopes, s)
			}
		}
	}
	sort.Strings(scopes)
	return scopes
}
