package links

import "strings"

const (
	// StudyPathPrefix is the internal route prefix study links use.
	StudyPathPrefix = "/estudo/"
	// LegacyStudyScheme is the URI scheme older documents used for study
	// links, recognized as an alias for StudyPathPrefix.
	LegacyStudyScheme = "bible-graph://study/"
)

// Route is the outcome of resolving an href: either an internal client-side
// route or a plain external URL left to the browser.
type Route struct {
	Internal bool
	// Path is the normalized internal path when Internal is true, the
	// original href otherwise.
	Path string
}

// StudyPath builds the internal route for a study id.
func StudyPath(studyID string) string {
	return StudyPathPrefix + studyID
}

// ResolveHref classifies an anchor href. Internal-prefix hrefs and the
// legacy study scheme resolve to an internal route, valid http/https hrefs
// stay external, everything else does not resolve.
func ResolveHref(href string) (Route, bool) {
	switch {
	case strings.HasPrefix(href, StudyPathPrefix):
		return Route{Internal: true, Path: href}, true
	case strings.HasPrefix(href, LegacyStudyScheme):
		id := strings.TrimPrefix(href, LegacyStudyScheme)
		if id == "" {
			return Route{}, false
		}
		return Route{Internal: true, Path: StudyPath(id)}, true
	case IsValidURL(href):
		return Route{Internal: false, Path: href}, true
	default:
		return Route{}, false
	}
}

// StudyIDFromHref extracts the study id from an internal or legacy study
// href. Returns false for external or unrecognized hrefs.
func StudyIDFromHref(href string) (string, bool) {
	route, ok := ResolveHref(href)
	if !ok || !route.Internal {
		return "", false
	}

	id := strings.TrimPrefix(route.Path, StudyPathPrefix)
	if id == "" {
		return "", false
	}

	return id, true
}
