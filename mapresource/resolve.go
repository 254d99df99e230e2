package mapresource

import (
	"net/url"
	"path"
	"strings"
)

const (
	mapboxAPIScheme = "https"
	mapboxAPIHost   = "api.mapbox.com"

	accessTokenQueryKey = "access_token"
	secureQueryKey      = "secure"

	fileURLPrefix = "file://"
)

// Resolve turns a style-level resource URL into something that can be fetched.
//
// mapbox:// references (for example `mapbox://mapbox.terrain-rgb`) are rewritten to
// https://api.mapbox.com URLs, with the access token added to the query string.
// If you get 404s from the API, this is the place to start looking.
//
// Resolve never fails; a URL it cannot make sense of comes back with an empty Target,
// which the caller must treat as an error.
func Resolve(rawURL string, credentials Credentials) ResolvedTarget {
	category := Classify(rawURL)

	switch category {
	case URLCategoryMapboxTileReference,
		URLCategoryMapboxFontReference,
		URLCategoryMapboxSpriteReference,
		URLCategoryMapboxStyleReference:
		rewritten, ok := rewriteMapboxURL(rawURL, category, credentials)
		if !ok {
			return ResolvedTarget{Category: category}
		}

		// the fetch strategy depends on what the URL is now, not on what it was
		return ResolvedTarget{
			Category: Classify(rewritten),
			Target:   rewritten,
		}
	case URLCategoryRemoteHTTP:
		return ResolvedTarget{Category: category, Target: rawURL}
	case URLCategoryLocalFile:
		return ResolvedTarget{Category: category, Target: strings.TrimPrefix(rawURL, fileURLPrefix)}
	default:
		return ResolvedTarget{Category: URLCategoryUnknown}
	}
}

func rewriteMapboxURL(rawURL string, category URLCategory, credentials Credentials) (string, bool) {
	urlObject, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	query := urlObject.Query()
	var pathname string

	switch category {
	case URLCategoryMapboxTileReference:
		pathname = "/v4" + urlObject.Path
	case URLCategoryMapboxFontReference:
		pathname = "/fonts/v1" + urlObject.Path
	case URLCategoryMapboxSpriteReference:
		pathname = spritePath(urlObject.Path)
	case URLCategoryMapboxStyleReference:
		if urlObject.Host == "" {
			return "", false
		}
		pathname = "/v4/" + urlObject.Host + ".json"
		setQueryIfAbsent(query, secureQueryKey, "true")
	default:
		return "", false
	}

	if credentials.AccessToken != "" {
		setQueryIfAbsent(query, accessTokenQueryKey, credentials.AccessToken)
	}

	resolved := &url.URL{
		Scheme:   mapboxAPIScheme,
		Host:     mapboxAPIHost,
		Path:     pathname,
		RawQuery: query.Encode(),
	}

	return resolved.String(), true
}

// spritePath turns `<style>[@<ratio>].<ext>` into `/styles/v1<style>/sprite[@<ratio>].<ext>`
func spritePath(spriteURLPath string) string {
	ext := path.Ext(spriteURLPath)
	base := strings.TrimSuffix(spriteURLPath, ext)

	style := base
	ratio := ""
	// only a trailing @Nx is a ratio, the style segment itself may contain an @
	if idx := strings.LastIndex(base, "@"); idx != -1 && idx > strings.LastIndex(base, "/") {
		style = base[:idx]
		ratio = base[idx:]
	}

	return "/styles/v1" + style + "/sprite" + ratio + ext
}

// setQueryIfAbsent sets a query value, unless the caller already supplied that key
func setQueryIfAbsent(query url.Values, key, value string) {
	if _, ok := query[key]; ok {
		return
	}
	query.Set(key, value)
}
