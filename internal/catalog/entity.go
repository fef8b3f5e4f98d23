// Package catalog holds the listing entities (developers, projects, towers,
// series, amenities), their validators, and the lifecycle service that
// coordinates validation, asset upload/cleanup, audit stamping, and
// persistence.
package catalog

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status values shared by most entity kinds.
const (
	StatusActive  = "Active"
	StatusDisable = "Disable"
)

var (
	imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)
	pdfExtPattern   = regexp.MustCompile(`(?i)\.pdf$`)
)

func isValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isImageURL(s string) bool { return isValidURL(s) && imageExtPattern.MatchString(pathOf(s)) }
func isPDFURL(s string) bool   { return isValidURL(s) && pdfExtPattern.MatchString(pathOf(s)) }

// pathOf strips the query string so extension checks see the object path.
func pathOf(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}

func isValidDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func subsetOf(vs []string, allowed ...string) bool {
	for _, v := range vs {
		if !oneOf(v, allowed...) {
			return false
		}
	}
	return true
}

// Form overlay helpers. A field is only touched when the form carries the
// key, so update requests merge over the persisted record and validation
// always sees the merged result.

func setStr(dst *string, v url.Values, key string) {
	if v.Has(key) {
		*dst = strings.TrimSpace(v.Get(key))
	}
}

func setUpper(dst *string, v url.Values, key string) {
	if v.Has(key) {
		*dst = strings.ToUpper(strings.TrimSpace(v.Get(key)))
	}
}

func setInt(dst *int, v url.Values, key, label string, errs *[]string) {
	if !v.Has(key) {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.Get(key)))
	if err != nil {
		*errs = append(*errs, label+" must be an integer")
		return
	}
	*dst = n
}

func setBool(dst *bool, v url.Values, key, label string, errs *[]string) {
	if !v.Has(key) {
		return
	}
	switch strings.TrimSpace(v.Get(key)) {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		*errs = append(*errs, label+" must be a boolean")
	}
}

func setList(dst *[]string, v url.Values, key string) {
	if vals, ok := v[key]; ok {
		out := make([]string, 0, len(vals))
		for _, s := range vals {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*dst = out
	}
}
