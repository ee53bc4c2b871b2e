package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL tags connections with applicationName so they show up in
// pg_stat_activity. Both postgres:// URLs and key=value DSNs are accepted; an
// explicit application_name is kept.
func normalizeDBURL(raw, applicationName string) string {
	raw = strings.TrimSpace(raw)
	applicationName = strings.TrimSpace(applicationName)
	if raw == "" || applicationName == "" {
		return raw
	}

	if u, ok := parseDBURL(raw); ok {
		q := u.Query()
		if q.Get("application_name") != "" {
			return raw
		}
		q.Set("application_name", applicationName)
		u.RawQuery = q.Encode()
		return u.String()
	}

	if _, ok := dsnValue(raw, "application_name"); ok {
		return raw
	}
	return raw + " application_name='" + strings.ReplaceAll(applicationName, "'", `\'`) + "'"
}

func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, ok := parseDBURL(raw); ok {
		return strings.TrimPrefix(u.Path, "/")
	}
	name, _ := dsnValue(raw, "dbname")
	return name
}

func parseDBURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return nil, false
	}
	return u, true
}

// dsnValue looks up key in a space separated key=value DSN. Quoted values
// containing spaces are not supported.
func dsnValue(dsn, key string) (string, bool) {
	for _, pair := range strings.Fields(dsn) {
		k, v, ok := strings.Cut(pair, "=")
		if ok && k == key {
			return strings.Trim(v, `"'`), true
		}
	}
	return "", false
}
