package crawl

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gaurav-prasanna/storypipe/core"
	"github.com/gaurav-prasanna/storypipe/core/fetch"
)

// robotsGroup is one user-agent group of a robots.txt file.
type robotsGroup struct {
	agents []string
	rules  []robotsRule
}

type robotsRule struct {
	allow  bool
	prefix string
}

// RobotsAllowed reports whether userAgent may fetch pageURL according to the
// site's robots.txt. 401 and 403 disallow everything, other client errors
// allow everything, and any other failure is returned with a false verdict.
func RobotsAllowed(ctx context.Context, fetcher core.Fetcher, pageURL, userAgent string) (bool, error) {
	page, err := url.Parse(pageURL)
	if err != nil || page.Host == "" {
		return false, errors.New("invalid page URL")
	}
	robotsURL := (&url.URL{Scheme: page.Scheme, Host: page.Host, Path: "/robots.txt"}).String()

	result, err := fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) {
			switch {
			case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
				return false, nil
			case se.StatusCode >= 400 && se.StatusCode < 500:
				return true, nil
			}
		}
		return false, err
	}

	path := page.EscapedPath()
	if path == "" {
		path = "/"
	}
	if page.RawQuery != "" {
		path += "?" + page.RawQuery
	}
	return robotsAllows(parseRobots(result.HTML), userAgent, path), nil
}

// parseRobots reads the user-agent groups of a robots.txt body.
func parseRobots(body string) []robotsGroup {
	var groups []robotsGroup
	var current *robotsGroup
	lastWasAgent := false

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if current == nil || !lastWasAgent {
				groups = append(groups, robotsGroup{})
				current = &groups[len(groups)-1]
			}
			current.agents = append(current.agents, strings.ToLower(value))
			lastWasAgent = true
		case "allow", "disallow":
			lastWasAgent = false
			if current == nil {
				continue
			}
			if key == "disallow" && value == "" {
				continue
			}
			current.rules = append(current.rules, robotsRule{allow: key == "allow", prefix: value})
		default:
			lastWasAgent = false
		}
	}
	return groups
}

// robotsAllows applies the longest matching rule of the group that names
// userAgent, or of the "*" group when none does.
func robotsAllows(groups []robotsGroup, userAgent, path string) bool {
	ua := strings.ToLower(userAgent)
	var selected *robotsGroup
	for i := range groups {
		for _, agent := range groups[i].agents {
			if agent != "*" && agent != "" && strings.Contains(ua, agent) {
				selected = &groups[i]
				break
			}
		}
		if selected != nil {
			break
		}
	}
	if selected == nil {
		for i := range groups {
			for _, agent := range groups[i].agents {
				if agent == "*" {
					selected = &groups[i]
				}
			}
			if selected != nil {
				break
			}
		}
	}
	if selected == nil {
		return true
	}

	allowed, best := true, -1
	for _, r := range selected.rules {
		if strings.HasPrefix(path, r.prefix) && len(r.prefix) > best {
			allowed, best = r.allow, len(r.prefix)
		} else if strings.HasPrefix(path, r.prefix) && len(r.prefix) == best && r.allow {
			allowed = true
		}
	}
	return allowed
}
