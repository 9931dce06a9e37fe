// Package crawl — ordered URL set with deduplication.
// Keeps discovery order so story links are processed as the listing shows
// them.
package crawl

// Queue is an insertion-ordered set of URLs.
type Queue struct {
	items   []string
	visited map[string]bool
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		visited: make(map[string]bool),
	}
}

// Add enqueues a URL if it hasn't been seen before. It reports whether the
// URL was new.
func (q *Queue) Add(url string) bool {
	if q.visited[url] {
		return false
	}
	q.visited[url] = true
	q.items = append(q.items, url)
	return true
}

// Skip marks a URL as seen without enqueuing it.
func (q *Queue) Skip(url string) {
	q.visited[url] = true
}

// Len returns the number of queued URLs.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns the queued URLs in insertion order.
func (q *Queue) All() []string {
	return q.items
}

// First returns at most n queued URLs. n <= 0 returns all of them.
func (q *Queue) First(n int) []string {
	if n <= 0 || n >= len(q.items) {
		return q.items
	}
	return q.items[:n]
}
