// Package figures reconciles figure references against archive member names.
package figures

import (
	"fmt"
	"regexp"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dtnitsch/paperstats/models"
)

// ImageExtensions are tried, in order, as optional suffixes of a reference.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".pdf", ".eps", ".svg", ".gif", ".ps"}

// Resolver matches references to member names. A reference matches a member
// when the member name ends with the reference, optionally followed by one of
// ImageExtensions, compared case-insensitively. Compiled patterns are cached
// per reference; a Resolver is safe for concurrent use.
type Resolver struct {
	cache *lru.Cache[string, []*regexp.Regexp]
}

// NewResolver creates a Resolver whose pattern cache holds up to size references.
func NewResolver(size int) (*Resolver, error) {
	cache, err := lru.New[string, []*regexp.Regexp](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	return &Resolver{cache: cache}, nil
}

// Resolve classifies every reference as found or missing. Found holds the
// matching member names, Missing the unmatched references. Both are sorted sets.
func (r *Resolver) Resolve(refs []string, members []string) models.FigureResolution {
	found := make(map[string]struct{})
	missing := make(map[string]struct{})

	for _, ref := range refs {
		matched := false
		for _, re := range r.patterns(ref) {
			for _, member := range members {
				if re.MatchString(member) {
					found[member] = struct{}{}
					matched = true
					break
				}
			}
		}
		if !matched {
			missing[ref] = struct{}{}
		}
	}

	return models.FigureResolution{
		Found:   sortedKeys(found),
		Missing: sortedKeys(missing),
	}
}

// patterns returns one compiled pattern per image extension for ref.
func (r *Resolver) patterns(ref string) []*regexp.Regexp {
	if cached, ok := r.cache.Get(ref); ok {
		return cached
	}

	quoted := regexp.QuoteMeta(ref)
	compiled := make([]*regexp.Regexp, 0, len(ImageExtensions))
	for _, ext := range ImageExtensions {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+quoted+`(`+regexp.QuoteMeta(ext)+`)?$`))
	}
	r.cache.Add(ref, compiled)
	return compiled
}

// Len reports the number of cached references.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
