package utils

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	wildcardExtensionPrefix = "*."
	pathSegmentSeparator    = "/"
	backslashSeparator      = `\`
	globMetaCharacters      = "*?[{"
)

// MatchesPattern reports whether a single path segment matches any exclusion pattern.
// A pattern of the form "*.ext" matches names ending in ".ext". Any other pattern matches
// the exact name or a name that begins with the pattern followed by a forward or backward
// slash. Patterns carrying other glob metacharacters are also evaluated as doublestar globs.
func MatchesPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesSinglePattern(name, pattern) {
			return true
		}
	}
	return false
}

func matchesSinglePattern(name string, pattern string) bool {
	if pattern == "" {
		return false
	}
	if strings.HasPrefix(pattern, wildcardExtensionPrefix) {
		return strings.HasSuffix(name, strings.TrimPrefix(pattern, "*"))
	}
	if name == pattern ||
		strings.HasPrefix(name, pattern+pathSegmentSeparator) ||
		strings.HasPrefix(name, pattern+backslashSeparator) {
		return true
	}
	if strings.ContainsAny(pattern, globMetaCharacters) {
		isMatched, matchError := doublestar.Match(pattern, name)
		return matchError == nil && isMatched
	}
	return false
}

// MatchesRelativePath evaluates patterns that name a nested location, such as
// "cypress/videos", against a forward-slash path relative to the traversal root.
// Patterns without a separator are left to MatchesPattern.
func MatchesRelativePath(relativePath string, patterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, backslashSeparator, pathSegmentSeparator)
	for _, pattern := range patterns {
		normalizedPattern := strings.ReplaceAll(pattern, backslashSeparator, pathSegmentSeparator)
		if !strings.Contains(normalizedPattern, pathSegmentSeparator) {
			continue
		}
		normalizedPattern = strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		if matchesSinglePattern(normalizedPath, normalizedPattern) {
			return true
		}
	}
	return false
}

// RuleSet is the immutable exclusion rule set of one invocation: the default
// patterns followed by user patterns.
type RuleSet struct {
	patterns []string
}

// NewRuleSet combines the default patterns with the provided user pattern lists.
// Blank entries are dropped and duplicates keep their first position.
func NewRuleSet(userPatternLists ...[]string) RuleSet {
	combined := DefaultExclusionPatterns()
	for _, userPatterns := range userPatternLists {
		for _, pattern := range userPatterns {
			trimmedPattern := strings.TrimSpace(pattern)
			if trimmedPattern == "" {
				continue
			}
			combined = append(combined, trimmedPattern)
		}
	}
	return RuleSet{patterns: DeduplicatePatterns(combined)}
}

// Patterns returns a copy of the ordered pattern list.
func (rules RuleSet) Patterns() []string {
	patterns := make([]string, len(rules.patterns))
	copy(patterns, rules.patterns)
	return patterns
}

// Excludes decides whether an entry is left out of traversal and rendering.
// Always-include names win over every pattern; lock files are excluded unconditionally.
// relativePath may be empty when the entry is not below a traversal root.
func (rules RuleSet) Excludes(name string, relativePath string) bool {
	if IsAlwaysIncluded(name) {
		return false
	}
	if IsLockFile(name) {
		return true
	}
	if MatchesPattern(name, rules.patterns) {
		return true
	}
	return relativePath != "" && MatchesRelativePath(relativePath, rules.patterns)
}
