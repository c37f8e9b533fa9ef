package variant

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTagSet indicates a tag set was constructed without tags.
	ErrEmptyTagSet = errors.New("variant: tag set must declare at least one tag")
	// ErrDuplicateTag indicates the same tag was declared twice.
	ErrDuplicateTag = errors.New("variant: duplicate tag")
)

// TagSet is a closed, finite set of tags fixed at construction time. The
// declaration order is preserved and used whenever tags are enumerated.
type TagSet[K comparable] struct {
	order   []K
	members map[K]struct{}
}

// NewTagSet builds a closed set from the supplied tags, rejecting duplicates
// so the set stays a faithful enumeration of its variants.
func NewTagSet[K comparable](tags ...K) (*TagSet[K], error) {
	if len(tags) == 0 {
		return nil, ErrEmptyTagSet
	}
	set := &TagSet[K]{
		order:   make([]K, 0, len(tags)),
		members: make(map[K]struct{}, len(tags)),
	}
	for _, tag := range tags {
		if _, exists := set.members[tag]; exists {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateTag, tag)
		}
		set.members[tag] = struct{}{}
		set.order = append(set.order, tag)
	}
	return set, nil
}

// MustTagSet is NewTagSet for static tag declarations; it panics on invalid
// input so package-level sets fail at init rather than first use.
func MustTagSet[K comparable](tags ...K) *TagSet[K] {
	set, err := NewTagSet(tags...)
	if err != nil {
		panic(err)
	}
	return set
}

// Contains reports whether tag belongs to the set.
func (s *TagSet[K]) Contains(tag K) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[tag]
	return ok
}

// Tags returns the tags in declaration order.
func (s *TagSet[K]) Tags() []K {
	if s == nil {
		return nil
	}
	out := make([]K, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of tags in the set.
func (s *TagSet[K]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
