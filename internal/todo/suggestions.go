package todo

// SuggestionSet is an insertion-ordered set of texts. It only grows.
type SuggestionSet struct {
	items []string
	index map[string]struct{}
}

// NewSuggestionSet returns a set holding items, minus duplicates and
// empty strings.
func NewSuggestionSet(items ...string) *SuggestionSet {
	s := &SuggestionSet{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts text and reports whether it was new.
func (s *SuggestionSet) Add(text string) bool {
	if text == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[text]; ok {
		return false
	}
	s.index[text] = struct{}{}
	s.items = append(s.items, text)
	return true
}

// Contains reports whether text is in the set.
func (s *SuggestionSet) Contains(text string) bool {
	_, ok := s.index[text]
	return ok
}

// Len returns the number of texts.
func (s *SuggestionSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the texts in insertion order.
func (s *SuggestionSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Union merges sets in argument order, dropping later duplicates.
func Union(sets ...*SuggestionSet) []string {
	merged := NewSuggestionSet()
	for _, set := range sets {
		if set == nil {
			continue
		}
		for _, item := range set.items {
			merged.Add(item)
		}
	}
	return merged.items
}
