package radar

// Selection is the set of profiles currently drawn. It keeps the chart's
// profile order so that rendering and query strings are stable.
type Selection struct {
	order []string
	on    map[string]bool
}

// NewSelection returns a selection over ids with every profile shown.
func NewSelection(ids []string) Selection {
	s := Selection{order: append([]string(nil), ids...), on: make(map[string]bool, len(ids))}
	s.ShowAll()
	return s
}

// SelectionOf returns a selection over ids with only the listed profiles
// shown. Unknown ids are ignored.
func SelectionOf(ids []string, shown []string) Selection {
	s := NewSelection(ids)
	s.HideAll()
	for _, id := range shown {
		if s.known(id) {
			s.on[id] = true
		}
	}
	return s
}

// Toggle flips one profile. Unknown ids are ignored.
func (s Selection) Toggle(id string) {
	if s.known(id) {
		s.on[id] = !s.on[id]
	}
}

// ShowAll selects every profile.
func (s Selection) ShowAll() {
	for _, id := range s.order {
		s.on[id] = true
	}
}

// HideAll clears the selection.
func (s Selection) HideAll() {
	for _, id := range s.order {
		s.on[id] = false
	}
}

// Has reports whether id is shown.
func (s Selection) Has(id string) bool {
	return s.on[id]
}

// IDs returns the shown ids in chart order.
func (s Selection) IDs() []string {
	var out []string
	for _, id := range s.order {
		if s.on[id] {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of shown profiles.
func (s Selection) Len() int {
	return len(s.IDs())
}

func (s Selection) known(id string) bool {
	for _, o := range s.order {
		if o == id {
			return true
		}
	}
	return false
}
