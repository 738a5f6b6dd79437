package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a category id is not in the list
var ErrNotFound = errors.New("category not found")

// Category is a selectable event category owned by the backend
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// NewCategory creates a Category with validation
func NewCategory(id, name string) (Category, error) {
	if id == "" {
		return Category{}, fmt.Errorf("category ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return Category{}, fmt.Errorf("category name cannot be empty")
	}
	return Category{ID: id, Name: name}, nil
}

// String implements the Stringer interface
func (c Category) String() string {
	return c.Name
}

// List is the selection list rendered by the category picker
type List []Category

// Find returns the category with the given id
func (l List) Find(id string) (Category, error) {
	for _, c := range l {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// IndexOf returns the position of id in the list, or -1
func (l List) IndexOf(id string) int {
	for i, c := range l {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Filter returns the categories whose name contains query, ignoring case.
// An empty query returns the whole list.
func (l List) Filter(query string) List {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return l
	}

	matches := make(List, 0, len(l))
	for _, c := range l {
		if strings.Contains(strings.ToLower(c.Name), query) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Clone returns a copy that does not share backing storage with l
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
