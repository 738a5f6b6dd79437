package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() List {
	return List{
		{ID: "c1", Name: "Hackathon"},
		{ID: "c2", Name: "Workshop"},
		{ID: "c3", Name: "Hack Night"},
	}
}

func TestNewCategory_ValidatesInput(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		label       string
		expectError bool
	}{
		{name: "Valid_ShouldSucceed", id: "c1", label: "Sports"},
		{name: "EmptyID_ShouldFail", id: "", label: "Sports", expectError: true},
		{name: "BlankName_ShouldFail", id: "c1", label: "   ", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCategory(tt.id, tt.label)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, c.String())
		})
	}
}

func TestList_Find(t *testing.T) {
	list := sampleList()

	c, err := list.Find("c2")
	require.NoError(t, err)
	assert.Equal(t, "Workshop", c.Name)

	_, err = list.Find("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, list.IndexOf("c3"))
	assert.Equal(t, -1, list.IndexOf("missing"))
}

func TestList_Filter(t *testing.T) {
	list := sampleList()

	assert.Len(t, list.Filter(""), 3)
	assert.Equal(t, List{{ID: "c1", Name: "Hackathon"}, {ID: "c3", Name: "Hack Night"}}, list.Filter("HACK"))
	assert.Empty(t, list.Filter("gala"))
}

func TestList_Clone(t *testing.T) {
	list := sampleList()
	clone := list.Clone()
	clone[0].Name = "Changed"

	assert.Equal(t, "Hackathon", list[0].Name)
	assert.Nil(t, List(nil).Clone())
}
