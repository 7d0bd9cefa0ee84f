package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/paprika/pkg/paprika"
)

func TestChanged(t *testing.T) {
	tests := []struct {
		name        string
		remote      []paprika.RecipeEntry
		known       map[string]string
		wantChanged []paprika.RecipeEntry
		wantRemoved []string
	}{
		{
			name:        "nothing known",
			remote:      []paprika.RecipeEntry{{UID: "a", Hash: "1"}, {UID: "b", Hash: "2"}},
			wantChanged: []paprika.RecipeEntry{{UID: "a", Hash: "1"}, {UID: "b", Hash: "2"}},
			wantRemoved: []string{},
		},
		{
			name:        "up to date",
			remote:      []paprika.RecipeEntry{{UID: "a", Hash: "1"}},
			known:       map[string]string{"a": "1"},
			wantChanged: []paprika.RecipeEntry{},
			wantRemoved: []string{},
		},
		{
			name:        "hash differs",
			remote:      []paprika.RecipeEntry{{UID: "a", Hash: "2"}},
			known:       map[string]string{"a": "1"},
			wantChanged: []paprika.RecipeEntry{{UID: "a", Hash: "2"}},
			wantRemoved: []string{},
		},
		{
			name:        "removed remotely",
			remote:      nil,
			known:       map[string]string{"z": "1", "a": "1"},
			wantChanged: []paprika.RecipeEntry{},
			wantRemoved: []string{"a", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, removed := Changed(tt.remote, tt.known)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}
