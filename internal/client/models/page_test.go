package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		count    int
		next     string
		names    []string
		hasError bool
	}{
		{name: "bare array", body: `[{"id":1,"name":"Law"},{"id":2,"name":"Health"}]`, count: 2, names: []string{"Law", "Health"}},
		{name: "paginated", body: `{"count":7,"next":"http://x/api/categories/?page=2","previous":null,"results":[{"id":3,"name":"Art"}]}`, count: 7, next: "http://x/api/categories/?page=2", names: []string{"Art"}},
		{name: "empty array", body: ` [] `, count: 0, names: []string{}},
		{name: "garbage", body: `"nope"`, hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Page[Category]
			err := json.Unmarshal([]byte(tt.body), &p)
			if tt.hasError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.count, p.Count)
			assert.Equal(t, tt.next, p.Next)
			assert.Equal(t, tt.next != "", p.HasMore())

			names := make([]string, 0, len(p.Results))
			for _, c := range p.Results {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}
