package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookQuery_Offset(t *testing.T) {
	tests := []struct {
		name  string
		query BookQuery
		want  int
	}{
		{name: "first page", query: BookQuery{Page: 1, PerPage: 20}, want: 0},
		{name: "third page", query: BookQuery{Page: 3, PerPage: 5}, want: 10},
		{name: "unnormalized page", query: BookQuery{Page: 0, PerPage: 5}, want: 0},
		{name: "last representable page", query: BookQuery{Page: math.MaxInt/5 + 1, PerPage: 5}, want: math.MaxInt / 5 * 5},
		{name: "past last representable page", query: BookQuery{Page: math.MaxInt/5 + 2, PerPage: 5}, want: math.MaxInt},
		{name: "max page", query: BookQuery{Page: math.MaxInt, PerPage: 100}, want: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.Offset()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}
