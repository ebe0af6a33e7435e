package structs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuerySanitize(t *testing.T) {
	cases := []struct {
		Name   string
		Given  *Query
		Expect *Query
	}{
		{"Empty", &Query{}, &Query{Limit: queryLimitDefault}},
		{"NegativeOffset", &Query{Offset: -10}, &Query{Limit: queryLimitDefault}},
		{"OverLimit", &Query{Limit: 99999}, &Query{Limit: queryLimitMax}},
		{
			"EmptyFiltersNiled",
			&Query{Limit: 5, IDs: []string{}, States: []State{}, CandidateEmails: []string{}},
			&Query{Limit: 5},
		},
		{
			"FiltersKept",
			&Query{Limit: 5, IDs: []string{"a"}, States: []State{FAILED}},
			&Query{Limit: 5, IDs: []string{"a"}, States: []State{FAILED}},
		},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			c.Given.Sanitize()
			assert.Equal(t, c.Expect, c.Given)
		})
	}
}
