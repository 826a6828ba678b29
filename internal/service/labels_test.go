package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/AccountKeeper/internal/models"
	"github.com/atinyakov/AccountKeeper/internal/service"
)

func TestParseLabels(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []models.Label
	}{
		{"empty", "", []models.Label{}},
		{"whitespace only", "   ", []models.Label{}},
		{"separators only", " ; ;; ", []models.Label{}},
		{"single", "work", []models.Label{{Text: "work"}}},
		{"trim and drop empty", "a; b ;;c", []models.Label{{Text: "a"}, {Text: "b"}, {Text: "c"}}},
		{"inner spaces kept", " team lead ;x", []models.Label{{Text: "team lead"}, {Text: "x"}}},
		{"order preserved", "z;a;m", []models.Label{{Text: "z"}, {Text: "a"}, {Text: "m"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.ParseLabels(tc.in)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}
