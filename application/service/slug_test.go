package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mona Lisa", "mona-lisa"},
		{"The Starry Night", "the-starry-night"},
		{"Città di Castello", "citta-di-castello"},
		{"Déjeuner sur l'herbe", "dejeuner-sur-l-herbe"},
		{"  Leading & trailing!  ", "leading-trailing"},
		{"1808, May 3rd", "1808-may-3rd"},
		{"", "opera"},
		{"!!!", "opera"},
		{"日本画", "opera"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}
