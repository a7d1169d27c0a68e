package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "reuniao semanal", Fold("  Reunião\tSemanal "))
	assert.Equal(t, "acai e pao de queijo", Fold("Açaí e Pão de Queijo"))
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"relatorio", "relatorio", 0},
		{"relatorio", "relatoio", 1},
		{"ção", "cao", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestScore(t *testing.T) {
	title := "Reunião com cliente"

	assert.Greater(t, Score("reuniao", title), Score("reuni", title), "whole word beats substring")
	assert.True(t, Match("REUNIAO", title))
	assert.True(t, Match("reuniao cliente", title), "all terms match separately")
	assert.True(t, Match("clinte", title), "one typo")
	assert.True(t, Match("cli", title), "prefix")
	assert.False(t, Match("relatório", title))
	assert.False(t, Match("reuniao fornecedor", title), "every term must match")
	assert.False(t, Match("", title))
	assert.False(t, Match("x", ""))
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 1, Threshold("abc"))
	assert.Equal(t, 2, Threshold("abcde"))
	assert.Equal(t, 3, Threshold("relatório"))
}
