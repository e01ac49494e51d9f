package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomName(t *testing.T) {
	a := assert.New(t)

	for i := 0; i < 25; i++ {
		parts := strings.Split(GetRandomName(), " ")
		a.Equal(2, len(parts))
		a.Contains(adjectives, parts[0])
		a.Contains(animals, parts[1])
	}
}
