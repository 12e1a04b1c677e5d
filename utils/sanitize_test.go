package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<p>hello</p>", SanitizeContent(`<p onclick="x()">hello</p><script>alert(1)</script>`))
	assert.Equal(t, "Tech news", SanitizeText("<b>Tech</b> news"))
	// plain text comes back unescaped
	assert.Equal(t, "R&D", SanitizeText("<b>R&D</b>"))
	assert.Equal(t, `Tips & "Tricks" a < b`, SanitizeText(`Tips & "Tricks" a < b`))
	assert.Equal(t, "O'Brien", SanitizeText("O'Brien"))
}

func TestPasswordHash(t *testing.T) {
	PasswordCost = 4
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}
