package token

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, Keyword, Lookup("interface"))
	assert.Equal(t, Keyword, Lookup("readonly"))
	assert.Equal(t, Identifier, Lookup("string"))
	assert.Equal(t, Identifier, Lookup("Record"))
}

func TestTokenPredicates(t *testing.T) {
	tok := Token{Kind: Keyword, Text: "type"}
	assert.True(t, tok.IsKeyword("interface", "type"))
	assert.False(t, tok.IsKeyword("enum"))
	assert.True(t, tok.IsName())
	assert.False(t, tok.IsPunct("type"))

	brace := Token{Kind: Punctuation, Text: "{"}
	assert.True(t, brace.IsPunct("{"))
	assert.False(t, brace.IsName())
}

func TestPosition(t *testing.T) {
	var zero Position
	assert.False(t, zero.IsValid())
	assert.Equal(t, "-", zero.String())

	p := Position{Line: 3, Column: 7, Offset: 40}
	assert.Equal(t, "3:7", p.String())
	assert.True(t, Position{Offset: 2}.Before(p))
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(Token{Kind: String, Text: `"a"`, Value: "a"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"String"`)
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
