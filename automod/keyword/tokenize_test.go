package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeText(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text string
		out  []string
	}{
		{text: "", out: []string{}},
		{text: "Hello, โลก!", out: []string{"hello", "โลก"}},
		{text: "Gdańsk", out: []string{"gdansk"}},
		{text: "nai\u0308ve", out: []string{"naive"}},
		{text: "नमस्ते दोस्तों", out: []string{"नमसत", "दोसतो"}},
		{text: "#Giveaway!! RT+follow", out: []string{"giveaway", "rt", "follow"}},
		{text: "don't", out: []string{"don", "t"}},
		{text: "visit https://Example.com/a", out: []string{"visit", "https", "example", "com", "a"}},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, TokenizeText(fix.text))
	}
}

func TestTokenizeIdentifier(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		ident string
		out   []string
	}{
		{ident: "", out: []string{}},
		{ident: "the-handle.example.com", out: []string{"the", "handle", "example", "com"}},
		{ident: "@a-b-c", out: []string{}},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, TokenizeIdentifier(fix.ident))
	}
}

func TestSlugify(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("freestuff", Slugify("Free-Stuff!"))
	assert.Equal("", Slugify("..."))
}
