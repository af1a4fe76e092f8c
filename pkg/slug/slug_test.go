package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"catalog title", "Combo Mate + Bombilla Acero", "combo-mate-bombilla-acero"},
		{"digits kept", "Yerba Mate 500g elaborada con palo", "yerba-mate-500g-elaborada-con-palo"},
		{"acute accent", "Termo Soberanía Acero", "termo-soberania-acero"},
		{"accent mid word", "Termo Soberanía Plástico", "termo-soberania-plastico"},
		{"eñe", "Ñandú", "nandu"},
		{"diaeresis", "Güemes", "guemes"},
		{"upper case vowels", "ÁÉÍÓÚ", "aeiou"},
		{"price text", "Oferta: $5.000!", "oferta-5-000"},
		{"ampersand", "Mate & Termo", "mate-termo"},
		{"surrounding blanks", "   mate   ", "mate"},
		{"tabs", "mate\t\tcocido", "mate-cocido"},
		{"hyphen runs", "mate - - cocido", "mate-cocido"},
		{"edge punctuation", "¡Oferta!", "oferta"},
		{"only digits", "500", "500"},
		{"empty", "", ""},
		{"only symbols", "¡¿!?", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}

func TestGenerate_OutputIsValid(t *testing.T) {
	for _, title := range []string{"Termo Soberanía Acero", "Yerba Mate 500g", "¡Güemes!"} {
		assert.True(t, Valid(Generate(title)), title)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"termo-soberania-acero", true},
		{"500g", true},
		{"", false},
		{"Termo", false},
		{"termo--acero", false},
		{"-termo", false},
		{"termo-", false},
		{"soberanía", false},
		{"termo_acero", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.in), tt.in)
	}
}
