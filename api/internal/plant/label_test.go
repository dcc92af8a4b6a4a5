package plant

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "Tomato___Late_blight", "Tomato___Late_blight"},
		{"canonical with parens", "Grape___Esca__(Black_Measles)", "Grape___Esca__(Black_Measles)"},
		{"trailing underscore kept", "Corn___Common_rust_", "Corn___Common_rust_"},
		{"healthy case folded", "Tomato___Healthy", "Tomato___healthy"},
		{"natural language with", "Tomato with Late Blight", "Tomato___Late_Blight"},
		{"underscored with", "Strawberry_with_Leaf_scorch", "Strawberry___Leaf_scorch"},
		{"healthy prefix", "Healthy Apple", "Apple___healthy"},
		{"healthy prefix long", "Healthy Raspberry Plant", "Raspberry___healthy"},
		{"two words", "Apple Scab", "Apple___Scab"},
		{"single word", "Blight", "Plant___Blight"},
		{"empty condition", "Tomato___", "Tomato___Unknown"},
		{"blank", "   ", "Plant___Unknown"},
		{"upper-case with", "Tomato WITH Late Blight", "Tomato___Late_Blight"},
		{"multi-byte crop", "İ with x", "İ___x"},
		{"multi-byte crop odd length", "İİİ with Rust", "İİİ___Rust"},
		{"multi-byte healthy", "HEALTHY İncir", "İncir___healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, WellFormed(got))
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Tomato - Late Blight", FormatName("Tomato___Late_blight"))
	assert.Equal(t, "Corn - Common Rust", FormatName("Corn___Common_rust_"))
	assert.Equal(t, "Grape - Esca (black Measles)", FormatName("Grape___Esca__(Black_Measles)"))
	assert.Equal(t, "Apple - Healthy", FormatName("Apple___healthy"))
	assert.Equal(t, "Tomato - Late Blight", FormatName("TOMATO___LATE_BLIGHT"))
	assert.Equal(t, "Orange - Haunglongbing (citrus Greening)", FormatName("Orange___Haunglongbing_(Citrus_greening)"))
}

func TestCropAndHealthy(t *testing.T) {
	assert.Equal(t, "Tomato", Crop("Tomato___Late_blight"))
	assert.Equal(t, "Unknown", Crop("Blight"))
	assert.True(t, IsHealthy("Apple___healthy"))
	assert.False(t, IsHealthy("Apple___Apple_scab"))
}

func TestLocalizedName(t *testing.T) {
	assert.Equal(t, "टमाटर - लेट ब्लाइट", LocalizedName("Tomato___Late_blight", LangHindi))
	assert.Equal(t, "Grape - Black Measles", LocalizedName("Grape___Esca__(Black_Measles)", LangEnglish))
	assert.Equal(t, "Pepper - Bacterial Spot", LocalizedName("Pepper,_bell___Bacterial_spot", LangEnglish))
	// unknown language and unknown disease fall back to the formatted label
	assert.Equal(t, "Tomato - Late Blight", LocalizedName("Tomato___Late_blight", "fr"))
	assert.Equal(t, "Bean - Rust", LocalizedName("Bean___Rust", LangHindi))
}

func TestAlternatives(t *testing.T) {
	preds := []Prediction{
		{Label: "A___a", Score: 0.5},
		{Label: "B___b", Score: 0.2},
		{Label: "C___c", Score: 0.1},
		{Label: "D___d", Score: 0.1},
		{Label: "E___e", Score: 0.05},
		{Label: "F___f", Score: 0.05},
	}
	alts := Alternatives(preds)
	assert.Len(t, alts, 4)
	assert.Equal(t, AlternativeDisease{Name: "B___b", Confidence: 0.2}, alts[0])
	assert.Equal(t, "E___e", alts[3].Name)

	assert.Empty(t, Alternatives(preds[:1]))
}
