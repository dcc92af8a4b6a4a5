package treatment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMatchesRuleTable(t *testing.T) {
	tests := []struct {
		label    string
		contains string // a word only the expected bundle's organic line has
	}{
		{"Tomato___Late_blight", "Bacillus subtilis"},
		{"Tomato___Early_blight", "compost tea weekly"},
		{"Tomato___Septoria_leaf_spot", "Ensure good drainage"},
		{"Potato___Late_blight", "burn or bury"},
		{"Potato___Early_blight", "Mulch heavily"},
		{"Corn_(maize)___Common_rust_", "sulfur dust"},
		{"Corn_(maize)___Northern_Leaf_Blight", "early in season"},
		{"Grape___Black_rot", "lime-sulfur"},
		{"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)", "through pruning"},
		{"Apple___Apple_scab", "resistant rootstocks"},
		{"Apple___Cedar_apple_rust", "juniper"},
		{"Pepper,_bell___Bacterial_spot", "bactericide"},
		{"Strawberry___Leaf_scorch", "after harvest"},
		{"Cherry_(including_sour)___Powdery_mildew", "potassium bicarbonate"},
		{"Peach___Bacterial_spot", "leaf fall"},
		{"Squash___Powdery_mildew", "Apply weekly"},
		{"Orange___Haunglongbing_(Citrus_greening)", "horticultural oil"},
		{"tomato late blight", "Bacillus subtilis"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Contains(t, Lookup(tt.label).Organic, tt.contains)
		})
	}
}

func TestLookupDefaults(t *testing.T) {
	for _, label := range []string{"", "Unknown", "Tomato___healthy", "Blueberry___healthy", "Crop___Unknown"} {
		assert.Equal(t, Default, Lookup(label), label)
	}
}

func TestLookupIsTotalAndIdempotent(t *testing.T) {
	for _, label := range []string{"Grape___Black_rot", "!!!", strings.Repeat("x", 500), "Apple___Apple_scab"} {
		first := Lookup(label)
		assert.NotEmpty(t, first.Organic)
		assert.NotEmpty(t, first.Chemical)
		assert.NotEmpty(t, first.Cultural)
		assert.NotEmpty(t, first.Prevention)
		assert.Equal(t, first, Lookup(label))
	}
}

func TestEveryRuleIsComplete(t *testing.T) {
	for i, r := range rules {
		require.NotEmpty(t, r.crops, "rule %d", i)
		assert.NotEmpty(t, r.bundle.Organic, "rule %d", i)
		assert.NotEmpty(t, r.bundle.Chemical, "rule %d", i)
		assert.NotEmpty(t, r.bundle.Cultural, "rule %d", i)
		assert.NotEmpty(t, r.bundle.Prevention, "rule %d", i)
	}
}

func TestRecommendations(t *testing.T) {
	recs := Recommendations("Tomato___Early_blight", 0.94)
	require.Len(t, recs, 6)
	assert.Equal(t, "Disease identified: Tomato - Early Blight", recs[0])
	assert.Equal(t, "Confidence level: 94% - High confidence detection", recs[1])
	assert.True(t, strings.HasPrefix(recs[2], "Organic Treatment: Spray with neem oil"))
	assert.True(t, strings.HasPrefix(recs[5], "Prevention: "))

	low := Recommendations("Tomato___Early_blight", 0.62)
	assert.Equal(t, "Confidence level: 62% - Consider expert consultation", low[1])
}
