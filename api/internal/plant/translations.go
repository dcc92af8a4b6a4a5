package plant

import (
	"regexp"
	"strings"
)

// Supported display languages.
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangKannada = "kn"
	LangUrdu    = "ur"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// translationKey lower-cases and replaces every non-alphanumeric rune with "_",
// so "Grape___Esca__(Black_Measles)" becomes "grape___esca__black_measles_".
func translationKey(label string) string {
	return reNonAlnum.ReplaceAllString(strings.ToLower(label), "_")
}

type names map[string]string

var diseaseNames = map[string]names{
	"tomato___late_blight":           {LangEnglish: "Tomato - Late Blight", LangUrdu: "ٹماٹر - لیٹ بلائٹ", LangHindi: "टमाटर - लेट ब्लाइट", LangKannada: "ಟೊಮ್ಯಾಟೊ - ಲೇಟ್ ಬ್ಲೈಟ್"},
	"tomato___early_blight":          {LangEnglish: "Tomato - Early Blight", LangUrdu: "ٹماٹر - ارلی بلائٹ", LangHindi: "टमाटर - अर्ली ब्लाइट", LangKannada: "ಟೊಮ್ಯಾಟೊ - ಎರ್ಲಿ ಬ್ಲೈಟ್"},
	"tomato___septoria_leaf_spot":    {LangEnglish: "Tomato - Septoria Leaf Spot", LangUrdu: "ٹماٹر - سیپٹوریا پتوں کا دھبا", LangHindi: "टमाटर - सेप्टोरिया पत्ती धब्बा", LangKannada: "ಟೊಮ್ಯಾಟೊ - ಸೆಪ್ಟೋರಿಯಾ ಎಲೆ ಚುಕ್ಕೆ"},
	"tomato___healthy":               {LangEnglish: "Healthy Tomato Plant", LangUrdu: "صحت مند ٹماٹر کا پودا", LangHindi: "स्वस्थ टमाटर का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಟೊಮ್ಯಾಟೊ ಸಸ್ಯ"},
	"potato___late_blight":           {LangEnglish: "Potato - Late Blight", LangUrdu: "آلو - لیٹ بلائٹ", LangHindi: "आलू - लेट ब्लाइट", LangKannada: "ಆಲೂಗಡ್ಡೆ - ಲೇಟ್ ಬ್ಲೈಟ್"},
	"potato___early_blight":          {LangEnglish: "Potato - Early Blight", LangUrdu: "آلو - ارلی بلائٹ", LangHindi: "आलू - अर्ली ब्लाइट", LangKannada: "ಆಲೂಗಡ್ಡೆ - ಎರ್ಲಿ ಬ್ಲೈಟ್"},
	"potato___healthy":               {LangEnglish: "Healthy Potato Plant", LangUrdu: "صحت مند آلو کا پودا", LangHindi: "स्वस्थ आलू का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಆಲೂಗಡ್ಡೆ ಸಸ್ಯ"},
	"corn___common_rust_":            {LangEnglish: "Corn - Common Rust", LangUrdu: "مکئی - عام زنگ", LangHindi: "मक्का - सामान्य रस्ट", LangKannada: "ಜೋಳ - ಸಾಮಾನ್ಯ ತುಕ್ಕು"},
	"corn___northern_leaf_blight":    {LangEnglish: "Corn - Northern Leaf Blight", LangUrdu: "مکئی - شمالی پتوں کی جھلسن", LangHindi: "मक्का - उत्तरी पत्ती झुलसा", LangKannada: "ಜೋಳ - ಉತ್ತರ ಎಲೆ ಬ್ಲೈಟ್"},
	"corn___healthy":                 {LangEnglish: "Healthy Corn Plant", LangUrdu: "صحت مند مکئی کا پودا", LangHindi: "स्वस्थ मक्का का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಜೋಳ ಸಸ್ಯ"},
	"grape___black_rot":              {LangEnglish: "Grape - Black Rot", LangUrdu: "انگور - سیاہ سڑن", LangHindi: "अंगूर - काला सड़न", LangKannada: "ದ್ರಾಕ್ಷಿ - ಕಪ್ಪು ಕೊಳೆತ"},
	"grape___esca__black_measles_":   {LangEnglish: "Grape - Black Measles", LangUrdu: "انگور - سیاہ خسرہ", LangHindi: "अंगूर - काला खसरा", LangKannada: "ದ್ರಾಕ್ಷಿ - ಕಪ್ಪು ದಾಣು"},
	"grape___healthy":                {LangEnglish: "Healthy Grape Plant", LangUrdu: "صحت مند انگور کا پودا", LangHindi: "स्वस्थ अंगूर का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ದ್ರಾಕ್ಷಿ ಸಸ್ಯ"},
	"apple___apple_scab":             {LangEnglish: "Apple - Apple Scab", LangUrdu: "سیب - سیب کی خارش", LangHindi: "सेब - सेब स्कैब", LangKannada: "ಸೇಬು - ಸೇಬು ಸ್ಕ್ಯಾಬ್"},
	"apple___cedar_apple_rust":       {LangEnglish: "Apple - Cedar Apple Rust", LangUrdu: "سیب - سیڈر سیب زنگ", LangHindi: "सेब - सीडर सेब रस्ट", LangKannada: "ಸೇಬು - ಸೀಡರ್ ಸೇಬು ತುಕ್ಕು"},
	"apple___black_rot":              {LangEnglish: "Apple - Black Rot", LangUrdu: "سیب - سیاہ سڑن", LangHindi: "सेब - काला सड़न", LangKannada: "ಸೇಬು - ಕಪ್ಪು ಕೊಳೆತ"},
	"apple___healthy":                {LangEnglish: "Healthy Apple Plant", LangUrdu: "صحت مند سیب کا پودا", LangHindi: "स्वस्थ सेब का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಸೇಬು ಸಸ್ಯ"},
	"pepper__bell___bacterial_spot":  {LangEnglish: "Pepper - Bacterial Spot", LangUrdu: "مرچ - بیکٹیریل دھبا", LangHindi: "मिर्च - बैक्टीरियल धब्बा", LangKannada: "ಮೆಣಸು - ಬ್ಯಾಕ್ಟೀರಿಯಲ್ ಚುಕ್ಕೆ"},
	"pepper__bell___healthy":         {LangEnglish: "Healthy Pepper Plant", LangUrdu: "صحت مند مرچ کا پودا", LangHindi: "स्वस्थ मिर्च का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಮೆಣಸು ಸಸ್ಯ"},
	"strawberry___leaf_scorch":       {LangEnglish: "Strawberry - Leaf Scorch", LangUrdu: "اسٹرابیری - پتوں کی جھلسن", LangHindi: "स्ट्रॉबेरी - पत्ती झुलसा", LangKannada: "ಸ್ಟ್ರಾಬೆರಿ - ಎಲೆ ಸುಟ್ಟು"},
	"strawberry___healthy":           {LangEnglish: "Healthy Strawberry Plant", LangUrdu: "صحت مند اسٹرابیری کا پودا", LangHindi: "स्वस्थ स्ट्रॉबेरी का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಸ್ಟ್ರಾಬೆರಿ ಸಸ್ಯ"},
	"cherry___powdery_mildew":        {LangEnglish: "Cherry - Powdery Mildew", LangUrdu: "چیری - پاؤڈری ملڈیو", LangHindi: "चेरी - पाउडरी मिल्ड्यू", LangKannada: "ಚೆರ್ರಿ - ಪೌಡರಿ ಮಿಲ್ಡ್ಯೂ"},
	"cherry___healthy":               {LangEnglish: "Healthy Cherry Plant", LangUrdu: "صحت مند چیری کا پودا", LangHindi: "स्वस्थ चेरी का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಚೆರ್ರಿ ಸಸ್ಯ"},
	"peach___bacterial_spot":         {LangEnglish: "Peach - Bacterial Spot", LangUrdu: "آڑو - بیکٹیریل دھبا", LangHindi: "आड़ू - बैक्टीरियल धब्बा", LangKannada: "ಪೀಚ್ - ಬ್ಯಾಕ್ಟೀರಿಯಲ್ ಚುಕ್ಕೆ"},
	"peach___healthy":                {LangEnglish: "Healthy Peach Plant", LangUrdu: "صحت مند آڑو کا پودا", LangHindi: "स्वस्थ आड़ू का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಪೀಚ್ ಸಸ್ಯ"},
	"raspberry___healthy":            {LangEnglish: "Healthy Raspberry Plant", LangUrdu: "صحت مند راسبیری کا پودا", LangHindi: "स्वस्थ रासबेरी का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ರಾಸ್ಬೆರಿ ಸಸ್ಯ"},
	"soybean___healthy":              {LangEnglish: "Healthy Soybean Plant", LangUrdu: "صحت مند سویابین کا پودا", LangHindi: "स्वस्थ सोयाबीन का पौधा", LangKannada: "ಆರೋಗ್ಯಕರ ಸೋಯಾಬೀನ್ ಸಸ್ಯ"},
	"orange___haunglongbing__citrus_greening_": {LangEnglish: "Orange - Citrus Greening", LangUrdu: "نارنجی - سٹرس گرینینگ", LangHindi: "संतरा - सिट्रस ग्रीनिंग", LangKannada: "ಕಿತ್ತಳೆ - ಸಿಟ್ರಸ್ ಗ್ರೀನಿಂಗ್"},
}

// LocalizedName returns the disease name in lang, or the formatted label when
// no translation exists.
func LocalizedName(label, lang string) string {
	if n, ok := diseaseNames[translationKey(label)]; ok {
		if s, ok := n[lang]; ok {
			return s
		}
	}
	return FormatName(label)
}

// SupportedLanguages lists the display languages in preference order.
func SupportedLanguages() []string {
	return []string{LangEnglish, LangHindi, LangKannada, LangUrdu}
}
