package treatment

// Evaluated top to bottom; the first match wins.
var rules = []rule{
	{
		crops:      []string{"tomato"},
		conditions: []string{"late blight"},
		bundle: Bundle{
			Organic:    "Apply copper-based organic fungicide. Remove and destroy infected plants immediately. Use Bacillus subtilis spray every 5-7 days.",
			Chemical:   "Apply chlorothalonil or mancozeb fungicide. Spray every 7-10 days during wet weather. Follow label instructions carefully.",
			Cultural:   "Ensure good air circulation. Avoid overhead watering. Remove lower leaves. Space plants 24-36 inches apart.",
			Prevention: "Use resistant varieties. Rotate crops for 3 years. Mulch to prevent soil splash. Monitor weather for blight warnings.",
		},
	},
	{
		crops:      []string{"tomato"},
		conditions: []string{"early blight"},
		bundle: Bundle{
			Organic:    "Spray with neem oil or copper fungicide. Apply compost tea weekly. Remove infected lower leaves promptly.",
			Chemical:   "Use chlorothalonil or mancozeb. Apply every 7-14 days during growing season. Start applications early.",
			Cultural:   "Stake plants for air circulation. Remove weeds. Water at base of plant only. Mulch with straw.",
			Prevention: "Plant resistant varieties. Rotate crops annually. Avoid overhead irrigation. Space plants properly.",
		},
	},
	{
		crops:      []string{"tomato"},
		conditions: []string{"septoria"},
		bundle: Bundle{
			Organic:    "Apply copper fungicide or neem oil every 7 days. Remove infected leaves. Ensure good drainage.",
			Chemical:   "Use chlorothalonil or mancozeb fungicide. Start at first sign of disease. Reapply every 7-10 days.",
			Cultural:   "Remove lower branches touching soil. Avoid wetting foliage. Space plants 2-3 feet apart. Use drip irrigation.",
			Prevention: "Choose resistant varieties. Rotate crops for 3 years. Remove plant debris in fall. Stake or cage plants.",
		},
	},
	{
		crops:      []string{"potato"},
		conditions: []string{"late blight"},
		bundle: Bundle{
			Organic:    "Spray with copper fungicide weekly. Hill soil around plants. Remove infected plants immediately and burn or bury deeply.",
			Chemical:   "Apply chlorothalonil, mancozeb, or metalaxyl. Begin applications before disease appears. Spray every 5-7 days in wet weather.",
			Cultural:   "Plant certified disease-free seed potatoes. Hill plants well. Avoid overhead irrigation. Harvest before frost.",
			Prevention: "Use resistant varieties. Ensure good drainage. Space rows 36-40 inches. Monitor weather forecasts for blight conditions.",
		},
	},
	{
		crops:      []string{"potato"},
		conditions: []string{"early blight"},
		bundle: Bundle{
			Organic:    "Apply neem oil or copper spray every 7-10 days. Remove infected leaves. Mulch heavily to prevent soil splash.",
			Chemical:   "Use chlorothalonil or mancozeb fungicide. Begin at flowering or first sign of disease. Repeat every 7-14 days.",
			Cultural:   "Hill plants to prevent tuber exposure. Water at soil level. Remove volunteer potatoes. Practice crop rotation.",
			Prevention: "Plant resistant varieties. Rotate crops for 3-4 years. Avoid nitrogen excess. Harvest at proper maturity.",
		},
	},
	{
		crops:      []string{"corn"},
		conditions: []string{"common rust"},
		bundle: Bundle{
			Organic:    "Apply sulfur dust or neem oil spray. Ensure adequate plant nutrition. Remove heavily infected leaves.",
			Chemical:   "Use azoxystrobin or propiconazole fungicide if severe. Apply at first sign of disease. One application usually sufficient.",
			Cultural:   "Plant in well-drained soil. Avoid overcrowding. Destroy crop residue after harvest. Ensure balanced fertilization.",
			Prevention: "Choose resistant hybrids. Avoid late planting. Monitor fields regularly. Plant early-maturing varieties in high-risk areas.",
		},
	},
	{
		crops:      []string{"corn"},
		conditions: []string{"northern leaf blight"},
		bundle: Bundle{
			Organic:    "Use copper-based fungicide. Improve air circulation. Remove infected leaves early in season.",
			Chemical:   "Apply propiconazole or azoxystrobin at first symptoms. Spray before tasseling for best results. Repeat if necessary.",
			Cultural:   "Plow under crop debris in fall. Rotate with non-host crops. Maintain adequate row spacing. Avoid excessive nitrogen.",
			Prevention: "Plant resistant hybrids. Practice 2-year rotation minimum. Bury residue completely. Scout fields regularly.",
		},
	},
	{
		crops:      []string{"grape"},
		conditions: []string{"black rot"},
		bundle: Bundle{
			Organic:    "Apply lime-sulfur or copper fungicide. Remove mummified berries. Prune for good air flow. Start sprays at bud break.",
			Chemical:   "Use myclobutanil or captan fungicide. Begin applications at bud break. Continue every 10-14 days through fruit set.",
			Cultural:   "Prune for open canopy. Remove infected fruit immediately. Clean up fallen leaves and berries. Avoid overhead irrigation.",
			Prevention: "Choose resistant varieties. Space vines properly. Ensure good drainage. Remove overwintering mummies in spring.",
		},
	},
	{
		crops:      []string{"grape"},
		conditions: []string{"leaf blight"},
		bundle: Bundle{
			Organic:    "Spray with copper fungicide or neem oil. Remove infected leaves. Improve air circulation through pruning.",
			Chemical:   "Apply mancozeb or captan fungicide. Start before bloom. Repeat applications every 10-14 days during wet weather.",
			Cultural:   "Prune to improve air flow. Train vines off ground. Remove weeds. Avoid wetting foliage when irrigating.",
			Prevention: "Plant in well-drained areas. Use drip irrigation. Space rows widely. Clean up leaf litter in fall.",
		},
	},
	{
		crops:      []string{"apple"},
		conditions: []string{"scab"},
		bundle: Bundle{
			Organic:    "Apply sulfur or copper fungicide. Remove fallen leaves in autumn. Use resistant rootstocks. Prune for air circulation.",
			Chemical:   "Use captan, myclobutanil, or dodine fungicide. Begin at green tip. Continue through petal fall. Spray every 7-10 days.",
			Cultural:   "Rake and remove fallen leaves. Prune to open canopy. Avoid wetting foliage. Mow tall grass under trees.",
			Prevention: "Plant scab-resistant varieties. Space trees properly. Ensure good drainage. Remove wild apple trees nearby.",
		},
	},
	{
		crops:      []string{"apple"},
		conditions: []string{"rust"},
		bundle: Bundle{
			Organic:    "Apply sulfur fungicide. Remove nearby juniper bushes (alternate host). Rake up fallen leaves.",
			Chemical:   "Use myclobutanil or propiconazole. Apply from pink bud through petal fall. Usually 2-3 applications needed.",
			Cultural:   "Remove cedar or juniper trees within 1-2 miles if possible. Prune for air circulation. Clean up leaf litter.",
			Prevention: "Plant rust-resistant varieties. Remove alternate hosts. Monitor weather for high-risk periods. Space trees well.",
		},
	},
	{
		crops:      []string{"pepper"},
		conditions: []string{"bacterial spot"},
		bundle: Bundle{
			Organic:    "Spray with copper-based bactericide. Remove infected plants. Use disease-free seeds. Avoid working in wet plants.",
			Chemical:   "Apply copper hydroxide or mancozeb. Start preventively. Spray weekly during wet weather. Combine with fixed copper.",
			Cultural:   "Remove and destroy infected plants. Avoid overhead watering. Disinfect tools. Rotate crops for 2-3 years.",
			Prevention: "Use certified disease-free seed. Plant resistant varieties. Avoid splashing water. Space plants for air flow.",
		},
	},
	{
		crops:      []string{"strawberry"},
		conditions: []string{"leaf scorch"},
		bundle: Bundle{
			Organic:    "Apply neem oil or copper spray. Remove old leaves after harvest. Ensure good air circulation.",
			Chemical:   "Use captan or thiram fungicide. Apply at bloom and after renovation. Repeat every 7-14 days if needed.",
			Cultural:   "Renovate beds after harvest. Remove old foliage. Avoid overhead irrigation. Thin dense plantings.",
			Prevention: "Plant resistant varieties. Space plants 12-18 inches. Mulch to reduce splash. Avoid wetting foliage.",
		},
	},
	{
		crops:      []string{"cherry"},
		conditions: []string{"powdery mildew", "leaf spot"},
		bundle: Bundle{
			Organic:    "Spray sulfur or potassium bicarbonate. Remove infected leaves. Prune for air circulation. Apply in early morning.",
			Chemical:   "Use myclobutanil or propiconazole fungicide. Begin at shuck split. Continue through harvest. Spray every 10-14 days.",
			Cultural:   "Prune to open canopy. Remove mummified fruit. Rake fallen leaves. Avoid excessive nitrogen fertilizer.",
			Prevention: "Choose resistant varieties. Space trees properly. Ensure good drainage. Remove wild cherry trees nearby.",
		},
	},
	{
		crops:      []string{"peach"},
		conditions: []string{"bacterial spot"},
		bundle: Bundle{
			Organic:    "Apply copper spray at leaf fall and before bloom. Remove infected twigs. Use disease-free nursery stock.",
			Chemical:   "Use copper fungicide or oxytetracycline antibiotic. Apply from petal fall through season. Spray every 7-10 days.",
			Cultural:   "Prune out infected branches. Avoid overhead irrigation. Destroy infected fruit. Thin fruit properly.",
			Prevention: "Plant resistant varieties. Space trees 15-20 feet. Avoid sites with poor air drainage. Use windbreaks.",
		},
	},
	{
		crops:      []string{"squash", "cucumber"},
		conditions: []string{"powdery mildew"},
		bundle: Bundle{
			Organic:    "Spray with neem oil, sulfur, or potassium bicarbonate. Apply weekly. Remove severely infected leaves.",
			Chemical:   "Use sulfur or myclobutanil fungicide. Begin at first sign. Spray upper and lower leaf surfaces. Repeat every 7 days.",
			Cultural:   "Improve air circulation. Avoid overhead watering. Remove old plant material. Plant in full sun.",
			Prevention: "Choose resistant varieties. Space plants widely. Avoid wetting foliage. Plant in areas with good air movement.",
		},
	},
	{
		crops:      []string{"bean"},
		conditions: []string{"rust", "blight"},
		bundle: Bundle{
			Organic:    "Apply copper fungicide or neem oil. Avoid working in wet plants. Remove infected plants promptly.",
			Chemical:   "Use chlorothalonil or copper hydroxide. Apply at first symptoms. Repeat every 7-14 days. Spray leaf undersides.",
			Cultural:   "Plant in well-drained soil. Avoid overhead irrigation. Space rows 24-30 inches. Remove crop debris after harvest.",
			Prevention: "Use disease-free seed. Rotate crops for 2-3 years. Plant resistant varieties. Avoid working in wet conditions.",
		},
	},
	{
		crops: []string{"orange", "citrus"},
		bundle: Bundle{
			Organic:    "Apply copper spray or horticultural oil. Remove infected fruit and leaves. Ensure proper nutrition.",
			Chemical:   "Use copper fungicide or specific systemic fungicide. Apply according to disease cycle. Repeat as recommended.",
			Cultural:   "Prune for air circulation. Remove dead wood. Avoid wetting foliage. Maintain proper soil pH (6.0-7.5).",
			Prevention: "Plant disease-free nursery stock. Space trees properly. Ensure good drainage. Control insect vectors.",
		},
	},
}

// Default applies to anything the table does not cover, healthy plants included.
var Default = Bundle{
	Organic:    "Apply neem oil solution (2 tablespoons per gallon of water) every 7-14 days. Remove and dispose of heavily infected leaves. Consider using compost tea as a preventive spray.",
	Chemical:   "Use a broad-spectrum fungicide appropriate for your crop (follow manufacturer's instructions carefully). Apply in early morning or late evening. Rotate between different fungicide classes to prevent resistance.",
	Cultural:   "Improve air circulation by proper spacing and pruning. Avoid overhead watering - use drip irrigation or soaker hoses. Remove plant debris regularly. Practice crop rotation and avoid planting susceptible crops in the same location.",
	Prevention: "Plant resistant varieties when available. Maintain proper plant spacing for air flow. Ensure good soil drainage. Monitor plants regularly for early detection. Keep tools clean and disinfected.",
}
