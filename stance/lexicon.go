package stance

// Lexicon holds the per-language keyword sets the detector scores with.
// Strong terms carry strongWeight per occurrence, moderate terms carry 1.
type Lexicon struct {
	Lang            string
	StrongRefute    []string
	ModerateRefute  []string
	StrongSupport   []string
	ModerateSupport []string
	// DevanagariNegation enables the "<word> होइन" / "<word> छैन"
	// contradiction patterns for Devanagari-script claims.
	DevanagariNegation bool
}

var english = Lexicon{
	Lang: "en",
	StrongRefute: []string{
		"false", "fake", "hoax", "debunked", "disproven", "myth", "untrue",
		"misleading", "misinformation", "fact-check reveals false", "not true",
		"fabricated", "baseless", "unfounded", "incorrect", "wrong",
		"conspiracy theory", "no evidence", "lacks evidence", "unproven",
		"rating: false", "mostly false", "pants on fire", "fiction",
	},
	ModerateRefute: []string{
		"doubt", "question", "dispute", "challenge", "contradict",
		"inconsistent", "lacking evidence", "unsubstantiated", "skeptical",
		"needs more evidence", "insufficient proof", "questionable",
	},
	StrongSupport: []string{
		"confirmed", "verified", "proven", "true", "accurate", "correct",
		"evidence shows", "research confirms", "studies prove", "data shows",
		"scientists confirm", "experts verify", "officially confirmed",
		"rating: true", "mostly true", "legitimate", "substantiated",
	},
	ModerateSupport: []string{
		"supports", "indicates", "suggests", "shows", "demonstrates",
		"research indicates", "study shows", "evidence suggests",
		"data indicates", "findings show",
	},
}

var nepali = Lexicon{
	Lang: "ne",
	StrongRefute: []string{
		"गलत", "झूटो", "असत्य", "भ्रामक", "मिथ्या", "निराधार", "फर्जी",
		"होइन", "छैन", "भएको छैन", "सत्य होइन", "तथ्य होइन",
	},
	StrongSupport: []string{
		"सत्य", "सहि", "ठिक", "पुष्टि", "प्रमाणित", "वैज्ञानिक", "तथ्य",
		"अनुसन्धान", "अध्ययन", "विशेषज्ञ",
	},
	DevanagariNegation: true,
}

var hindi = Lexicon{
	Lang: "hi",
	StrongRefute: []string{
		"गलत", "झूठ", "असत्य", "भ्रामक", "मिथ्या", "आधारहीन", "नकली",
		"नहीं", "गलत है", "सच नहीं",
	},
	StrongSupport: []string{
		"सत्य", "सही", "ठीक", "पुष्टि", "प्रमाणित", "वैज्ञानिक", "तथ्य",
		"अनुसंधान", "अध्ययन", "विशेषज्ञ",
	},
	DevanagariNegation: true,
}

var lexicons = map[string]Lexicon{
	"en": english,
	"ne": nepali,
	"hi": hindi,
}

// LexiconFor returns the lexicon for lang, falling back to English for
// unknown languages.
func LexiconFor(lang string) Lexicon {
	if lex, ok := lexicons[lang]; ok {
		return lex
	}
	return english
}
