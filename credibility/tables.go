package credibility

// Tier tables for known domains, keyed by normalized domain (lowercase,
// no www prefix). A table hit is authoritative: pattern rules and
// bonuses never apply on top of it.

// tier1 holds the highest-credibility sources (0.9-1.0): international
// organizations, government sources, premium Nepal news, established
// international wires.
var tier1 = map[string]float64{
	"who.int":       0.98,
	"un.org":        0.98,
	"worldbank.org": 0.95,
	"unesco.org":    0.95,
	"unicef.org":    0.95,
	"imf.org":       0.95,
	"nasa.gov":      0.98,
	"cdc.gov":       0.98,

	"gov.np":      0.92,
	"nrb.org.np":  0.92,
	"mof.gov.np":  0.9,
	"mohp.gov.np": 0.9,

	"kathmandupost.com": 0.92,
	"ekantipur.com":     0.9,

	"bbc.com":     0.91,
	"reuters.com": 0.92,
	"ap.org":      0.91,
	"apnews.com":  0.91,
}

// tier2 holds high-credibility sources (0.75-0.89): national Nepal news,
// regional outlets, academic publishers.
var tier2 = map[string]float64{
	"myrepublica.nagariknetwork.com": 0.85,
	"english.onlinekhabar.com":       0.82,
	"setopati.com":                   0.8,
	"ratopati.com":                   0.78,
	"annapurnapost.com":              0.8,
	"nepalnews.com":                  0.78,

	"aljazeera.com":      0.85,
	"dw.com":             0.83,
	"hindustantimes.com": 0.8,
	"thehindu.com":       0.82,

	"researchgate.net": 0.85,
	"academia.edu":     0.8,
	"jstor.org":        0.88,
}

// tier3 holds moderate-credibility sources (0.6-0.78).
var tier3 = map[string]float64{
	"onlinekhabar.com":  0.72,
	"nagariknews.com":   0.7,
	"ujyaaloonline.com": 0.7,
	"kantipurdaily.com": 0.68,
	"pratidinpost.com":  0.65,

	"cnn.com":            0.72,
	"theguardian.com":    0.75,
	"washingtonpost.com": 0.73,
	"nytimes.com":        0.74,
	"economist.com":      0.78,
}

// socialMedia lists platform domains excluded from evidence entirely.
// Substring match against the normalized domain.
var socialMedia = []string{
	"facebook.com", "fb.com", "m.facebook.com",
	"twitter.com", "x.com", "t.co",
	"instagram.com",
	"youtube.com", "youtu.be",
	"tiktok.com",
	"whatsapp.com",
	"telegram.org", "t.me",
	"snapchat.com",
	"linkedin.com",
	"reddit.com",
	"pinterest.com",
	"tumblr.com",
	"discord.com",
	"clubhouse.com",
	"viber.com",
}

var (
	orgTrusted    = []string{"unicef", "unesco", "who", "un"}
	orgModerate   = []string{"research", "institute", "foundation"}
	nepalTokens   = []string{"nepal", "kathmandu"}
	newsTokens    = []string{"news", "post", "times", "daily", "express"}
	lowTrustHosts = []string{"blogger", "wordpress", "tumblr", "medium"}
)
