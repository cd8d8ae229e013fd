package registry

// defaultSources is the curated catalog of Icelandic publishers.
// Feed declaration order matters: the "frettir" feed (or the first entry)
// is the source's primary feed used by all-news and search.
var defaultSources = []Source{
	{
		ID:   "ruv",
		Name: "RÚV",
		URL:  "https://www.ruv.is",
		Feeds: []Feed{
			{ID: "frettir", URL: "https://www.ruv.is/rss/frettir", Description: "Allar fréttir frá RÚV"},
			{ID: "innlent", URL: "https://www.ruv.is/rss/innlent", Description: "Innlendar fréttir"},
			{ID: "erlent", URL: "https://www.ruv.is/rss/erlent", Description: "Erlendar fréttir"},
			{ID: "ithrottir", URL: "https://www.ruv.is/rss/ithrottir", Description: "Íþróttafréttir"},
			{ID: "menning", URL: "https://www.ruv.is/rss/menning-og-daegurmal", Description: "Menning og dægurmál"},
		},
	},
	{
		ID:   "mbl",
		Name: "mbl.is",
		URL:  "https://www.mbl.is",
		Feeds: []Feed{
			{ID: "frettir", URL: "https://www.mbl.is/feeds/fp/", Description: "Forsíðufréttir mbl.is"},
			{ID: "innlent", URL: "https://www.mbl.is/feeds/innlent/", Description: "Innlendar fréttir"},
			{ID: "erlent", URL: "https://www.mbl.is/feeds/erlent/", Description: "Erlendar fréttir"},
			{ID: "vidskipti", URL: "https://www.mbl.is/feeds/vidskipti/", Description: "Viðskiptafréttir"},
			{ID: "sport", URL: "https://www.mbl.is/feeds/sport/", Description: "Íþróttafréttir"},
			{ID: "folk", URL: "https://www.mbl.is/feeds/folk/", Description: "Fólk og dægurmál"},
		},
	},
	{
		ID:   "visir",
		Name: "Vísir",
		URL:  "https://www.visir.is",
		Feeds: []Feed{
			{ID: "frettir", URL: "https://www.visir.is/rss/allt", Description: "Allar fréttir Vísis"},
			{ID: "innlent", URL: "https://www.visir.is/rss/innlent", Description: "Innlendar fréttir"},
			{ID: "erlent", URL: "https://www.visir.is/rss/erlent", Description: "Erlendar fréttir"},
			{ID: "ithrottir", URL: "https://www.visir.is/rss/ithrottir", Description: "Íþróttafréttir"},
			{ID: "vidskipti", URL: "https://www.visir.is/rss/vidskipti", Description: "Viðskiptafréttir"},
			{ID: "menning", URL: "https://www.visir.is/rss/menning", Description: "Menning og lífið"},
			{ID: "taekni", URL: "https://www.visir.is/rss/taekni", Description: "Tækni og vísindi"},
		},
	},
	{
		ID:   "dv",
		Name: "DV",
		URL:  "https://www.dv.is",
		Feeds: []Feed{
			{ID: "frettir", URL: "https://www.dv.is/feed/", Description: "Allar fréttir DV"},
			{ID: "fokus", URL: "https://www.dv.is/fokus/feed/", Description: "Fókus - fólk og menning"},
			{ID: "eyjan", URL: "https://www.dv.is/eyjan/feed/", Description: "Eyjan - stjórnmálaumræða"},
		},
	},
	{
		ID:   "vb",
		Name: "Viðskiptablaðið",
		URL:  "https://www.vb.is",
		Feeds: []Feed{
			{ID: "frettir", URL: "https://www.vb.is/rss/", Description: "Viðskiptafréttir"},
		},
	},
}

// defaultCategories maps a category name to an explicit list of feeds.
// Unrecognized categories fall back to the all-news set in the aggregator.
var defaultCategories = map[string][]FeedRef{
	"innlent": {
		{Source: "ruv", Feed: "innlent"},
		{Source: "mbl", Feed: "innlent"},
		{Source: "visir", Feed: "innlent"},
	},
	"erlent": {
		{Source: "ruv", Feed: "erlent"},
		{Source: "mbl", Feed: "erlent"},
		{Source: "visir", Feed: "erlent"},
	},
	"ithrottir": {
		{Source: "ruv", Feed: "ithrottir"},
		{Source: "mbl", Feed: "sport"},
		{Source: "visir", Feed: "ithrottir"},
	},
	"vidskipti": {
		{Source: "mbl", Feed: "vidskipti"},
		{Source: "visir", Feed: "vidskipti"},
		{Source: "vb", Feed: "frettir"},
	},
	"menning": {
		{Source: "ruv", Feed: "menning"},
		{Source: "visir", Feed: "menning"},
		{Source: "dv", Feed: "fokus"},
	},
	"taekni": {
		{Source: "visir", Feed: "taekni"},
	},
}
