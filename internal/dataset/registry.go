package dataset

// Registry returns the extractors in their fixed execution order. The order
// is part of the contract: pages_total is first-writer-wins, so the
// top-pages export must run before the internal crawl for its distinct-URL
// count to win when both are present.
func Registry(cfg Config) []Extractor {
	return []Extractor{
		&AhrefsKeywords{},
		&AhrefsTopPages{},
		&AhrefsBacklinks{},
		NewAhrefsSiteAudit(cfg),
		&ScreamingFrogInternal{},
		&ScreamingFrogStructuredData{},
		&ScreamingFrogInfo{},
		NewLighthouse(cfg),
		&BrightLocalRanks{},
		&BrightLocalCitations{},
		&BrightLocalReviews{},
		&BrightLocalGBPInsights{},
		&GBPCategories{},
		&GBPPhotos{},
		NewLoginRequired(cfg),
		NewAnalyticsPresence(cfg),
	}
}
