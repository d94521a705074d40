package model

// JobAd is one row of the job advertisement corpus, reduced to the fields shown to callers.
// Row is its zero-based position in the corpus file and in the document vector store.
type JobAd struct {
	Row         int    `json:"row"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Source      string `json:"source,omitempty"`
}

// MatchResult is one ranked job ad for a résumé.
type MatchResult struct {
	JobAd
	Rank  int     `json:"rank"`  // 1-based position in the shortlist
	Score float64 `json:"score"` // Cosine similarity in [0, 1]
}
