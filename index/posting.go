package index

// PostingEntry records that a corpus row contains a term, with the term's
// normalized TF-IDF weight in that row.
type PostingEntry struct {
	Row    int     // Position of the job ad in the corpus
	Weight float64 // Weight of the term in the row's document vector
}

// PostingList is a slice of PostingEntry sorted by Row ascending.
type PostingList []PostingEntry
