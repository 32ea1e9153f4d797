// Package contentrec is a content-based recommender: it scores documents
// against each other with TF-IDF vectors and cosine similarity and keeps a
// ranked list of similar documents per id.
//
// English text is stemmed and expanded with word n-grams; Japanese text is
// split with a morphological analyzer and filtered by part of speech.
//
//	rec, _ := contentrec.New(contentrec.WithMinScore(0.1), contentrec.WithMaxSimilarDocuments(10))
//	_ = rec.Train(ctx, []contentrec.Document{
//	    {ID: "1", Content: "Go is an open source programming language"},
//	    {ID: "2", Content: "Go makes it easy to build simple, reliable software"},
//	})
//	similar := rec.SimilarDocuments("1", 0, 5)
//
// A trained recommender can be exported and imported again:
//
//	model := rec.Export()
//	other, _ := contentrec.New()
//	_ = other.Import(model)
package contentrec
