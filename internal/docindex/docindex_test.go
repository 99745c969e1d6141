package docindex

import "testing"

func TestIndexSearchRanksByRelevance(t *testing.T) {
	ix := New()
	ix.Add("roading.txt", "The council seeks sealed tenders for roading maintenance. Roading crews operate overnight.")
	ix.Add("parks.txt", "Parks staff mow reserves weekly during summer.")
	ix.Add("bridges.txt", "Bridge repair tenders close soon; roading detours apply.")

	results := ix.Search("roading", 0)
	if len(results) != 2 {
		t.Fatalf("Search = %+v, want 2 results", results)
	}
	if results[0].DocID != "roading.txt" || results[1].DocID != "bridges.txt" {
		t.Errorf("order = [%s %s], want [roading.txt bridges.txt]", results[0].DocID, results[1].DocID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores = %v >= %v, want strictly decreasing", results[1].Score, results[0].Score)
	}

	top := ix.Search("roading", 1)
	if len(top) != 1 || top[0].DocID != "roading.txt" {
		t.Errorf("Search with limit 1 = %+v, want just roading.txt", top)
	}
}

func TestIndexSnippetPicksBestSentence(t *testing.T) {
	ix := New()
	ix.Add("doc", "Alpha paragraph about nothing special. The grant budget covers roading and drainage. Final remarks here.")
	ix.Add("other", "Completely different subject matter.")

	results := ix.Search("grant budget", 0)
	if len(results) != 1 {
		t.Fatalf("Search = %+v, want 1 result", results)
	}
	want := "The grant budget covers roading and drainage"
	if results[0].Snippet != want {
		t.Errorf("Snippet = %q, want %q", results[0].Snippet, want)
	}
}

func TestIndexSnippetFallsBackToHead(t *testing.T) {
	// "Grant now" is under the minimum sentence length, so no sentence
	// qualifies and the snippet falls back to the document head.
	content := "Grant now. This is a much longer sentence without the magic words."
	ix := New()
	ix.Add("doc", content)
	ix.Add("other", "Completely different subject matter.")

	results := ix.Search("grant", 0)
	if len(results) != 1 {
		t.Fatalf("Search = %+v, want 1 result", results)
	}
	if results[0].Snippet != content {
		t.Errorf("Snippet = %q, want full document text", results[0].Snippet)
	}
}

func TestIndexRemove(t *testing.T) {
	ix := New()
	ix.Add("keep", "Electrical rewiring quote for the depot site.")
	ix.Add("drop", "Electrical inspection schedule for substations.")
	// A term present in every document scores zero (idf = log 1), so keep
	// one document without it in the index.
	ix.Add("other", "Fencing materials and freight charges.")

	if got := len(ix.Search("electrical", 0)); got != 2 {
		t.Fatalf("Search before remove = %d results, want 2", got)
	}

	ix.Remove("drop")
	ix.Remove("never-existed")

	results := ix.Search("electrical", 0)
	if len(results) != 1 || results[0].DocID != "keep" {
		t.Errorf("Search after remove = %+v, want just keep", results)
	}
	if got := ix.Search("substations", 0); len(got) != 0 {
		t.Errorf("removed document still matches: %+v", got)
	}
	if ix.Len() != 2 {
		t.Errorf("Len = %d, want 2", ix.Len())
	}
}

func TestIndexReAddReplacesContent(t *testing.T) {
	ix := New()
	ix.Add("doc", "Original proposal covers kayak storage racks.")
	ix.Add("doc", "Revised proposal covers drone survey flights.")
	ix.Add("other", "Completely different subject matter.")

	if got := ix.Search("kayak", 0); len(got) != 0 {
		t.Errorf("stale content still indexed: %+v", got)
	}
	results := ix.Search("drone", 0)
	if len(results) != 1 || results[0].DocID != "doc" {
		t.Errorf("Search = %+v, want doc via new content", results)
	}
	if ix.Len() != 2 {
		t.Errorf("Len = %d, want 2", ix.Len())
	}
}

func TestIndexSearchDegenerateQueries(t *testing.T) {
	ix := New()

	if got := ix.Search("anything", 0); got != nil {
		t.Errorf("Search on empty index = %+v, want nil", got)
	}

	ix.Add("doc", "Plumbing maintenance contract terms.")

	// Stopwords and one or two letter tokens never reach the scorer.
	for _, q := range []string{"", "the at or", "ab"} {
		if got := ix.Search(q, 0); got != nil {
			t.Errorf("Search(%q) = %+v, want nil", q, got)
		}
	}
}

func TestIndexTieBreaksOnDocID(t *testing.T) {
	ix := New()
	ix.Add("b.txt", "Solar battery installation quote.")
	ix.Add("a.txt", "Solar battery installation quote.")
	ix.Add("c.txt", "Unrelated landscaping content entirely.")

	results := ix.Search("solar", 0)
	if len(results) != 2 {
		t.Fatalf("Search = %+v, want 2 results", results)
	}
	if results[0].DocID != "a.txt" || results[1].DocID != "b.txt" {
		t.Errorf("order = [%s %s], want doc id ascending on equal scores", results[0].DocID, results[1].DocID)
	}
}
