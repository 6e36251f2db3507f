// Package palmrag embeds the palmrag retrieval pipeline in a Go process.
//
// The client builds a TF-IDF index over a document collection, screens every
// query with the guardrail gate and composes a grounded answer from the top
// ranked snippets. No network or disk access happens after New returns.
//
//	client, _ := palmrag.New()
//	ans, _ := client.Answer(ctx, palmrag.Query{Text: "What is your printing policy?"})
//	fmt.Println(ans.Text)
//
// Custom collections and policies:
//
//	client, _ := palmrag.New(
//	    palmrag.WithDocuments(docs),
//	    palmrag.WithDenyPhrases("internal only"),
//	    palmrag.WithHitThreshold(0.3),
//	    palmrag.WithPrometheus(prometheus.DefaultRegisterer),
//	)
package palmrag
