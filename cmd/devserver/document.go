package main

// Document represents a searchable document for the development server
type Document struct {
	ID    int64  `json:"ID" gorm:"primaryKey"`
	Title string `json:"Title" gorm:"not null"`
	Body  string `json:"Body"`
	Tags  string `json:"Tags"`
}

// GetSampleDocuments returns sample document data for seeding the database
func GetSampleDocuments() []Document {
	return []Document{
		{
			ID:    1,
			Title: "Getting Started with Go",
			Body:  "Goroutines and channels make concurrent programming approachable",
			Tags:  "go concurrency tutorial",
		},
		{
			ID:    2,
			Title: "Inverted Indexes Explained",
			Body:  "How search engines map terms to the documents that contain them",
			Tags:  "search index internals",
		},
		{
			ID:    3,
			Title: "Query Parsing in Practice",
			Body:  "From raw search text to an executable query through a processing pipeline",
			Tags:  "search parser pipeline",
		},
		{
			ID:    4,
			Title: "SQLite FTS5 Deep Dive",
			Body:  "Full-text search with virtual tables, prefix queries and match expressions",
			Tags:  "sqlite fts database",
		},
		{
			ID:    5,
			Title: "PostgreSQL Text Search",
			Body:  "Using tsvector and websearch_to_tsquery for ranked document retrieval",
			Tags:  "postgres fts database",
		},
	}
}
