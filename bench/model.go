package bench

import "context"

// Author is a parent record. ID is assigned by the Store on insert.
type Author struct {
	ID   string
	Name string
}

// Book is a child record referencing exactly one Author.
type Book struct {
	ID       string
	Title    string
	AuthorID string
}

// Resolved pairs a Book with the Author it references. Author is nil when the
// reference is dangling.
type Resolved struct {
	Book   Book
	Author *Author
}

// Counts reports how many records a Store currently holds.
type Counts struct {
	Authors int64
	Books   int64
}

// Store is the document database shared by the generator and the strategies.
// Implementations are not safe for concurrent use; the runner never needs that.
type Store interface {
	// DeleteAll removes every Author and Book.
	DeleteAll(ctx context.Context) error
	// InsertAuthors inserts authors in one bulk operation and returns them with ids assigned.
	InsertAuthors(ctx context.Context, authors []Author) ([]Author, error)
	// InsertBooks inserts books in one bulk operation and returns them with ids assigned.
	InsertBooks(ctx context.Context, books []Book) ([]Book, error)
	Count(ctx context.Context) (Counts, error)

	// ResolveReferences fetches every Book, then looks up the referenced Authors
	// in a separate step and merges them on the client.
	ResolveReferences(ctx context.Context) ([]Resolved, error)
	// AggregateLookup joins Books with Authors in a single server-side request.
	// Books without a matching Author are dropped.
	AggregateLookup(ctx context.Context) ([]Resolved, error)

	Close(ctx context.Context) error
}
