package mongostore

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"pollex.nl/joinbench/bench"
)

type authorDoc struct {
	ID   bson.ObjectID `bson:"_id,omitempty"`
	Name string        `bson:"name"`
}

type bookDoc struct {
	ID     bson.ObjectID `bson:"_id,omitempty"`
	Title  string        `bson:"title"`
	Author bson.ObjectID `bson:"author"`
}

// lookupDoc is one output document of LookupPipeline.
type lookupDoc struct {
	ID            bson.ObjectID `bson:"_id"`
	Title         string        `bson:"title"`
	Author        bson.ObjectID `bson:"author"`
	AuthorDetails authorDoc     `bson:"authorDetails"`
}

func (d authorDoc) toAuthor() bench.Author {
	return bench.Author{ID: d.ID.Hex(), Name: d.Name}
}

func (d bookDoc) toBook() bench.Book {
	return bench.Book{ID: d.ID.Hex(), Title: d.Title, AuthorID: d.Author.Hex()}
}

func (d lookupDoc) toResolved() bench.Resolved {
	author := d.AuthorDetails.toAuthor()
	book := bookDoc{ID: d.ID, Title: d.Title, Author: d.Author}
	return bench.Resolved{Book: book.toBook(), Author: &author}
}
