package roundtrip

import (
	"context"
	"strconv"
)

// Item is a stored item.
type Item struct {
	ID   int64  `json:"id" xml:"id" validate:"required"`
	Name string `json:"name" xml:"name"`
}

// Lookup selects the items of one owner.
type Lookup struct {
	Owner string
	Page  *int
}

// Listing is one page of an owner's items.
type Listing struct {
	Owner string `json:"owner"`
	Page  int    `json:"page"`
}

// Items serves items.
// @controller /items
type Items struct{}

// Get returns one item.
// @get /:id
// @roles admin
func (i *Items) Get(ctx context.Context, id int64) (*Item, error) {
	return &Item{ID: id, Name: "item " + strconv.FormatInt(id, 10)}, nil
}

// Create stores an item.
// @post
// @valid
func (i *Items) Create(item Item) (*Item, error) {
	return &item, nil
}

// Update renames an item. An absent patch keeps the item unchanged.
// @put /:id
func (i *Items) Update(id int64, patch *Item) (*Item, error) {
	if patch == nil {
		return &Item{ID: id, Name: "unchanged"}, nil
	}
	return &Item{ID: id, Name: patch.Name}, nil
}

// Owned lists the items of an owner.
// @get /:id/owners/:owner
// @bean lookup
func (i *Items) Owned(id int64, lookup Lookup) (*Listing, error) {
	listing := &Listing{Owner: lookup.Owner}
	if lookup.Page != nil {
		listing.Page = *lookup.Page
	}
	return listing, nil
}

// Describe returns an item as XML or JSON.
// @get /:id/describe
// @produces xml
func (i *Items) Describe(id int64) (*Item, error) {
	return &Item{ID: id, Name: "described"}, nil
}
