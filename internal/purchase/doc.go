// Package purchase records purchases into the diary.
//
// A purchase enters as free text typed by the user. The resolver matches the
// item and shop text against known records, the calculator derives the total
// cost and price trend, and the Recorder writes the item, shop and
// transaction in that order before invalidating the cached lists. Catalog is
// the cached read side used to feed suggestions and history views.
package purchase
