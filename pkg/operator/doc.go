// Package operator implements incremental view maintenance over observable collections.
//
// Every operator subscribes to the change stream of a source collection, keeps exactly enough
// auxiliary state to translate each incoming event into the events describing how its own output
// changed, and republishes those in order. Operators are themselves observable collections, so
// they compose: the output of one operator is the source of the next. A fresh subscriber first
// receives a synthetic Reset carrying the operator's current contents, followed by live deltas.
//
// Operators that react to changes inside items (not only to structural edits of the source) take
// an ItemChanges function that returns, for a given item, a stream firing whenever the item's
// relevant state changes. A nil ItemChanges means items never change.
//
// All processing is synchronous: a mutation on a base collection walks the entire downstream
// pipeline before returning.
package operator
