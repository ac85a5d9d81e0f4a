// Package collection provides the observable base containers: an unordered MutableCollection, a
// duplicate-free MutableSet and an index-addressable MutableList. All of them publish a batch of
// change events for every mutation and support transactions that buffer several mutations into a
// single batch.
//
// Subscribing to any collection first delivers a synthetic Reset carrying the current contents, so
// a subscriber never needs a separate read to become consistent.
package collection
