// Package change defines the change-notification vocabulary spoken by every reactive collection and
// operator: a closed set of collection-level events (Insert, Remove, Replace, Reset, Empty) and a
// list-level superset that carries indices and adds Move.
//
// Events are plain value types. Consumers either type-switch on them or use the exhaustive
// dispatchers Dispatch and DispatchList, which route each variant to a Handler method.
package change
