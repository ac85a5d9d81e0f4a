// Package pipeline builds incremental views over a list of integers from a declarative YAML
// description, and replays mutation scenarios against them.
//
// A scenario looks like this:
//
//	name: small-evens
//	initial: [5, 2, 8, 3, 6]
//	pipeline:
//	  - "@where": {"@eq": [{"@mod": ["$", 2]}, 0]}
//	  - "@sort": asc
//	  - "@window": {skip: 0, take: 2}
//	steps:
//	  - add: 4
//	  - take: 3
//	expected: [2, 4, 6]
//
// Stages are single-key maps naming the operator, with an optional "name" key. Expressions are
// integer-valued: "$" stands for the current item, and comparisons and logical operators yield
// 1 or 0.
package pipeline
