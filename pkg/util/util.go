// Package util holds small helpers shared by the pipeline tooling.
package util

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/json"
)

// Map applies f to every element of s: (a -> b) -> [a] -> [b].
func Map[T, U any](f func(T) U, s []T) []U {
	result := make([]U, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

// Stringify renders v as JSON for log lines, falling back to the Go syntax representation.
func Stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
