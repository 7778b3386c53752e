// Package ddmin implements delta debugging over generic configurations.
//
// Minimize narrows a passing and a failing configuration until their
// difference is minimal with respect to an Oracle. Reduce shrinks a single
// failing configuration. Both split the current difference with a Splitter
// and adapt the granularity when no part helps.
package ddmin
