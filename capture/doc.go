// Package capture intercepts console-style output of a page and ships it in batches
// to a consolelog ingestion route.
//
// A Page owns the console functions and the lifecycle hooks. Install wraps the console
// exactly once per page and returns the Engine that holds the queue. Batches leave when
// the queue reaches the flush threshold, when the debounce timer fires, or when the page
// gets hidden or torn down. Delivery is best effort: nothing is retried or acknowledged.
//
// Clock and Transport are replaceable so that timing and delivery can be driven by tests.
package capture
