// Package pipeline runs key joins over datasets.
//
// A Job names two sides (a dataset source plus the field that keys it), the
// selector, the collision policy used while indexing each side, and the shape
// of emitted rows. Jobs come from CUE or YAML files (LoadJob) or are built by
// the CLI from flags. Runner.Run loads and indexes both sides and hands them
// to join.Join; rows are produced lazily as the caller pulls them.
//
// Example job file (CUE):
//
//	job: {
//		type:         "left"
//		on_duplicate: "override"
//		shape:        "merge"
//		left:  {path: "customers.yaml", key: "id"}
//		right: {path: "shop.db", table: "orders", key: "customer_id"}
//	}
package pipeline
