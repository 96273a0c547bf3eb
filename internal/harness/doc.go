// Package harness runs conformance scenarios against the join pipeline.
//
// A scenario is a YAML file holding two inline record sets, the key field,
// the join selector and a list of assertions over what the join emitted and
// what it discarded:
//
//	name: left-keeps-unmatched
//	description: left join keeps customers without orders
//	key: id
//	type: left
//	left:
//	  - {id: 1, name: alice}
//	  - {id: 2, name: bob}
//	right:
//	  - {id: 2, total: 10}
//	assertions:
//	  - type: emitted_keys
//	    keys: [1, 2]
//	  - type: partition
//
// Keys in assertions are compared by canonical JSON, so 1 and "1" differ.
// Run evaluates a scenario; RunWithGolden additionally compares the emitted
// and discarded rows against testdata/golden/<name>.golden.
package harness
