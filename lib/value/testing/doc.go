// Package testing provides a standardised conformance suite for
// implementations of the value.Value contract.
//
// Example usage:
//
//	valuetesting.RunValueTests(t, "BlockState", func(i int) value.BlockState {
//		return value.NewBlockState(fmt.Sprintf("test:block_%d", i))
//	}, nil)
package testing
