// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields for customizable behavior and record their calls
// so tests can assert on interactions:
//
//	svc := mocks.NewMockLocationService(location.AuthorizedAlways)
//	svc.StartMonitoringFn = func(r domain.Region) error {
//	    return errors.New("boom")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Track calls behind a mutex so the mock is safe from the signal pump
package mocks
