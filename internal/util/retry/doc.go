// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay, and maximum delay. Provisioning uses it for the agent login
// step, which may fail transiently while the device's network comes up.
package retry
