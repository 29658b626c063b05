// Package cache keeps synthesized audio chunks so text that was spoken
// before is not sent to the engine again.
package cache
