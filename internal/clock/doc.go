// Package clock provides the monotonic microsecond time base of the desk clock.
//
// Time is a uint32 count of microseconds that wraps around roughly every
// 71.6 minutes, exactly like the micros() counter of the firmware this code
// drives. Durations are always computed with Elapsed (unsigned subtraction),
// which makes the wraparound transparent; absolute readings are never compared.
package clock
