// Package schedule holds the custody calendar: day keys, per-day assignments
// and the Store that mutates them.
//
// # Data Model
//
// A Schedule maps a Date to an Assignment. Dates have day granularity and
// serialise as YYYY-MM-DD. Each Assignment repeats its own Date; the Store
// enforces that on every write so readers never see a record filed under the
// wrong key.
//
// Parent is one of CARINE, ROBERT or NONE. NONE is an explicit "nobody" and is
// stored like any other value; a day without a record is simply unplanned.
//
// # Mutations
//
//   - UpsertSingle writes one day
//   - UpsertRange writes every day of a closed interval, overwriting what was
//     there before; the caller orders the endpoints
//   - ReplaceAll swaps in an imported schedule wholesale
//
// Records are never deleted one by one.
//
// # Calendar Arithmetic
//
// Stepping between days goes through time.Date normalisation in UTC, so month
// ends, leap days and DST transitions are handled by the standard calendar
// rules rather than by adding 24 hours.
//
// # Derived Data
//
// MonthlyCounts and YearSummary are recomputed from a Schedule on demand.
// Nothing derived is cached.
package schedule
