// Package scheduler arms one-shot timers for active reminders. It runs a
// single goroutine over a min-heap of events sorted by due time, with a
// 60-second max-sleep-cap to handle NTP steps, DST transitions, and
// system sleep.
//
// The scheduler holds no durable state: the heap is rebuilt from the
// reminder store on daemon startup and after every sync reconciliation
// via ScheduleAll, which drops every armed timer before re-arming. That
// rebuild-from-scratch rule is what keeps timers from referencing
// records that reconciliation removed or rescheduled.
package scheduler
