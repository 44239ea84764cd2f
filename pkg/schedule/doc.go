// Package schedule decides when a reminder goes out. A run picks a dispatch
// window from the local hour, checks the holiday calendar, blocks until the
// window's target minute and then hands off to the notifier exactly once.
//
// All wall-clock reasoning happens in Asia/Shanghai.
package schedule
