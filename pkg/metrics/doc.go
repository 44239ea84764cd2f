// Package metrics defines Prometheus metrics for punch-reminder runs, covering
// dispatch outcomes, holiday lookups, waiting time and mail delivery, and
// pushes them to a Pushgateway since the process is too short-lived to scrape.
package metrics
