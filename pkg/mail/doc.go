// Package mail renders the clock-in and clock-out reminder emails and sends
// them over SMTP, with provider lookup from the sender's domain and a
// STARTTLS fallback when implicit TLS cannot be established.
package mail
