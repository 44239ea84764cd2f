package mail

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// startTestSMTPServer starts a minimal SMTP server on a random port that
// accepts one session and records the DATA payload. It only implements the
// commands the sender uses and advertises neither AUTH nor STARTTLS.
func startTestSMTPServer(t *testing.T) (port int, data func() string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		received strings.Builder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250 OK\r\n")
			case strings.HasPrefix(line, "MAIL FROM:"), strings.HasPrefix(line, "RCPT TO:"):
				fmt.Fprintf(conn, "250 OK\r\n")
			case strings.HasPrefix(line, "DATA"):
				fmt.Fprintf(conn, "354 End data with <CR><LF>.<CR><LF>\r\n")
				for {
					dline, derr := r.ReadString('\n')
					if derr != nil {
						return
					}
					if strings.TrimSpace(dline) == "." {
						break
					}
					mu.Lock()
					received.WriteString(dline)
					mu.Unlock()
				}
				fmt.Fprintf(conn, "250 OK: queued as 12345\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 OK\r\n")
			}
		}
	}()

	port = ln.Addr().(*net.TCPAddr).Port
	data = func() string {
		mu.Lock()
		defer mu.Unlock()
		return received.String()
	}
	stop = func() {
		ln.Close()
		wg.Wait()
	}
	return port, data, stop
}

// closedPort returns a local port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

// startAuthRejectingSMTPServer starts an implicit-TLS SMTP server that
// advertises AUTH PLAIN and answers every AUTH with 535.
func startAuthRejectingSMTPServer(t *testing.T) (port int, clientTLS *tls.Config, stop func()) {
	t.Helper()
	certSrv := httptest.NewUnstartedServer(http.NotFoundHandler())
	certSrv.StartTLS()
	serverTLS := certSrv.TLS.Clone()
	serverTLS.NextProtos = nil
	certSrv.Close()

	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverTLS)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250-AUTH PLAIN\r\n250 OK\r\n")
			case strings.HasPrefix(line, "AUTH"):
				fmt.Fprintf(conn, "535 5.7.8 Authentication credentials invalid\r\n")
			case line == "*":
				fmt.Fprintf(conn, "501 Authentication cancelled\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "502 Not implemented\r\n")
			}
		}
	}()

	port = ln.Addr().(*net.TCPAddr).Port
	clientTLS = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // test server uses a self-signed cert
	stop = func() {
		ln.Close()
		wg.Wait()
	}
	return port, clientTLS, stop
}
