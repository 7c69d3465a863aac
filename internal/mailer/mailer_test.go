package mailer

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeRelay speaks just enough SMTP to accept one message, optionally
// upgrading the session with STARTTLS.
type fakeRelay struct {
	ln       net.Listener
	starttls bool
	tlsCfg   *tls.Config

	done    chan struct{}
	secured bool
	from    string
	rcpt    string
	data    string
}

func startFakeRelay(t *testing.T, starttls bool) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f := &fakeRelay{ln: ln, starttls: starttls, done: make(chan struct{})}
	if starttls {
		f.tlsCfg = selfSignedConfig(t)
	}
	t.Cleanup(func() { ln.Close() })
	go f.serve()
	return f
}

func (f *fakeRelay) serve() {
	defer close(f.done)
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	br := bufio.NewReader(conn)
	fmt.Fprintf(conn, "220 relay ready\r\n")
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			if f.starttls && !f.secured {
				fmt.Fprintf(conn, "250-relay\r\n250 STARTTLS\r\n")
			} else {
				fmt.Fprintf(conn, "250 relay\r\n")
			}
		case cmd == "STARTTLS":
			fmt.Fprintf(conn, "220 go ahead\r\n")
			tlsConn := tls.Server(conn, f.tlsCfg)
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			f.secured = true
			conn = tlsConn
			br = bufio.NewReader(conn)
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			f.from = strings.TrimSpace(line)
			fmt.Fprintf(conn, "250 sender ok\r\n")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			f.rcpt = strings.TrimSpace(line)
			fmt.Fprintf(conn, "250 recipient ok\r\n")
		case cmd == "DATA":
			fmt.Fprintf(conn, "354 end with .\r\n")
			var b strings.Builder
			for {
				dl, err := br.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(dl, "\r\n") == "." {
					break
				}
				b.WriteString(dl)
			}
			f.data = b.String()
			fmt.Fprintf(conn, "250 accepted\r\n")
		case cmd == "QUIT":
			fmt.Fprintf(conn, "221 bye\r\n")
			return
		default:
			fmt.Fprintf(conn, "250 ok\r\n")
		}
	}
}

// selfSignedConfig mints a throwaway certificate for 127.0.0.1.
func selfSignedConfig(t *testing.T) *tls.Config {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
	}
}

func newTestSMTP(t *testing.T, relay *fakeRelay) *SMTP {
	t.Helper()
	host, portStr, err := net.SplitHostPort(relay.ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	m := &SMTP{
		host:     host,
		port:     port,
		from:     "noreply@civiceye.local",
		fromName: "CivicEye",
		timeout:  5 * time.Second,
	}
	if relay.starttls {
		// The relay's certificate is self-signed, so skip chain
		// verification here.
		m.tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return m
}

func TestSMTPSendPlain(t *testing.T) {
	relay := startFakeRelay(t, false)
	m := newTestSMTP(t, relay)

	if err := m.Send(context.Background(), "asha@x.com", "Your OTP", "<p>123456</p>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	<-relay.done

	if !strings.Contains(relay.rcpt, "asha@x.com") {
		t.Fatalf("unexpected recipient line %q", relay.rcpt)
	}
	if !strings.Contains(relay.data, "Subject: Your OTP") || !strings.Contains(relay.data, "<p>123456</p>") {
		t.Fatalf("message not delivered intact:\n%s", relay.data)
	}
}

func TestSMTPSendUpgradesWithStartTLS(t *testing.T) {
	relay := startFakeRelay(t, true)
	m := newTestSMTP(t, relay)

	if err := m.Send(context.Background(), "asha@x.com", "Your OTP", "<p>123456</p>"); err != nil {
		t.Fatalf("send via starttls relay: %v", err)
	}
	<-relay.done

	if !relay.secured {
		t.Fatalf("expected session to be upgraded to TLS")
	}
	if !strings.Contains(relay.data, "<p>123456</p>") {
		t.Fatalf("message not delivered over TLS:\n%s", relay.data)
	}
}

func TestClientTLSConfigNamesRelayHost(t *testing.T) {
	m := &SMTP{host: "smtp.example.com"}
	cfg := m.clientTLSConfig()
	if cfg.ServerName != "smtp.example.com" {
		t.Fatalf("expected server name to match relay host, got %q", cfg.ServerName)
	}
	if cfg.InsecureSkipVerify {
		t.Fatalf("default config must verify the relay certificate")
	}
}
