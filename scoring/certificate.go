package scoring

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"
)

const (
	penaltySelfSigned   = 40
	penaltyOldProtocol  = 20
	penaltyExpiringSoon = 15
	penaltyExpiringNow  = 30
)

// CertificateInfo is the TLS check's evidence: connection facts plus a
// normalized 0-100 score and letter grade.
type CertificateInfo struct {
	HasSSL        bool   `json:"has_ssl"`
	Grade         string `json:"grade"`
	DaysRemaining int    `json:"days_remaining"`
	ValidUntil    string `json:"valid_until,omitempty"`
	Protocol      string `json:"protocol,omitempty"`
	Cipher        string `json:"cipher,omitempty"`
	SelfSigned    bool   `json:"self_signed"`
	Score         int    `json:"score"`
}

// CertProbe resolves TLS connection facts for a domain. Swappable in tests.
type CertProbe func(ctx context.Context, domain string) CertificateInfo

// ProbeCertificate dials the domain on 443 and grades the handshake. A
// failed dial yields HasSSL=false with score 0. The context bounds the
// dial and handshake.
func ProbeCertificate(ctx context.Context, domain string) CertificateInfo {
	info := CertificateInfo{Grade: "F"}

	d := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 5 * time.Second},
		Config: &tls.Config{
			ServerName:         domain,
			InsecureSkipVerify: true,
		},
	}
	netConn, err := d.DialContext(ctx, "tcp", domain+":443")
	if err != nil {
		return info
	}
	conn := netConn.(*tls.Conn)
	defer conn.Close()

	state := conn.ConnectionState()
	info.HasSSL = true
	info.Protocol = tlsVersionName(state.Version)
	info.Cipher = tls.CipherSuiteName(state.CipherSuite)

	if len(state.PeerCertificates) > 0 {
		cert := state.PeerCertificates[0]
		info.ValidUntil = cert.NotAfter.Format(time.RFC3339)
		info.DaysRemaining = int(time.Until(cert.NotAfter).Hours() / 24)
		info.SelfSigned = cert.IsCA
	}

	info.Score = scoreCertificate(info)
	info.Grade = certGrade(info.Score)
	return info
}

func scoreCertificate(info CertificateInfo) int {
	if !info.HasSSL {
		return 0
	}
	score := 100
	if info.SelfSigned {
		score -= penaltySelfSigned
	}
	if !strings.Contains(info.Protocol, "TLS1.3") {
		score -= penaltyOldProtocol
	}
	if info.DaysRemaining < 7 {
		score -= penaltyExpiringNow
	} else if info.DaysRemaining < 30 {
		score -= penaltyExpiringSoon
	}
	return clampScore(score)
}

func certGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "F"
	}
}

func tlsVersionName(v uint16) string {
	switch v {
	case tls.VersionTLS13:
		return "TLS1.3"
	case tls.VersionTLS12:
		return "TLS1.2"
	default:
		return "weak"
	}
}
