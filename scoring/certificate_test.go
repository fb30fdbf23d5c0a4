package scoring

import (
	"crypto/tls"
	"testing"
)

func TestScoreCertificate(t *testing.T) {
	cases := []struct {
		name string
		info CertificateInfo
		want int
	}{
		{"no tls", CertificateInfo{}, 0},
		{"modern and valid", CertificateInfo{HasSSL: true, Protocol: "TLS1.3", DaysRemaining: 80}, 100},
		{"old protocol", CertificateInfo{HasSSL: true, Protocol: "TLS1.2", DaysRemaining: 80}, 80},
		{"self signed", CertificateInfo{HasSSL: true, Protocol: "TLS1.3", DaysRemaining: 80, SelfSigned: true}, 60},
		{"expiring soon", CertificateInfo{HasSSL: true, Protocol: "TLS1.3", DaysRemaining: 20}, 85},
		{"expiring now", CertificateInfo{HasSSL: true, Protocol: "TLS1.3", DaysRemaining: 2}, 70},
		{"worst case", CertificateInfo{HasSSL: true, Protocol: "weak", DaysRemaining: 1, SelfSigned: true}, 10},
	}

	for _, tc := range cases {
		if got := scoreCertificate(tc.info); got != tc.want {
			t.Errorf("%s: scoreCertificate(%+v) = %d, want %d", tc.name, tc.info, got, tc.want)
		}
	}
}

func TestCertGrade(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A"}, {90, "A"}, {89, "B"}, {70, "B"}, {69, "C"}, {50, "C"}, {49, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		if got := certGrade(tc.score); got != tc.want {
			t.Errorf("certGrade(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestTLSVersionName(t *testing.T) {
	if got := tlsVersionName(tls.VersionTLS13); got != "TLS1.3" {
		t.Errorf("VersionTLS13 = %q", got)
	}
	if got := tlsVersionName(tls.VersionTLS12); got != "TLS1.2" {
		t.Errorf("VersionTLS12 = %q", got)
	}
	if got := tlsVersionName(tls.VersionTLS10); got != "weak" {
		t.Errorf("VersionTLS10 = %q", got)
	}
}
