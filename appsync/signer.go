package appsync

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/exp/maps"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	signingService   = "appsync"
	scopeTerminator  = "aws4_request"

	amzDateFormat   = "20060102T150405Z"
	shortDateFormat = "20060102"
)

// Signer authorizes requests to the tenant data API with the calling
// process's own identity. Credentials are pulled from the injected
// provider on every call, so rotation in the ambient chain is picked up
// without any session state held here.
type Signer struct {
	region      string
	credentials aws.CredentialsProvider
}

func NewSigner(region string, credentials aws.CredentialsProvider) *Signer {
	return &Signer{region: region, credentials: credentials}
}

// Sign attaches the date, content-hash and authorization headers to req.
// payloadHash must be the hex SHA-256 of the exact body bytes that will be
// transmitted; the caller owns that byte slice and must not re-serialize
// it after calling Sign.
func (s *Signer) Sign(ctx context.Context, req *http.Request, payloadHash string, signingTime time.Time) error {
	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("unable to obtain signing credentials: %w", err)
	}

	amzDate := signingTime.UTC().Format(amzDateFormat)
	shortDate := signingTime.UTC().Format(shortDateFormat)

	canonicalHeaders := map[string]string{
		"content-type":         req.Header.Get("Content-Type"),
		"host":                 req.URL.Host,
		"x-amz-content-sha256": payloadHash,
		"x-amz-date":           amzDate,
	}
	if creds.SessionToken != "" {
		canonicalHeaders["x-amz-security-token"] = creds.SessionToken
	}

	headerNames := maps.Keys(canonicalHeaders)
	sort.Strings(headerNames)
	signedHeaders := strings.Join(headerNames, ";")

	canonicalRequest := buildCanonicalRequest(req.Method, req.URL.Path, canonicalHeaders, headerNames, signedHeaders, payloadHash)

	scope := shortDate + "/" + s.region + "/" + signingService + "/" + scopeTerminator

	canonicalRequestHash := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		hex.EncodeToString(canonicalRequestHash[:]),
	}, "\n")

	signingKey := deriveSigningKey(creds.SecretAccessKey, shortDate, s.region)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	if creds.SessionToken != "" {
		req.Header.Set("X-Amz-Security-Token", creds.SessionToken)
	}
	req.Header.Set("Authorization", fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signingAlgorithm, creds.AccessKeyID, scope, signedHeaders, signature,
	))

	return nil
}

func buildCanonicalRequest(method string, path string, headers map[string]string, sortedNames []string, signedHeaders string, payloadHash string) string {
	if path == "" {
		path = "/"
	}

	var builder strings.Builder
	builder.WriteString(method)
	builder.WriteString("\n")
	builder.WriteString(path)
	builder.WriteString("\n")
	// Empty canonical query string: the data API is POST-only.
	builder.WriteString("\n")
	for _, name := range sortedNames {
		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(strings.TrimSpace(headers[name]))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
	builder.WriteString(signedHeaders)
	builder.WriteString("\n")
	builder.WriteString(payloadHash)

	return builder.String()
}

// deriveSigningKey runs the four chained HMAC operations that scope the
// secret key to (date, region, service).
func deriveSigningKey(secretKey string, shortDate string, region string) []byte {
	dateKey := hmacSHA256([]byte("AWS4"+secretKey), []byte(shortDate))
	regionKey := hmacSHA256(dateKey, []byte(region))
	serviceKey := hmacSHA256(regionKey, []byte(signingService))
	return hmacSHA256(serviceKey, []byte(scopeTerminator))
}

func hmacSHA256(key []byte, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
