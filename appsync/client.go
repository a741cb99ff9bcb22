package appsync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Client executes queries and mutations against the tenant data API.
// Every call is signed independently; nothing is retried here, a transient
// failure propagates straight to the caller.
type Client struct {
	endpoint   *url.URL
	signer     *Signer
	httpClient *http.Client
}

func NewClient(endpoint string, region string, credentials aws.CredentialsProvider) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("malformed graphql endpoint %q", endpoint)
	}

	return &Client{
		endpoint:   parsed,
		signer:     NewSigner(region, credentials),
		httpClient: &http.Client{},
	}, nil
}

// NewClientFromEnv builds a client from GRAPHQL_ENDPOINT and AWS_REGION
// using the ambient credential chain. Both variables are required.
func NewClientFromEnv(ctx context.Context) (*Client, error) {
	endpoint := os.Getenv("GRAPHQL_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("GRAPHQL_ENDPOINT environment variable is not set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION environment variable is not set")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return NewClient(endpoint, region, cfg.Credentials)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage   `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// GraphQLError reports that the data API accepted the signed request but
// answered with application-level errors. The raw error list is carried
// verbatim so nothing is swallowed.
type GraphQLError struct {
	Errors []json.RawMessage
}

func (e *GraphQLError) Error() string {
	serialized, err := json.Marshal(e.Errors)
	if err != nil {
		return fmt.Sprintf("graphql request failed with %d errors", len(e.Errors))
	}
	return "graphql request failed: " + string(serialized)
}

// Execute posts the query with the given variables and decodes the
// response's data field into out (out may be nil for fire-and-forget
// mutations). The content hash is computed over the exact bytes sent.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("unable to serialize graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	bodyHash := sha256.Sum256(body)
	if err = c.signer.Sign(ctx, req, hex.EncodeToString(bodyHash[:]), time.Now()); err != nil {
		return err
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("unable to read graphql response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("graphql endpoint returned status %v: %v", response.StatusCode, string(responseBody))
	}

	var envelope graphQLEnvelope
	if err = json.Unmarshal(responseBody, &envelope); err != nil {
		return fmt.Errorf("malformed graphql response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		return &GraphQLError{Errors: envelope.Errors}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err = json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("unable to decode graphql data: %w", err)
		}
	}

	return nil
}
