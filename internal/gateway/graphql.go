package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 64 << 10

const contributionsQuery = `query($userName: String!, $from: DateTime!, $to: DateTime!, $topRepositories: Int!) {
	user(login: $userName) {
		contributionsCollection(from: $from, to: $to) {
			contributionCalendar {
				totalContributions
				weeks {
					contributionDays {
						contributionCount
						date
						color
					}
				}
			}
		}
		repositories(first: $topRepositories, orderBy: {field: STARGAZERS, direction: DESC}, privacy: PUBLIC) {
			nodes {
				name
				description
				stargazerCount
				forkCount
				primaryLanguage {
					name
					color
				}
				url
			}
		}
		repositoriesContributedTo(first: 100, contributionTypes: [COMMIT]) {
			totalCount
		}
	}
}`

const recentCommitsQuery = `query($userName: String!, $recentRepositories: Int!, $commitHistory: Int!) {
	user(login: $userName) {
		repositories(first: $recentRepositories, orderBy: {field: PUSHED_AT, direction: DESC}) {
			nodes {
				name
				url
				defaultBranchRef {
					target {
						... on Commit {
							history(first: $commitHistory) {
								totalCount
								nodes {
									message
									committedDate
									oid
								}
							}
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// executeQuery posts a GraphQL document and decodes the typed response.
// A non-2xx status yields a transport UpstreamError carrying the raw body, and
// a populated "errors" array yields a protocol UpstreamError.
func executeQuery[T any](ctx context.Context, g *GitHubGateway, operation, query string, variables map[string]any) (*T, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s query: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s query: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{
			Operation:  operation,
			Kind:       KindTransport,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	var envelope graphqlEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, operation, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, &UpstreamError{
			Operation:  operation,
			Kind:       KindProtocol,
			StatusCode: resp.StatusCode,
			Errors:     envelope.Errors,
		}
	}
	if envelope.Data == nil {
		return nil, malformed("%s: response has no data", operation)
	}
	return envelope.Data, nil
}
