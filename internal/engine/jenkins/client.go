package jenkins

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jenkinsrun/internal/config"
	"jenkinsrun/internal/logger"
)

// Client represents a Jenkins API client
type Client struct {
	url      string
	username string
	password string
	jobToken string
	crumb    bool
	client   *http.Client
}

// NewClient creates a new Jenkins client instance
func NewClient(cfg config.JenkinsConfig) *Client {
	// A zero timeout leaves requests bounded only by the transport defaults
	client := &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	}

	// Normalize URL: remove trailing slash to avoid double slashes in paths
	url := strings.TrimSuffix(cfg.URL, "/")

	return &Client{
		url:      url,
		username: cfg.Username,
		password: cfg.Password,
		jobToken: cfg.JobToken,
		crumb:    cfg.CrumbEnabled(),
		client:   client,
	}
}

// setAuth sets the basic authentication header. Format: username:password
func (c *Client) setAuth(req *http.Request) {
	auth := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", c.username, c.password)))
	req.Header.Set("Authorization", "Basic "+auth)
}

// doRequest sends a GET request to the Jenkins API and returns the response body
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	url := c.url + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Jenkins API request failed", "status", resp.Status, "url", url)
		return nil, formatJenkinsError(resp.StatusCode)
	}

	return respBody, nil
}

// getCrumb retrieves the CSRF crumb from Jenkins for POST requests
// Returns the crumb field name and value separately
func (c *Client) getCrumb(ctx context.Context) (string, string, error) {
	crumbURL := c.url + "/crumbIssuer/api/json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crumbURL, nil)
	if err != nil {
		return "", "", err
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("failed to get crumb: %s", resp.Status)
	}

	var crumbData struct {
		Crumb             string `json:"crumb"`
		CrumbRequestField string `json:"crumbRequestField"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&crumbData); err != nil {
		return "", "", fmt.Errorf("failed to decode crumb: %w", err)
	}

	crumbField := crumbData.CrumbRequestField
	if crumbField == "" {
		crumbField = "Jenkins-Crumb" // Default field name
	}

	return crumbField, crumbData.Crumb, nil
}

// jobPath builds the URL path of a job. Folder jobs are written as a/b and
// map to /job/a/job/b.
func jobPath(jobName string) (string, error) {
	if jobName == "" {
		return "", fmt.Errorf("job name cannot be empty")
	}

	var b strings.Builder
	for _, segment := range strings.Split(jobName, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("invalid job name format: %s", jobName)
		}
		b.WriteString("/job/")
		b.WriteString(url.PathEscape(segment))
	}

	return b.String(), nil
}

// flattenHeaders keeps the first value of every response header
func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// formatJenkinsError formats Jenkins API errors into user-friendly messages
// without exposing internal implementation details
func formatJenkinsError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed: invalid credentials")
	case http.StatusForbidden:
		return fmt.Errorf("access denied: insufficient permissions")
	case http.StatusNotFound:
		return fmt.Errorf("resource not found")
	case http.StatusBadRequest:
		return fmt.Errorf("invalid request")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("jenkins server error: please try again later")
	default:
		return fmt.Errorf("jenkins api request failed with status %d", statusCode)
	}
}
