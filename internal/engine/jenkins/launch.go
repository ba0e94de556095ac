package jenkins

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"jenkinsrun/internal/engine"
	"jenkinsrun/internal/logger"
)

// IssueBuild triggers the job through buildWithParameters. The token is sent
// as the build cause so the build can be found again in the job history.
func (c *Client) IssueBuild(ctx context.Context, jobName, token string, params map[string]string) (*engine.Launch, error) {
	path, err := jobPath(jobName)
	if err != nil {
		return nil, err
	}
	fullURL := c.url + path + "/buildWithParameters"

	// Jenkins buildWithParameters expects form-encoded data
	formData := url.Values{}
	for k, v := range params {
		formData.Set(k, v)
	}
	formData.Set("cause", token)
	if c.jobToken != "" {
		formData.Set("token", c.jobToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setAuth(req)

	if c.crumb {
		crumbField, crumbValue, err := c.getCrumb(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", engine.ErrCrumbUnavailable, err)
		}
		if crumbValue != "" {
			req.Header.Set(crumbField, crumbValue)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		logger.Error("Jenkins build request rejected", "status", resp.Status, "url", fullURL)
		return nil, &engine.LaunchRejectedError{
			StatusCode: resp.StatusCode,
			Reason:     formatJenkinsError(resp.StatusCode).Error(),
		}
	}

	return &engine.Launch{
		Token:    token,
		Location: resp.Header.Get("Location"),
		Headers:  flattenHeaders(resp.Header),
	}, nil
}
