package jenkins

import "context"

// DoRequest exports doRequest for testing purposes
func (c *Client) DoRequest(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, path)
}

// JobPath exports jobPath for testing purposes
func JobPath(jobName string) (string, error) {
	return jobPath(jobName)
}
