package api

import (
	"fmt"

	"github.com/gravitrone/shopos/cli/internal/workflow"
)

// --- Job Methods ---

func (c *Client) ListJobs(params QueryParams) ([]Job, error) {
	data, err := c.get(buildQuery("/api/jobs", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Job](data)
}

func (c *Client) GetJob(id string) (*Job, error) {
	data, err := c.get(fmt.Sprintf("/api/jobs/%s", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Job](data)
}

func (c *Client) CreateJob(input CreateJobInput) (*Job, error) {
	if input.Status == "" {
		input.Status = workflow.StatusIncomingCall
	}
	data, err := c.post("/api/jobs", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Job](data)
}

func (c *Client) UpdateJob(id string, input UpdateJobInput) (*Job, error) {
	data, err := c.patch(fmt.Sprintf("/api/jobs/%s", id), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Job](data)
}

// UpdateJobStatus moves a job to a new status. Callers are expected to have
// checked workflow.CanTransitionTo first; the backend has the final say.
func (c *Client) UpdateJobStatus(id string, status workflow.Status) (*Job, error) {
	body := map[string]string{"status": string(status)}
	data, err := c.patch(fmt.Sprintf("/api/jobs/%s/status", id), body)
	if err != nil {
		return nil, err
	}
	return decodeOne[Job](data)
}

func (c *Client) DeleteJob(id string) error {
	data, err := c.del(fmt.Sprintf("/api/jobs/%s", id))
	if err != nil {
		return err
	}
	return decodeAck(data)
}
