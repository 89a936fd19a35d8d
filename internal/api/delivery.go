package api

import (
	"context"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

func (c *Client) GetAvailableJobs(ctx context.Context) ([]domain.DeliveryJob, error) {
	var jobs []domain.DeliveryJob
	err := c.get(ctx, "/delivery/available", &jobs)
	return jobs, err
}

func (c *Client) GetMyJobs(ctx context.Context, partnerID string) ([]domain.DeliveryJob, error) {
	var jobs []domain.DeliveryJob
	err := c.get(ctx, "/delivery/my-jobs/"+partnerID, &jobs)
	return jobs, err
}

type jobRequest struct {
	JobID     string `json:"jobId"`
	PartnerID string `json:"partnerId"`
	Status    string `json:"status,omitempty"`
}

func (c *Client) AcceptJob(ctx context.Context, jobID, partnerID string) error {
	return c.post(ctx, "/delivery/accept", jobRequest{JobID: jobID, PartnerID: partnerID}, nil)
}

func (c *Client) UpdateJobStatus(ctx context.Context, jobID, partnerID, status string) error {
	return c.post(ctx, "/delivery/update-status", jobRequest{JobID: jobID, PartnerID: partnerID, Status: status}, nil)
}
