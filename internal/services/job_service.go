package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/autotrackr/autotrackr/internal/apperr"
	"github.com/autotrackr/autotrackr/internal/dtos"
	"github.com/autotrackr/autotrackr/internal/logger"
	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/notify"
	"github.com/autotrackr/autotrackr/internal/store"
)

type JobService struct {
	jobs     store.JobStore
	notifier notify.Notifier
	log      logger.Logger
}

func NewJobService(jobs store.JobStore, notifier notify.Notifier, log logger.Logger) *JobService {
	return &JobService{jobs: jobs, notifier: notifier, log: log}
}

// Create persists a job for owner. Id, owner and date_added are stamped
// server-side; whatever the client sent for them is ignored. If the owner
// has a linked chat, a notification is attempted best-effort.
func (s *JobService) Create(ctx context.Context, owner *models.User, req dtos.JobRequest) (*models.Job, error) {
	job := &models.Job{
		ID:            uuid.New(),
		OwnerID:       owner.ID,
		Title:         req.Title,
		Company:       req.Company,
		Location:      req.Location,
		Description:   req.Description,
		Link:          req.Link,
		Applied:       req.Applied,
		DateAdded:     time.Now().UTC(),
		Source:        req.Source,
		ExternalID:    req.ExternalID,
		SkillsMatched: matchSkills(owner.Skills, req.Title+" "+req.Description),
		ChangeHistory: models.ChangeLog{},
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperr.Internal("failed to create job", err)
	}

	if owner.TelegramChatID != "" {
		s.notifyJobAdded(ctx, owner.TelegramChatID, job)
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, owner *models.User) ([]models.Job, error) {
	jobs, err := s.jobs.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list jobs", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

// Get hides jobs belonging to other owners behind the same not-found as
// genuinely absent ones.
func (s *JobService) Get(ctx context.Context, owner *models.User, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByOwner(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("job not found")
		}
		return nil, apperr.Internal("failed to fetch job", err)
	}
	return job, nil
}

// Update replaces the mutable fields and appends the field-level diff to
// the job's change history. Id, owner and date_added never change.
func (s *JobService) Update(ctx context.Context, owner *models.User, id uuid.UUID, req dtos.JobRequest) (*models.Job, error) {
	job, err := s.jobs.FindByOwner(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("job not found")
		}
		return nil, apperr.Internal("failed to fetch job", err)
	}

	diff := jobDiff(job, req)
	job.Title = req.Title
	job.Company = req.Company
	job.Location = req.Location
	job.Description = req.Description
	job.Link = req.Link
	job.Applied = req.Applied
	job.Source = req.Source
	job.ExternalID = req.ExternalID
	if req.SkillsMatched != nil {
		job.SkillsMatched = pq.StringArray(req.SkillsMatched)
	}
	if len(diff) > 0 {
		job.ChangeHistory = append(job.ChangeHistory, models.ChangeEntry{
			ChangedAt: time.Now().UTC(),
			Diff:      diff,
		})
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperr.Internal("failed to update job", err)
	}
	return job, nil
}

// Delete distinguishes a missing job (not found) from someone else's job
// (forbidden). This asymmetry with Get/Update is intentional.
func (s *JobService) Delete(ctx context.Context, owner *models.User, id uuid.UUID) error {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("job not found")
		}
		return apperr.Internal("failed to fetch job", err)
	}
	if job.OwnerID != owner.ID {
		return apperr.Forbidden("not authorized to delete this job")
	}

	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("job not found")
		}
		return apperr.Internal("failed to delete job", err)
	}
	return nil
}

func (s *JobService) notifyJobAdded(ctx context.Context, chatID string, job *models.Job) {
	location := job.Location
	if location == "" {
		location = "Remote/Not Specified"
	}
	link := job.Link
	if link == "" {
		link = "N/A"
	}
	message := fmt.Sprintf(
		"🆕 New Job Added!\n\n📋 Title: %s\n🏢 Company: %s\n📍 Location: %s\n🔗 Link: %s",
		job.Title, job.Company, location, link,
	)

	if err := s.notifier.Send(ctx, chatID, message); err != nil {
		s.log.Warn("job notification failed",
			logger.String("chat_id", chatID),
			logger.String("job_id", job.ID.String()),
			logger.Error(err),
		)
	}
}

// matchSkills returns the owner's skills that appear in the job text.
// Skills shorter than 3 characters are skipped: a skill named "Go" or "R"
// matches almost anything.
func matchSkills(skills []string, text string) pq.StringArray {
	textLower := strings.ToLower(text)
	matched := pq.StringArray{}
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if len(s) < 3 {
			continue
		}
		if strings.Contains(textLower, s) {
			matched = append(matched, skill)
		}
	}
	return matched
}

func jobDiff(job *models.Job, req dtos.JobRequest) map[string]string {
	diff := make(map[string]string)
	if job.Title != req.Title {
		diff["title"] = req.Title
	}
	if job.Company != req.Company {
		diff["company"] = req.Company
	}
	if job.Location != req.Location {
		diff["location"] = req.Location
	}
	if job.Description != req.Description {
		diff["description"] = req.Description
	}
	if job.Link != req.Link {
		diff["link"] = req.Link
	}
	if job.Applied != req.Applied {
		diff["applied"] = strconv.FormatBool(req.Applied)
	}
	if job.Source != req.Source {
		diff["source"] = req.Source
	}
	if job.ExternalID != req.ExternalID {
		diff["external_id"] = req.ExternalID
	}
	return diff
}
