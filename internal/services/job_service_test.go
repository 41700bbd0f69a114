package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/autotrackr/autotrackr/internal/apperr"
	"github.com/autotrackr/autotrackr/internal/dtos"
)

func jobReq() dtos.JobRequest {
	return dtos.JobRequest{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Build services in Go with Postgres",
		Link:        "https://jobs.acme.test/123",
	}
}

func TestCreateJobStampsServerFields(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "alice", nil)

	before := time.Now().UTC()
	job, err := f.jobs.Create(context.Background(), owner, jobReq())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if job.ID == uuid.Nil {
		t.Error("job id not assigned")
	}
	if job.OwnerID != owner.ID {
		t.Errorf("owner id = %v, want %v", job.OwnerID, owner.ID)
	}
	if job.DateAdded.Before(before) || job.DateAdded.After(time.Now().UTC()) {
		t.Errorf("date_added = %v, not server-stamped", job.DateAdded)
	}

	got, err := f.jobs.Get(context.Background(), owner, job.ID)
	if err != nil {
		t.Fatalf("Get() after Create() error: %v", err)
	}
	if got.Title != "Backend Engineer" || !got.DateAdded.Equal(job.DateAdded) {
		t.Errorf("Get() = %+v, want the created record", got)
	}
}

func TestCreateJobMatchesSkills(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "alice", []string{"Go", "Postgres", "Kafka"})

	job, err := f.jobs.Create(context.Background(), owner, jobReq())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// "Go" is below the 3-char guard, "Kafka" is absent from the text.
	if len(job.SkillsMatched) != 1 || job.SkillsMatched[0] != "Postgres" {
		t.Errorf("skills_matched = %v, want [Postgres]", job.SkillsMatched)
	}
}

func TestCreateJobNotifiesLinkedChatOnly(t *testing.T) {
	f := newFixture(t)
	unlinked := f.signup(t, "alice", nil)

	if _, err := f.jobs.Create(context.Background(), unlinked, jobReq()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if f.notifier.count() != 0 {
		t.Errorf("notifier sent %d messages for an unlinked owner, want 0", f.notifier.count())
	}

	linked := f.signup(t, "bob", nil)
	linked.TelegramChatID = "777"
	if _, err := f.jobs.Create(context.Background(), linked, jobReq()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if f.notifier.count() != 1 {
		t.Errorf("notifier sent %d messages for a linked owner, want 1", f.notifier.count())
	}
}

func TestCreateJobSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "alice", nil)
	owner.TelegramChatID = "777"
	f.notifier.err = errNotifierDown

	job, err := f.jobs.Create(context.Background(), owner, jobReq())
	if err != nil {
		t.Fatalf("Create() failed because of notifier: %v", err)
	}
	if _, err := f.jobs.Get(context.Background(), owner, job.ID); err != nil {
		t.Errorf("job not persisted after notifier failure: %v", err)
	}
}

func TestListReturnsOwnJobsOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice", nil)
	bob := f.signup(t, "bob", nil)

	for i := 0; i < 3; i++ {
		if _, err := f.jobs.Create(context.Background(), alice, jobReq()); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}
	if _, err := f.jobs.Create(context.Background(), bob, jobReq()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	jobs, err := f.jobs.List(context.Background(), alice)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(jobs) != 3 {
		t.Errorf("List() returned %d jobs, want 3", len(jobs))
	}
	for _, j := range jobs {
		if j.OwnerID != alice.ID {
			t.Errorf("List() leaked job owned by %v", j.OwnerID)
		}
	}
}

func TestOwnershipScoping(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice", nil)
	bob := f.signup(t, "bob", nil)

	job, err := f.jobs.Create(context.Background(), alice, jobReq())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Get and Update by a non-owner are indistinguishable from absence.
	if _, err := f.jobs.Get(context.Background(), bob, job.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Get() non-owner kind = %v, want not_found", apperr.KindOf(err))
	}
	if _, err := f.jobs.Update(context.Background(), bob, job.ID, jobReq()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Update() non-owner kind = %v, want not_found", apperr.KindOf(err))
	}

	// Delete distinguishes: existing but foreign record is forbidden.
	if err := f.jobs.Delete(context.Background(), bob, job.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("Delete() non-owner kind = %v, want forbidden", apperr.KindOf(err))
	}

	// A record that exists nowhere is not found for everyone.
	if err := f.jobs.Delete(context.Background(), bob, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Delete() absent kind = %v, want not_found", apperr.KindOf(err))
	}
}

func TestUpdateReplacesFieldsAndRecordsHistory(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "alice", nil)

	job, err := f.jobs.Create(context.Background(), owner, jobReq())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	req := jobReq()
	req.Title = "Staff Engineer"
	req.Applied = true
	updated, err := f.jobs.Update(context.Background(), owner, job.ID, req)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if updated.Title != "Staff Engineer" || !updated.Applied {
		t.Errorf("Update() = %+v, mutable fields not replaced", updated)
	}
	if updated.ID != job.ID || updated.OwnerID != job.OwnerID || !updated.DateAdded.Equal(job.DateAdded) {
		t.Error("Update() mutated immutable fields")
	}
	if len(updated.ChangeHistory) != 1 {
		t.Fatalf("change history has %d entries, want 1", len(updated.ChangeHistory))
	}
	diff := updated.ChangeHistory[0].Diff
	if diff["title"] != "Staff Engineer" || diff["applied"] != "true" {
		t.Errorf("change history diff = %v", diff)
	}
}

func TestDeleteTwice(t *testing.T) {
	f := newFixture(t)
	owner := f.signup(t, "alice", nil)

	job, err := f.jobs.Create(context.Background(), owner, jobReq())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := f.jobs.Delete(context.Background(), owner, job.ID); err != nil {
		t.Fatalf("first Delete() error: %v", err)
	}
	if err := f.jobs.Delete(context.Background(), owner, job.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second Delete() kind = %v, want not_found", apperr.KindOf(err))
	}
}
