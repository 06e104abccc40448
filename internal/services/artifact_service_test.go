package services

import (
	"context"
	"testing"
	"time"

	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/repositories/disk"
	"github.com/miraihq/mirai-interview/internal/repositories/memory"
	"github.com/miraihq/mirai-interview/internal/utils"
)

func newTestArtifacts(t *testing.T) (ArtifactService, *memory.SessionStore, *disk.ArtifactStore) {
	t.Helper()

	store := memory.NewSessionStore(time.Hour, nil)
	artifactStore, err := disk.NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewArtifactService(&fakeTTS{}, artifactStore, store, nil)
	t.Cleanup(svc.Close)
	return svc, store, artifactStore
}

func TestOwnerCanFetch(t *testing.T) {
	svc, store, _ := newTestArtifacts(t)
	ctx := context.Background()

	sess, _ := store.GetOrCreate("u1", "QA", models.InterviewTypeHR, time.Now())
	sess.Lock()
	art, err := svc.SynthesizeAndRegister(ctx, sess, "Selamat datang", "id-ID")
	sess.Unlock()
	if err != nil {
		t.Fatal(err)
	}

	b, err := svc.Fetch(ctx, "u1", art.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "mp3-bytes" {
		t.Fatalf("fetched %q", b)
	}
}

func TestCrossUserFetchIsForbidden(t *testing.T) {
	svc, store, _ := newTestArtifacts(t)
	ctx := context.Background()
	now := time.Now()

	owner, _ := store.GetOrCreate("owner", "QA", models.InterviewTypeHR, now)
	owner.Lock()
	art, err := svc.SynthesizeAndRegister(ctx, owner, "Halo", "id-ID")
	owner.Unlock()
	if err != nil {
		t.Fatal(err)
	}

	// another live session that does not own the artifact
	store.GetOrCreate("other", "QA", models.InterviewTypeHR, now)

	if _, err := svc.Fetch(ctx, "other", art.ID); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("other user fetch: expected FORBIDDEN, got %v", err)
	}

	// no session at all is forbidden too, even for an existing file
	if _, err := svc.Fetch(ctx, "ghost", art.ID); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("ghost fetch: expected FORBIDDEN, got %v", err)
	}
}

func TestFetchMissingFileIsNotFound(t *testing.T) {
	svc, store, artifactStore := newTestArtifacts(t)
	ctx := context.Background()

	sess, _ := store.GetOrCreate("u1", "QA", models.InterviewTypeHR, time.Now())
	sess.Lock()
	art, err := svc.SynthesizeAndRegister(ctx, sess, "Halo", "id-ID")
	sess.Unlock()
	if err != nil {
		t.Fatal(err)
	}

	// ownership survives the file being deleted out from under it
	if err := artifactStore.Remove(art.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Fetch(ctx, "u1", art.ID); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestScheduleDeleteRemovesArtifact(t *testing.T) {
	svc, store, artifactStore := newTestArtifacts(t)
	ctx := context.Background()

	sess, _ := store.GetOrCreate("u1", "QA", models.InterviewTypeHR, time.Now())
	sess.Lock()
	art, err := svc.SynthesizeAndRegister(ctx, sess, "Halo", "id-ID")
	sess.Unlock()
	if err != nil {
		t.Fatal(err)
	}

	svc.ScheduleDelete(art.ID, 10*time.Millisecond)
	// scheduling again for the same id is a no-op
	svc.ScheduleDelete(art.ID, 10*time.Hour)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := artifactStore.Read(art.ID); err != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("artifact was not deleted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
